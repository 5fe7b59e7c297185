// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/phrasepost/phrasepost/core/history"
)

// History returns the recorded search queries, most recent first.
func (h *Handler) History(w http.ResponseWriter, _ *http.Request) error {
	entries := h.search.History()
	if entries == nil {
		entries = []history.Entry{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"history": entries})

	return nil
}

// ClearHistory empties the recorded search queries.
func (h *Handler) ClearHistory(w http.ResponseWriter, _ *http.Request) error {
	h.search.ClearHistory()

	w.WriteHeader(http.StatusNoContent)

	return nil
}
