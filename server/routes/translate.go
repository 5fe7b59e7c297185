// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"
	"strings"

	"codeberg.org/phrasepost/phrasepost/core/translator"
)

// Translate renders the q parameter in the target language.
//
// The to parameter defaults to the active language; the from parameter,
// when absent, is detected from the phrase's script.
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) error {
	phrase := strings.TrimSpace(r.URL.Query().Get("q"))
	if phrase == "" {
		WriteError(w, http.StatusBadRequest, errMissingQuery)

		return nil
	}

	to := r.URL.Query().Get("to")
	if to == "" {
		to = h.dispatcher.Language()
	}

	result, err := h.translator.Translate(r.Context(), phrase, r.URL.Query().Get("from"), to)
	if err != nil {
		if errors.Is(err, translator.ErrPhraseTooLong) {
			WriteError(w, http.StatusBadRequest, err)

			return nil
		}

		return err
	}

	WriteJSON(w, http.StatusOK, result)

	return nil
}
