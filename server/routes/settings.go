// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"
	"slices"

	"codeberg.org/phrasepost/phrasepost/core/storage"
)

var errUnknownSetting = errors.New("unknown setting")

// knownSettings lists the setting names accepted over the API. Language is
// handled by SetLanguage, not here.
var knownSettings = []string{
	storage.SettingTheme,
	storage.SettingFontSize,
	storage.SettingContrast,
}

// Settings returns the persisted display settings.
func (h *Handler) Settings(w http.ResponseWriter, _ *http.Request) error {
	WriteJSON(w, http.StatusOK, h.store.Settings())

	return nil
}

// UpdateSettings merges the posted display settings into the persisted
// ones.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) error {
	var payload map[string]string
	if err := readJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err)

		return nil
	}

	for name := range payload {
		if !slices.Contains(knownSettings, name) {
			WriteError(w, http.StatusBadRequest, errUnknownSetting)

			return nil
		}
	}

	for name, value := range payload {
		if err := h.store.SetSetting(name, value); err != nil {
			return err
		}
	}

	WriteJSON(w, http.StatusOK, h.store.Settings())

	return nil
}
