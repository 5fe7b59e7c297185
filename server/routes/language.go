// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"
)

var errMissingLanguage = errors.New("missing language code")

// Translations returns the dictionary for the requested language, after
// the usual fallback chain.
func (h *Handler) Translations(w http.ResponseWriter, r *http.Request) error {
	code := r.PathValue("lang")
	if code == "" {
		WriteError(w, http.StatusBadRequest, errMissingLanguage)

		return nil
	}

	dict, err := h.translations.LoadLanguage(r.Context(), code)
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, dict)

	return nil
}

// SetLanguage switches the active language.
func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) error {
	var payload struct {
		Language string `json:"language"`
	}

	if err := readJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err)

		return nil
	}

	if payload.Language == "" {
		WriteError(w, http.StatusBadRequest, errMissingLanguage)

		return nil
	}

	if err := h.dispatcher.SetLanguage(r.Context(), payload.Language, nil); err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, map[string]string{"language": h.dispatcher.Language()})

	return nil
}

// Languages lists the language codes the combined translations resource
// provides.
func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) error {
	// Ensure the combined resource has been fetched at least once.
	if _, err := h.translations.LoadLanguage(r.Context(), h.dispatcher.Language()); err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"languages": h.translations.Languages(),
		"active":    h.dispatcher.Language(),
	})

	return nil
}
