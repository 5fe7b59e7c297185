// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

var (
	errMissingQuery      = errors.New("missing q parameter")
	errInvalidCoordinate = errors.New("invalid lat or lon parameter")
)

// Search forward-geocodes the q parameter and records it in the search
// history.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) error {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteError(w, http.StatusBadRequest, errMissingQuery)

		return nil
	}

	results, err := h.search.Search(r.Context(), query, h.language(r))
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, map[string]any{"results": results})

	return nil
}

// Reverse reverse-geocodes the lat and lon parameters.
func (h *Handler) Reverse(w http.ResponseWriter, r *http.Request) error {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)

	if latErr != nil || lonErr != nil {
		WriteError(w, http.StatusBadRequest, errInvalidCoordinate)

		return nil
	}

	place, err := h.search.Locate(r.Context(), lat, lon, h.language(r))
	if err != nil {
		return err
	}

	WriteJSON(w, http.StatusOK, place)

	return nil
}

// Suggest serves typeahead lookups for the search box. The response may
// be pending while the debounced geocoder call is in flight; clients
// poll again to pick up its places.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) error {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	WriteJSON(w, http.StatusOK, h.search.Suggest(query, h.language(r)))

	return nil
}

// language picks the response language: the lang parameter when present,
// the active language otherwise.
func (h *Handler) language(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}

	return h.dispatcher.Language()
}
