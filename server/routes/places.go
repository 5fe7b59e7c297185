// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"

	"codeberg.org/phrasepost/phrasepost/core/places"
)

var errMissingPlaceID = errors.New("missing place id")

// SavedPlaces returns the favorited places.
func (h *Handler) SavedPlaces(w http.ResponseWriter, _ *http.Request) error {
	saved := h.search.SavedPlaces()
	if saved == nil {
		saved = []places.Place{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"places": saved})

	return nil
}

// SavePlace favorites a place. Saving a place that is already favorited is
// a no-op reported with 200 instead of 201.
func (h *Handler) SavePlace(w http.ResponseWriter, r *http.Request) error {
	var place places.Place
	if err := readJSON(r, &place); err != nil {
		WriteError(w, http.StatusBadRequest, err)

		return nil
	}

	if h.search.SavePlace(place) {
		w.WriteHeader(http.StatusCreated)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	return nil
}

// RemovePlace deletes a favorited place. Removing an unknown id is a
// no-op.
func (h *Handler) RemovePlace(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, http.StatusBadRequest, errMissingPlaceID)

		return nil
	}

	h.search.RemovePlace(id)

	w.WriteHeader(http.StatusNoContent)

	return nil
}
