// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package places keeps the deduplicated collection of favorited geographic
points, persisted through the storage adapter.

Identity is canonical across all call sites: a place is identified by its
id when one is present, and by its coordinate pair otherwise. A candidate
matching an existing entry under either facet is a duplicate and is
rejected, never merged.
*/
package places

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"codeberg.org/phrasepost/phrasepost/core/storage"
)

// Place is one favorited geographic point. Name maps language codes to
// localized display names; presentation is the caller's responsibility.
type Place struct {
	ID       string            `json:"id"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
	Category string            `json:"category"`
	Name     map[string]string `json:"name"`
	Address  string            `json:"address,omitempty"`
	SavedAt  int64             `json:"savedAt"` // epoch milliseconds
}

// Set is the saved-places collection.
type Set struct {
	store *storage.Store
	mu    sync.Mutex
}

// New creates a set persisting into store.
func New(store *storage.Store) *Set {
	return &Set{store: store}
}

// Save appends a copy of place, stamped with a generated id (when absent)
// and the save time, and reports whether it was stored. A place whose
// identity matches an existing entry leaves the collection unchanged and
// reports false; that is a status, not an error.
func (s *Set) Save(place Place) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.load()

	for _, existing := range saved {
		if isDuplicate(existing, place) {
			return false
		}
	}

	if place.ID == "" {
		place.ID = uuid.NewString()
	}

	place.SavedAt = time.Now().UnixMilli()

	saved = append(saved, place)

	if err := s.store.Set(storage.CollectionSavedPlaces, saved); err != nil {
		log.Warn().Err(err).Msg("Failed to persist saved places")

		return false
	}

	return true
}

// Remove deletes the entry with the given id. Removing a non-existent id
// is a no-op, not an error.
func (s *Set) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.load()

	filtered := make([]Place, 0, len(saved))
	for _, existing := range saved {
		if existing.ID == id {
			continue
		}

		filtered = append(filtered, existing)
	}

	if len(filtered) == len(saved) {
		return
	}

	if err := s.store.Set(storage.CollectionSavedPlaces, filtered); err != nil {
		log.Warn().Err(err).Msg("Failed to persist saved places")
	}
}

// All returns the full collection for rendering. The returned slice is a
// snapshot; mutating it does not affect the stored collection.
func (s *Set) All() []Place {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// isDuplicate applies the canonical identity scheme: same id when the
// candidate carries one, same coordinate pair otherwise.
func isDuplicate(existing, candidate Place) bool {
	if candidate.ID != "" {
		return existing.ID == candidate.ID
	}

	return existing.Lat == candidate.Lat && existing.Lon == candidate.Lon
}

// load reads the persisted collection, degrading to empty on corruption.
func (s *Set) load() []Place {
	var saved []Place
	s.store.Get(storage.CollectionSavedPlaces, &saved)

	return saved
}
