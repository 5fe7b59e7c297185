// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package storage provides the persistent key-value store behind settings,
the access token, search history, and saved places.

Each logical collection is an independent JSON document in the state
directory; collections are never merged into one file. Reads that hit a
missing or malformed document degrade to the collection's empty value
instead of propagating an error. Writes replace the whole document
(last-writer-wins, no locking across processes).
*/
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Collection names. These are part of the contract other components rely
// on; each maps to its own document in the state directory.
const (
	CollectionSettings      = "settings"
	CollectionAccessToken   = "access_token"
	CollectionSearchHistory = "search_history"
	CollectionSavedPlaces   = "saved_places"
)

const documentPermissions = 0o600

// Store reads and writes JSON collection documents under a state directory.
// Instances are safe for concurrent use within one process; there is no
// cross-process coordination.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	return &Store{dir: dir}, nil
}

// Get unmarshals the named collection into v and reports whether a usable
// document was found. A missing or corrupt document leaves v untouched and
// returns false; corruption is logged, never propagated.
func (s *Store) Get(collection string, v any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(collection)) // #nosec:G304
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("collection", collection).
				Msg("Could not read collection, degrading to default")
		}

		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		log.Warn().Err(err).Str("collection", collection).
			Msg("Malformed collection document, degrading to default")

		return false
	}

	return true
}

// Set replaces the named collection with the JSON encoding of v.
func (s *Store) Set(collection string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path(collection), data, documentPermissions); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", collection, err)
	}

	return nil
}

// Remove deletes the named collection. Removing an absent collection is a
// no-op.
func (s *Store) Remove(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(collection)); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("collection", collection).Msg("Failed to remove collection")
	}
}

// path maps a collection name to its document file.
//
// Names are flattened to a safe file name; collections never nest.
func (s *Store) path(collection string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, collection)

	return filepath.Join(s.dir, name+".json")
}
