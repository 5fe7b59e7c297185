// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package history keeps the bounded, deduplicated, most-recent-first list of
past search queries, persisted through the storage adapter.
*/
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/phrasepost/phrasepost/core/storage"
)

// Entry is one remembered search.
type Entry struct {
	Query     string   `json:"query"`
	Address   string   `json:"address,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	Category  string   `json:"category,omitempty"`
	Timestamp int64    `json:"timestamp"` // epoch milliseconds
}

// Result carries the optional metadata of the search result the query
// produced.
type Result struct {
	Address  string
	Lat      float64
	Lon      float64
	Category string
}

// Buffer is the search history ring buffer. Entries are unique by
// case-insensitive query and ordered most-recent-first; the collection
// never exceeds its configured maximum.
type Buffer struct {
	store *storage.Store
	max   int
	mu    sync.Mutex
}

// New creates a buffer bounded to max entries, persisting into store.
func New(store *storage.Store, max int) *Buffer {
	return &Buffer{store: store, max: max}
}

// Add inserts a new entry for query at the front.
//
// Any existing entry with the same query, compared case-insensitively, is
// removed first: a repeated query moves to the front and its metadata is
// replaced rather than duplicated. The tail is dropped when the collection
// would exceed the maximum.
func (b *Buffer) Add(query string, result *Result) {
	entry := Entry{
		Query:     query,
		Timestamp: time.Now().UnixMilli(),
	}

	if result != nil {
		entry.Address = result.Address
		entry.Category = result.Category
		lat, lon := result.Lat, result.Lon
		entry.Lat = &lat
		entry.Lon = &lon
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.load()

	filtered := make([]Entry, 0, len(entries)+1)
	filtered = append(filtered, entry)

	for _, existing := range entries {
		if strings.EqualFold(existing.Query, query) {
			continue
		}

		filtered = append(filtered, existing)
	}

	if len(filtered) > b.max {
		filtered = filtered[:b.max]
	}

	if err := b.store.Set(storage.CollectionSearchHistory, filtered); err != nil {
		log.Warn().Err(err).Msg("Failed to persist search history")
	}
}

// Entries returns the history, most recent first. The returned slice is a
// snapshot; mutating it does not affect the stored collection.
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.load()
}

// Clear empties the collection.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store.Remove(storage.CollectionSearchHistory)
}

// load reads the persisted collection, degrading to empty on corruption.
func (b *Buffer) load() []Entry {
	var entries []Entry
	b.store.Get(storage.CollectionSearchHistory, &entries)

	return entries
}
