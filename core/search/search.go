// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package search composes the geocoder with the search history buffer and the
saved-places set. It owns no rendering; callers receive plain result
records.
*/
package search

import (
	"context"
	"sync"

	"codeberg.org/phrasepost/phrasepost/core/geocoder"
	"codeberg.org/phrasepost/phrasepost/core/history"
	"codeberg.org/phrasepost/phrasepost/core/places"
)

// Orchestrator wires the map/search feature's collaborators together.
type Orchestrator struct {
	geocoder *geocoder.Client
	history  *history.Buffer
	places   *places.Set

	// Typeahead state, guarded by suggestMu. The debouncer coalesces
	// bursts of Suggest calls into one upstream lookup.
	debounce       *Debouncer
	suggestMu      sync.Mutex
	suggestQuery   string
	suggestResults []geocoder.Place
}

// New creates an orchestrator over the given collaborators.
func New(gc *geocoder.Client, hist *history.Buffer, saved *places.Set) *Orchestrator {
	return &Orchestrator{
		geocoder: gc,
		history:  hist,
		places:   saved,
		debounce: NewDebouncer(suggestQuietInterval),
	}
}

// Search forward-geocodes query in the given language and records the query
// in the history buffer. The top result's metadata becomes the history
// entry's metadata; a query with no results is still recorded.
func (o *Orchestrator) Search(ctx context.Context, query, lang string) ([]geocoder.Place, error) {
	results, err := o.geocoder.Forward(ctx, query, lang)
	if err != nil {
		return nil, err
	}

	var meta *history.Result
	if len(results) > 0 {
		top := results[0]
		meta = &history.Result{
			Address:  topAddress(top),
			Lat:      top.Lat,
			Lon:      top.Lon,
			Category: string(top.Category),
		}
	}

	o.history.Add(query, meta)

	return results, nil
}

// Locate reverse-geocodes a coordinate pair.
func (o *Orchestrator) Locate(ctx context.Context, lat, lon float64, lang string) (*geocoder.Place, error) {
	return o.geocoder.Reverse(ctx, lat, lon, lang)
}

// History returns the recorded queries, most recent first.
func (o *Orchestrator) History() []history.Entry {
	return o.history.Entries()
}

// ClearHistory empties the recorded queries.
func (o *Orchestrator) ClearHistory() {
	o.history.Clear()
}

// SavePlace stores a favorited place, reporting false for duplicates.
func (o *Orchestrator) SavePlace(place places.Place) bool {
	return o.places.Save(place)
}

// RemovePlace deletes a favorited place by id.
func (o *Orchestrator) RemovePlace(id string) {
	o.places.Remove(id)
}

// SavedPlaces returns the favorited places.
func (o *Orchestrator) SavedPlaces() []places.Place {
	return o.places.All()
}

// topAddress picks the display address for a history entry: city first,
// then country.
func topAddress(place geocoder.Place) string {
	if place.Address.City != "" {
		return place.Address.City
	}

	return place.Address.Country
}
