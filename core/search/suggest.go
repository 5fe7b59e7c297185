// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package search

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"codeberg.org/phrasepost/phrasepost/core/geocoder"
	"codeberg.org/phrasepost/phrasepost/core/history"
)

const (
	// Queries shorter than this answer from the history alone; a couple
	// of characters is not worth a geocoder round trip.
	minSuggestLength = 3

	suggestQuietInterval = 300 * time.Millisecond
	suggestTimeout       = 10 * time.Second
)

// Suggestions is one typeahead answer. Pending reports that an upstream
// lookup for the query has been scheduled but has not completed; the
// caller polls again to pick up its places.
type Suggestions struct {
	Query   string           `json:"query"`
	Places  []geocoder.Place `json:"places"`
	History []history.Entry  `json:"history"`
	Pending bool             `json:"pending"`
}

// Suggest serves one typeahead lookup.
//
// Short queries answer from the search history. Longer queries answer
// from the last completed lookup when it matches; otherwise a geocoder
// call is scheduled through the debouncer, so a burst of keystrokes
// costs at most one upstream request per quiet interval. Suggestions
// never touch the history buffer; only a submitted search does.
func (o *Orchestrator) Suggest(query, lang string) Suggestions {
	query = strings.TrimSpace(query)

	if utf8.RuneCountInString(query) < minSuggestLength {
		return Suggestions{Query: query, History: o.history.Entries()}
	}

	o.suggestMu.Lock()
	done := o.suggestQuery == query
	results := o.suggestResults
	o.suggestMu.Unlock()

	if done {
		return Suggestions{Query: query, Places: results}
	}

	o.debounce.Schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), suggestTimeout)
		defer cancel()

		found, err := o.geocoder.Forward(ctx, query, lang)
		if err != nil {
			log.Debug().Err(err).Str("query", query).Msg("Suggestion lookup failed")

			return
		}

		o.suggestMu.Lock()
		o.suggestQuery = query
		o.suggestResults = found
		o.suggestMu.Unlock()
	})

	return Suggestions{Query: query, Pending: true}
}
