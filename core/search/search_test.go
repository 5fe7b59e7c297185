// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/phrasepost/phrasepost/core/geocoder"
	"codeberg.org/phrasepost/phrasepost/core/history"
	"codeberg.org/phrasepost/phrasepost/core/places"
	"codeberg.org/phrasepost/phrasepost/core/storage"
)

const geocoderResponse = `[
	{
		"display_name": "Ritz, Paris, France",
		"lat": "48.8679",
		"lon": "2.3282",
		"class": "tourism",
		"type": "hotel",
		"address": {"city": "Paris", "country": "France"}
	}
]`

func newTestOrchestrator(t *testing.T, response string) *Orchestrator {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))

	t.Cleanup(server.Close)

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	return New(
		geocoder.New(server.URL, 10, 100),
		history.New(store, 10),
		places.New(store),
	)
}

func TestSearch_RecordsTopResultMetadata(t *testing.T) {
	t.Parallel()

	orchestrator := newTestOrchestrator(t, geocoderResponse)

	results, err := orchestrator.Search(context.Background(), "ritz paris", "en")
	require.NoError(t, err)
	require.Len(t, results, 1)

	entries := orchestrator.History()
	require.Len(t, entries, 1)
	assert.Equal(t, "ritz paris", entries[0].Query)
	assert.Equal(t, "Paris", entries[0].Address)
	assert.Equal(t, "hotel", entries[0].Category)
	require.NotNil(t, entries[0].Lat)
	assert.InEpsilon(t, 48.8679, *entries[0].Lat, 1e-9)
}

func TestSearch_EmptyResultIsStillRecorded(t *testing.T) {
	t.Parallel()

	orchestrator := newTestOrchestrator(t, `[]`)

	results, err := orchestrator.Search(context.Background(), "nowhere at all", "en")
	require.NoError(t, err)
	assert.Empty(t, results)

	entries := orchestrator.History()
	require.Len(t, entries, 1)
	assert.Equal(t, "nowhere at all", entries[0].Query)
	assert.Nil(t, entries[0].Lat)
}

func TestSearch_FailedGeocodingLeavesHistoryUntouched(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))

	t.Cleanup(server.Close)

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	orchestrator := New(
		geocoder.New(server.URL, 10, 100),
		history.New(store, 10),
		places.New(store),
	)

	_, err = orchestrator.Search(context.Background(), "anything", "en")
	require.Error(t, err)
	assert.Empty(t, orchestrator.History())
}

func TestSavePlaceRoundtrip(t *testing.T) {
	t.Parallel()

	orchestrator := newTestOrchestrator(t, `[]`)

	require.True(t, orchestrator.SavePlace(places.Place{Lat: 48.8679, Lon: 2.3282}))
	assert.False(t, orchestrator.SavePlace(places.Place{Lat: 48.8679, Lon: 2.3282}))

	saved := orchestrator.SavedPlaces()
	require.Len(t, saved, 1)

	orchestrator.RemovePlace(saved[0].ID)
	assert.Empty(t, orchestrator.SavedPlaces())
}

func TestClearHistory(t *testing.T) {
	t.Parallel()

	orchestrator := newTestOrchestrator(t, `[]`)

	_, err := orchestrator.Search(context.Background(), "hotel", "en")
	require.NoError(t, err)

	orchestrator.ClearHistory()
	assert.Empty(t, orchestrator.History())
}
