// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/phrasepost/phrasepost/core/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	return store
}

func TestRequestLink(t *testing.T) {
	t.Parallel()

	var gotEmail string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/request-link", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		gotEmail = payload["email"]

		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := New(server.URL, newTestStore(t))

	require.NoError(t, client.RequestLink(context.Background(), "traveler@example.com"))
	assert.Equal(t, "traveler@example.com", gotEmail)
}

func TestExchange_StoresToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/exchange", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "bearer-token-123"}`))
	}))
	defer server.Close()

	client := New(server.URL, newTestStore(t))

	require.NoError(t, client.Exchange(context.Background(), "one-time-token"))

	token, ok := client.Token()
	require.True(t, ok)
	assert.Equal(t, "bearer-token-123", token)
}

func TestExchange_EmptyAccessToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(server.URL, newTestStore(t))

	assert.Error(t, client.Exchange(context.Background(), "one-time-token"))

	_, ok := client.Token()
	assert.False(t, ok, "a failed exchange must not leave a token behind")
}

func TestMe_LoggedOutMakesNoNetworkCall(t *testing.T) {
	t.Parallel()

	called := false

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer server.Close()

	client := New(server.URL, newTestStore(t))

	profile, ok, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.False(t, ok)
	assert.False(t, called, "no stored token means no request")
}

func TestMe_ReturnsProfile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Set(storage.CollectionAccessToken, "valid-token"))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me", r.URL.Path)
		require.Equal(t, "Bearer valid-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "email": "traveler@example.com"}`))
	}))
	defer server.Close()

	client := New(server.URL, store)

	profile, ok, err := client.Me(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(42), profile.ID)
	assert.Equal(t, "traveler@example.com", profile.Email)
}

func TestMe_UnauthorizedClearsToken(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Set(storage.CollectionAccessToken, "stale-token"))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "token expired"}`))
	}))
	defer server.Close()

	client := New(server.URL, store)

	profile, ok, err := client.Me(context.Background())
	require.NoError(t, err, "a rejected token is the logged-out state, not an error")
	assert.Nil(t, profile)
	assert.False(t, ok)

	_, hasToken := client.Token()
	assert.False(t, hasToken, "the rejected token must be discarded")
}

func TestMe_ServerErrorKeepsToken(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Set(storage.CollectionAccessToken, "valid-token"))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "temporary failure", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, store)

	_, _, err := client.Me(context.Background())
	require.Error(t, err)

	_, hasToken := client.Token()
	assert.True(t, hasToken, "only an unauthorized response discards the token")
}

func TestNotConfigured(t *testing.T) {
	t.Parallel()

	client := New("", newTestStore(t))

	assert.Error(t, client.RequestLink(context.Background(), "traveler@example.com"))
	assert.Error(t, client.Exchange(context.Background(), "token"))

	profile, ok, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Set(storage.CollectionAccessToken, "token"))

	client := New("http://identity.invalid", store)
	client.Logout()

	_, hasToken := client.Token()
	assert.False(t, hasToken)

	// Logging out while logged out is a no-op.
	client.Logout()
}
