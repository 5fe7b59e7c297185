// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package translator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "hello", r.URL.Query().Get("q"))
		assert.Equal(t, "en|fr", r.URL.Query().Get("langpair"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseData": {"translatedText": "Bonjour"}, "responseStatus": 200}`))
	}))
	defer server.Close()

	client := New(server.URL, 100)

	result, err := client.Translate(t.Context(), "hello", "", "fr")
	require.NoError(t, err)

	assert.Equal(t, "hello", result.Phrase)
	assert.Equal(t, "Bonjour", result.Translation)
	assert.Equal(t, "en", result.From, "source detected from the Latin script")
	assert.Equal(t, "fr", result.To)
}

func TestTranslate_ExplicitSourceSkipsDetection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "de|en", r.URL.Query().Get("langpair"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseData": {"translatedText": "thanks"}}`))
	}))
	defer server.Close()

	client := New(server.URL, 100)

	result, err := client.Translate(t.Context(), "danke", "de", "en")
	require.NoError(t, err)
	assert.Equal(t, "de", result.From)
}

func TestTranslate_EmptyTranslationIsAnError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseData": {"translatedText": ""}}`))
	}))
	defer server.Close()

	client := New(server.URL, 100)

	_, err := client.Translate(t.Context(), "hello", "en", "fr")
	assert.ErrorIs(t, err, errEmptyTranslation)
}

func TestTranslate_RejectsOverlongPhrase(t *testing.T) {
	t.Parallel()

	client := New("http://unused.invalid", 100)

	_, err := client.Translate(t.Context(), strings.Repeat("a", maxPhraseBytes+1), "en", "fr")
	assert.ErrorIs(t, err, ErrPhraseTooLong)
}

func TestTranslate_UpstreamErrorPropagates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(server.URL, 100)

	_, err := client.Translate(t.Context(), "hello", "en", "fr")
	assert.Error(t, err)
}

func TestDetectSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phrase string
		want   string
	}{
		{"где ближайшая аптека", "ru"},
		{"你好", "zh"},
		{"こんにちは", "ja"},
		{"カタカナ", "ja"},
		{"안녕하세요", "ko"},
		{"where is the station", "en"},
		{"", "en"},
		{"¿dónde está el baño?", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, DetectSource(tt.phrase))
		})
	}
}
