// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/phrasepost/phrasepost/config"
	"codeberg.org/phrasepost/phrasepost/core/requests/lru"
)

var (
	cache *lru.Cache

	// excludedCachePaths lists upstream endpoints whose responses are
	// never cached. Auth flows are stateful; /me must observe token
	// invalidation immediately.
	excludedCachePaths = []string{
		"/auth/",
		"/me",
	}
)

// cachedItem represents a cached HTTP response's components along with its original URL.
type cachedItem struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

// cachePolicy defines the caching behavior for a request.
type cachePolicy struct {
	// Whether to store an OK response that we receive.
	shouldStore bool

	// The cached item if available and fresh.
	cachedItem *cachedItem
}

// Setup initializes the upstream response cache based on parameters in config.Global.
//
// If caching is disabled in the configuration, it skips initialization.
func Setup() {
	if !config.Global.Cache.Enabled {
		log.Info().Msg("Cache is disabled, skipping cache initialization")

		return
	}

	var err error

	cache, err = lru.New(config.Global.Cache.Size, true)
	if err != nil {
		panic(fmt.Sprintf("failed to create cache: %v", err))
	}

	log.Info().
		Int("size", config.Global.Cache.Size).
		Dur("ttl", config.Global.Cache.TTL).
		Msg("Initialized upstream response cache")
}

// generateCacheKey binds cached responses to both the request URL and the
// bearer token that requested them, so responses remain strictly scoped to
// the session that originally fetched them.
func generateCacheKey(url, token string) string {
	hasher := fnv.New32()

	_, _ = hasher.Write([]byte(url + ":" + token))

	return strconv.FormatUint(uint64(hasher.Sum32()), 16)
}

// determineCachePolicy decides whether a fresh cached response is available
// for the request, and whether a new response should be stored.
func determineCachePolicy(rawURL, token string, headers http.Header) cachePolicy {
	if !config.Global.Cache.Enabled || cache == nil {
		return cachePolicy{}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return cachePolicy{} // Invalid URL, don't cache.
	}

	cleanPath := path.Clean(parsedURL.Path)
	for _, excluded := range excludedCachePaths {
		if strings.HasPrefix(cleanPath, excluded) {
			return cachePolicy{}
		}
	}

	// Honor "no-cache" from the downstream client: skip both read and write.
	lowerCacheControl := strings.ToLower(headers.Get("Cache-Control"))
	if strings.Contains(lowerCacheControl, "no-cache") {
		return cachePolicy{}
	}

	cacheKey := generateCacheKey(rawURL, token)

	if cached, found := cache.Get(cacheKey); found {
		var item cachedItem
		if err := gob.NewDecoder(bytes.NewReader(cached)).Decode(&item); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("Failed to decode cached item; removing")
			cache.Remove(cacheKey)
		} else {
			return cachePolicy{
				shouldStore: false,
				cachedItem:  &item,
			}
		}
	}

	return cachePolicy{
		shouldStore: !strings.Contains(lowerCacheControl, "no-store"),
	}
}

// storeResponse serializes a successful response into the cache.
func storeResponse(opts RequestOptions, resp *http.Response, body []byte) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cachedItem{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		URL:        opts.URL,
	}); err != nil {
		log.Warn().Err(err).Msg("Failed to serialize item for cache")

		return
	}

	cache.Add(generateCacheKey(opts.URL, opts.Token), buf.Bytes(), config.Global.Cache.TTL)
}

// InvalidateURLs removes all cached items whose URL starts with any of the
// provided prefixes, returning the number of entries removed.
//
// Safe to call even if caching is disabled. Entries are matched by their
// stored URL because cache keys are hashes and cannot be enumerated by URL.
func InvalidateURLs(urlPrefixes []string) int {
	if !config.Global.Cache.Enabled || cache == nil || len(urlPrefixes) == 0 {
		return 0
	}

	invalidated := 0

	for _, key := range cache.Keys() {
		raw, ok := cache.Peek(key)
		if !ok {
			continue
		}

		var item cachedItem

		// A corrupt entry will be evicted eventually or removed on a
		// failed Get; no need to log while peeking.
		if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&item); err != nil {
			continue
		}

		for _, prefix := range urlPrefixes {
			if strings.HasPrefix(item.URL, prefix) {
				cache.Remove(key)

				invalidated++

				break
			}
		}
	}

	log.Info().Int("count", invalidated).Msg("Invalidated cached responses")

	return invalidated
}
