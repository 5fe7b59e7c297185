// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package translations caches the combined translations resource: one JSON
document mapping language code → (key → string).

The resource is fetched lazily, at most once process-wide even under
concurrent first callers. A language code present in the cache always maps
to a fully loaded dictionary; there are no partial loads. A failed fetch
leaves the cache empty — lookups degrade to returning keys verbatim and the
next load attempt retries the fetch.
*/
package translations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
)

// Dictionary is a key → localized string mapping for one language.
// Dictionaries are immutable once loaded.
type Dictionary map[string]string

// Fallback chain for languages absent from the combined resource:
// requested → Russian → English → empty.
const (
	primaryFallback   = "ru"
	secondaryFallback = "en"
)

// FetchFunc retrieves the raw combined translations resource.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache holds the per-language dictionaries and the active language.
// Construct with [NewCache]; safe for concurrent use.
type Cache struct {
	fetch FetchFunc
	group singleflight.Group

	mu     sync.RWMutex
	dicts  map[string]Dictionary // nil until the combined resource is loaded
	active string
}

// NewCache creates a cache that loads the combined resource via fetch.
func NewCache(fetch FetchFunc) *Cache {
	return &Cache{fetch: fetch}
}

// Loaded reports whether the combined resource has been fetched.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.dicts != nil
}

// LoadLanguage returns the dictionary for code, fetching the combined
// resource first if no load has succeeded yet. Concurrent first callers
// share a single in-flight fetch.
//
// If the resource lacks an entry for code, the Russian dictionary is
// returned, then English, then an empty dictionary, in that order.
func (c *Cache) LoadLanguage(ctx context.Context, code string) (Dictionary, error) {
	code = Normalize(code)

	if dict, ok := c.dictionary(code); ok {
		return dict, nil
	}

	// The key is constant: there is exactly one combined resource, and at
	// most one fetch of it may be in flight.
	_, err, _ := c.group.Do("combined", func() (any, error) {
		// A racing caller may have completed the load already.
		if c.Loaded() {
			return nil, nil
		}

		data, err := c.fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch combined translations resource: %w", err)
		}

		var parsed map[string]Dictionary
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse combined translations resource: %w", err)
		}

		c.mu.Lock()
		c.dicts = parsed
		c.mu.Unlock()

		log.Info().Int("languages", len(parsed)).Msg("Loaded combined translations resource")

		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	dict, _ := c.dictionary(code)

	return dict, nil
}

// Lookup resolves key against the active language's dictionary, falling
// back to the English dictionary, then to the key itself verbatim.
// Lookup never fails; before a successful load it returns keys as-is.
func (c *Cache) Lookup(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.dicts == nil {
		return key
	}

	if value, ok := c.dicts[c.active][key]; ok {
		return value
	}

	if value, ok := c.dicts[secondaryFallback][key]; ok {
		return value
	}

	return key
}

// SetActive switches the active language. When the target dictionary is
// already cached this is a pure state update; otherwise the combined
// resource is loaded first.
func (c *Cache) SetActive(ctx context.Context, code string) error {
	code = Normalize(code)

	if !c.Loaded() {
		if _, err := c.LoadLanguage(ctx, code); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.active = code
	c.mu.Unlock()

	return nil
}

// Active returns the active language code, or "" before any switch.
func (c *Cache) Active() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.active
}

// Languages returns the language codes present in the combined resource.
func (c *Cache) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	codes := make([]string, 0, len(c.dicts))
	for code := range c.dicts {
		codes = append(codes, code)
	}

	return codes
}

// dictionary resolves code through the fallback chain against the
// loaded dictionaries. It reports false when no load has succeeded yet.
func (c *Cache) dictionary(code string) (Dictionary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.dicts == nil {
		return nil, false
	}

	for _, candidate := range []string{code, primaryFallback, secondaryFallback} {
		if dict, ok := c.dicts[candidate]; ok {
			return dict, true
		}
	}

	return Dictionary{}, true
}

// Normalize reduces a language code to its base form: "fr-CA" → "fr".
// Unparseable codes are lowercased and returned as-is.
func Normalize(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(code))
	}

	base, _ := tag.Base()

	return base.String()
}
