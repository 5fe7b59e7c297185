// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	errOriginRequired    = errors.New("origin.baseUrl is required")
	errInvalidBaseURL    = errors.New("base URL is not a valid absolute URL")
	errInvalidCacheSize  = errors.New("cache.cacheSize must be positive")
	errInvalidHistoryMax = errors.New("history.maxItems must be positive")
)

// validate checks the merged configuration for values the server cannot
// start with.
func (cfg *ServerConfig) validate() error {
	if cfg.Origin.BaseURL == "" {
		return errOriginRequired
	}

	for name, raw := range map[string]string{
		"origin.baseUrl":     cfg.Origin.BaseURL,
		"geocoder.baseUrl":   cfg.Geocoder.BaseURL,
		"translator.baseUrl": cfg.Translator.BaseURL,
	} {
		if err := validateBaseURL(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	// The identity service is optional; account features degrade to the
	// logged-out state when it is not configured.
	if cfg.Identity.BaseURL != "" {
		if err := validateBaseURL(cfg.Identity.BaseURL); err != nil {
			return fmt.Errorf("identity.baseUrl: %w", err)
		}
	}

	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return errInvalidCacheSize
	}

	if cfg.History.MaxItems <= 0 {
		return errInvalidHistoryMax
	}

	return nil
}

func validateBaseURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidBaseURL, err)
	}

	if !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidBaseURL, raw)
	}

	return nil
}
