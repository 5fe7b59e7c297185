// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strings"

	"codeberg.org/phrasepost/phrasepost/config"
)

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// NOTE: we intentionally don't set CORP or HSTS headers.
	baseHeaders = http.Header{
		"Referrer-Policy":         {"no-referrer"},
		"X-Frame-Options":         {"DENY"},
		"X-Content-Type-Options":  {"nosniff"},
		"Content-Security-Policy": {strings.Join(baseCSP, "; ") + ";"},
	}

	baseCSP = []string{
		"base-uri 'self'",
		"default-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data:",
		"connect-src 'self'",
		"frame-ancestors 'none'",
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	setCacheControl(headers, r.URL.Path)

	headers.Set("Phrasepost-Version", config.BuildVersion)

	next.ServeHTTP(w, r)
}

// setCacheControl sets cache control headers appropriate for the path.
func setCacheControl(headers http.Header, path string) {
	// Default to only storing in the browser cache and forcing revalidation
	cacheDuration := "private, no-cache"

	// The assembled page and the JSON API are never shared-cacheable;
	// translation dictionaries change rarely (1 day)
	if strings.HasPrefix(path, "/api/translations/") {
		cacheDuration = "max-age=86400"
	}

	if strings.HasPrefix(path, "/auth/") || path == "/me" {
		cacheDuration = "no-store"
	}

	headers.Set("Cache-Control", cacheDuration)
}
