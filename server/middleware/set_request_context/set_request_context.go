// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package set_request_context attaches the per-request context object.
// It lives outside package middleware to keep the import graph acyclic.
package set_request_context

import (
	"net/http"

	"codeberg.org/phrasepost/phrasepost/server/request_context"
)

// WithRequestContext initializes the request-scoped context object; it must
// run before any middleware or handler that reads it.
func WithRequestContext(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ctx := request_context.WithRequestContext(r.Context())

	next.ServeHTTP(w, r.WithContext(ctx))
}
