// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package middleware provides the HTTP middleware chain: response
// buffering with centralized error handling, request-scoped context,
// Server-Timing instrumentation, URL normalization, and default response
// headers.
package middleware
