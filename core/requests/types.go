// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"net/http"

	"codeberg.org/phrasepost/phrasepost/core/audit"
)

// RequestOptions describes a single outbound HTTP request.
type RequestOptions struct {
	Method string
	URL    string

	// Payload is JSON-encoded into the request body for POST requests.
	Payload any

	// Token is an optional bearer token sent in the Authorization header.
	// It also scopes cache entries so one user's responses are never
	// served to another.
	Token string

	// IncomingHeaders are the headers of the downstream request that
	// triggered this call; only cache-control directives are honored.
	IncomingHeaders http.Header

	// Destination labels the request for audit logging.
	Destination audit.TrafficDestination
}
