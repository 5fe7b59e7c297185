// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/phrasepost/phrasepost/core/audit"
	"codeberg.org/phrasepost/phrasepost/core/requests"
	"codeberg.org/phrasepost/phrasepost/server/request_context"
	"codeberg.org/phrasepost/phrasepost/server/routes"
)

// CatchError wraps HTTP handlers that return an error, providing
// centralized error handling, response buffering, and request logging.
//
// The handler's output is buffered through an httptest.ResponseRecorder.
// If the handler returns an error without having written an error status
// itself, the buffered output is discarded and a JSON error body is sent
// instead; otherwise the buffered response is written through unchanged.
// Every completed request is logged via an audit span.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)

		span := audit.Span{
			Destination: audit.ToUser,
			RequestID:   ctx.RequestID,
			Method:      r.Method,
			URL:         r.URL.String(),
		}

		_ = span.Begin(r.Context())
		defer span.End()

		recorder := httptest.NewRecorder()

		err := handler(recorder, r)

		ctx.RequestError = err

		if err != nil && recorder.Code < http.StatusBadRequest {
			// An unhandled error: discard the buffered output. Upstream
			// failures keep their status; everything else is a 500.
			ctx.StatusCode = http.StatusInternalServerError

			var apiErr *requests.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest {
				ctx.StatusCode = apiErr.StatusCode
			}

			routes.WriteError(w, ctx.StatusCode, err)
		} else {
			ctx.StatusCode = recorder.Code

			maps.Copy(w.Header(), recorder.Header())
			w.WriteHeader(recorder.Code)

			if _, err := recorder.Body.WriteTo(w); err != nil {
				log.Err(err).Msg("Failed to write response body")
			}
		}

		span.StatusCode = ctx.StatusCode
		span.BodySize = recorder.Body.Len()
		span.Error = ctx.RequestError

		span.Log()
	}
}
