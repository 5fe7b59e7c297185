// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/phrasepost/phrasepost/core/requests"
	"codeberg.org/phrasepost/phrasepost/server/request_context"
)

// createTestRequest creates a test HTTP request with request context.
func createTestRequest(t *testing.T) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	return req.WithContext(request_context.WithRequestContext(req.Context()))
}

// TestCatchError_Success verifies the buffered response passes through
// unchanged when the handler succeeds.
func TestCatchError_Success(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"success"}`))

		return nil
	})

	req := createTestRequest(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"success"}`, rr.Body.String())
	assert.NoError(t, request_context.FromRequest(req).RequestError)
}

// TestCatchError_HandlerError verifies a returned error discards the
// buffered output and produces a JSON 500.
func TestCatchError_HandlerError(t *testing.T) {
	t.Parallel()

	handlerErr := errors.New("something broke")

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		_, _ = w.Write([]byte("partial output that must not leak"))

		return handlerErr
	})

	req := createTestRequest(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"something broke"}`, rr.Body.String())
	assert.ErrorIs(t, request_context.FromRequest(req).RequestError, handlerErr)
}

// TestCatchError_UpstreamError verifies that an upstream API error keeps
// its status code.
func TestCatchError_UpstreamError(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(_ http.ResponseWriter, _ *http.Request) error {
		return &requests.APIError{
			StatusCode: http.StatusBadGateway,
			Message:    "origin unavailable",
		}
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, createTestRequest(t))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

// TestCatchError_HandlerWroteErrorStatus verifies that a handler-written
// error response passes through even when an error is also returned.
func TestCatchError_HandlerWroteErrorStatus(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no such place"}`))

		return errors.New("not found")
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, createTestRequest(t))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"no such place"}`, rr.Body.String())
}

// TestCatchError_CopiesHeaders verifies buffered headers reach the real
// response.
func TestCatchError_CopiesHeaders(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("X-Custom", "value")
		w.WriteHeader(http.StatusCreated)

		return nil
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, createTestRequest(t))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "value", rr.Header().Get("X-Custom"))
}
