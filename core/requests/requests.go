// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package requests performs outbound HTTP calls on behalf of the page core:
origin content (page shells, fragments, translations), geocoding, and
identity endpoints. GET responses may be served from and stored into an LRU
cache with a configured TTL; every call is logged through an audit span.
*/
package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"codeberg.org/phrasepost/phrasepost/core/audit"
	"codeberg.org/phrasepost/phrasepost/server/request_context"
	"codeberg.org/phrasepost/phrasepost/server/utils"
)

var (
	errInvalidJSON      = errors.New("response contained invalid JSON")
	errAPIResponseError = errors.New("API response indicated error")
)

// APIError represents an error response from an upstream service.
type APIError struct {
	// StatusCode is the HTTP status code from the response.
	// Always >= 400 for API errors.
	StatusCode int

	// Message contains the error message from the response body, if any.
	Message string

	// Err is the underlying error cause.
	Err error
}

// Error returns a formatted error message including the status code and upstream message if available.
func (e *APIError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	b.WriteString(fmt.Sprintf(" (status code: %d)", e.StatusCode))

	return b.String()
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Get performs a GET request and returns the response body.
// Responses with a status >= 400 are returned as an *APIError.
func Get(ctx context.Context, opts RequestOptions) ([]byte, error) {
	opts.Method = http.MethodGet

	return do(ctx, opts)
}

// GetJSON performs a GET request and validates that the body is JSON.
func GetJSON(ctx context.Context, opts RequestOptions) ([]byte, error) {
	opts.Method = http.MethodGet

	body, err := do(ctx, opts)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s", errInvalidJSON, string(body))
	}

	return body, nil
}

// PostJSON performs a POST request with a JSON-encoded payload and returns
// the response body.
func PostJSON(ctx context.Context, opts RequestOptions) ([]byte, error) {
	opts.Method = http.MethodPost

	return do(ctx, opts)
}

// Do sends an HTTP request and returns the raw *http.Response and the
// response body as a byte slice.
//
// GET requests consult the response cache first; successful GET responses
// are stored when the cache policy allows it. Do does not check for non-OK
// status codes, leaving that task to the caller.
func Do(ctx context.Context, opts RequestOptions) (*http.Response, []byte, error) {
	// For GET requests, determine cache policy and check for a cached response.
	var policy cachePolicy
	if opts.Method == http.MethodGet {
		policy = determineCachePolicy(opts.URL, opts.Token, opts.IncomingHeaders)
		if policy.cachedItem != nil {
			item := policy.cachedItem

			return &http.Response{
				StatusCode: item.StatusCode,
				Header:     item.Header.Clone(),
				Body:       io.NopCloser(bytes.NewReader(item.Body)),
			}, item.Body, nil
		}
	}

	req, err := newRequest(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	resp, body, err := sendRequest(ctx, req, opts.Destination)
	if err != nil {
		return nil, nil, err
	}

	if opts.Method == http.MethodGet && resp.StatusCode == http.StatusOK && policy.shouldStore {
		storeResponse(opts, resp, body)
	}

	return resp, body, nil
}

// do performs a request and maps non-2xx responses to an *APIError.
func do(ctx context.Context, opts RequestOptions) ([]byte, error) {
	resp, body, err := Do(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		// Attempt to extract an error message from the JSON body.
		message := gjson.GetBytes(body, "detail").String()
		if message == "" {
			message = gjson.GetBytes(body, "message").String()
		}

		// Fall back to the HTTP status text if no JSON message is found.
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Err:        errAPIResponseError,
		}
	}

	return body, nil
}

// newRequest constructs an *http.Request from RequestOptions.
func newRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	var reqBody io.Reader

	if opts.Method == http.MethodPost && opts.Payload != nil {
		encoded, err := json.Marshal(opts.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request payload: %w", err)
		}

		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if opts.Method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	return req, nil
}

// sendRequest executes the HTTP request, reads the body for auditing, and
// returns the response with a new, readable body stream, along with the raw
// body bytes.
func sendRequest(
	ctx context.Context,
	req *http.Request,
	destination audit.TrafficDestination,
) (_ *http.Response, _ []byte, err error) {
	span := audit.Span{
		Destination: destination,
		RequestID:   request_context.FromContext(ctx).RequestID,
		Method:      req.Method,
		URL:         req.URL.String(),
	}

	defer func() { span.Error = err }()

	_ = span.Begin(ctx)
	defer span.End() // in case of error

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.BodySize = len(body)

	span.End()
	span.Log()

	// Replace the consumed body with a new reader so the caller can still read it.
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return resp, body, nil
}

// IsContextCanceled returns true if the error is due to context cancellation
// or deadline exceeded. In these cases the client has disconnected and
// processing should simply stop.
func IsContextCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
