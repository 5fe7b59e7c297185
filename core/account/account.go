// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package account is the client for the magic-link identity service.

The bearer token it holds is opaque: there is no client-side expiry
tracking, and its absence means "logged out". The one failure that mutates
persisted state is an unauthorized response from the profile endpoint,
which discards the stored token.
*/
package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"codeberg.org/phrasepost/phrasepost/core/audit"
	"codeberg.org/phrasepost/phrasepost/core/requests"
	"codeberg.org/phrasepost/phrasepost/core/storage"
)

var (
	errNotConfigured    = errors.New("identity service is not configured")
	errEmptyAccessToken = errors.New("exchange response contained no access token")
)

// Profile is the authenticated user as reported by the identity service.
type Profile struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Client talks to the identity service and keeps the bearer token in the
// persistent store.
type Client struct {
	baseURL string
	store   *storage.Store
}

// New creates a client against baseURL. An empty baseURL is allowed; every
// operation then reports the logged-out state or errNotConfigured.
func New(baseURL string, store *storage.Store) *Client {
	return &Client{baseURL: baseURL, store: store}
}

// RequestLink asks the identity service to email a one-time sign-in link.
func (c *Client) RequestLink(ctx context.Context, email string) error {
	if c.baseURL == "" {
		return errNotConfigured
	}

	_, err := requests.PostJSON(ctx, requests.RequestOptions{
		URL:         c.baseURL + "/auth/request-link",
		Payload:     map[string]string{"email": email},
		Destination: audit.ToIdentity,
	})
	if err != nil {
		return fmt.Errorf("failed to request sign-in link: %w", err)
	}

	return nil
}

// Exchange trades a one-time token for a bearer access token and stores it.
func (c *Client) Exchange(ctx context.Context, oneTimeToken string) error {
	if c.baseURL == "" {
		return errNotConfigured
	}

	body, err := requests.PostJSON(ctx, requests.RequestOptions{
		URL:         c.baseURL + "/auth/exchange",
		Payload:     map[string]string{"token": oneTimeToken},
		Destination: audit.ToIdentity,
	})
	if err != nil {
		return fmt.Errorf("failed to exchange sign-in token: %w", err)
	}

	accessToken := gjson.GetBytes(body, "access_token").String()
	if accessToken == "" {
		return errEmptyAccessToken
	}

	if err := c.store.Set(storage.CollectionAccessToken, accessToken); err != nil {
		return fmt.Errorf("failed to persist access token: %w", err)
	}

	return nil
}

// Me returns the signed-in profile.
//
// With no stored token it reports logged out without any network call. An
// unauthorized response discards the stored token (implicit logout) and
// also reports logged out; only unexpected failures surface as errors.
func (c *Client) Me(ctx context.Context) (*Profile, bool, error) {
	token, ok := c.Token()
	if !ok {
		return nil, false, nil
	}

	body, err := requests.Get(ctx, requests.RequestOptions{
		URL:         c.baseURL + "/me",
		Token:       token,
		Destination: audit.ToIdentity,
	})
	if err != nil {
		var apiErr *requests.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			log.Info().Msg("Stored access token rejected, clearing it")
			c.Logout()

			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to fetch profile: %w", err)
	}

	profile := &Profile{
		ID:    gjson.GetBytes(body, "id").Int(),
		Email: gjson.GetBytes(body, "email").String(),
	}

	return profile, true, nil
}

// Token returns the stored bearer token, reporting false when logged out.
func (c *Client) Token() (string, bool) {
	var token string
	if !c.store.Get(storage.CollectionAccessToken, &token) || token == "" {
		return "", false
	}

	return token, true
}

// Logout discards the stored token and any cached identity responses.
func (c *Client) Logout() {
	c.store.Remove(storage.CollectionAccessToken)

	if c.baseURL != "" {
		requests.InvalidateURLs([]string{c.baseURL})
	}
}
