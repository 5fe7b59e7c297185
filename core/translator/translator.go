// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package translator is the client for the public phrase translation
service. Outbound calls are throttled to the configured rate; responses
flow through the shared request layer and its cache, so repeating a
phrase does not cost a second upstream call.
*/
package translator

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"codeberg.org/phrasepost/phrasepost/core/audit"
	"codeberg.org/phrasepost/phrasepost/core/requests"
)

// maxPhraseBytes mirrors the upstream bound on the q parameter.
const maxPhraseBytes = 500

// ErrPhraseTooLong reports input the upstream service would reject.
var ErrPhraseTooLong = errors.New("phrase exceeds the translatable length")

var errEmptyTranslation = errors.New("upstream returned no translation")

// Translation is one translated phrase.
type Translation struct {
	Phrase      string `json:"phrase"`
	Translation string `json:"translation"`
	From        string `json:"from"`
	To          string `json:"to"`
}

// Client issues phrase translation requests.
type Client struct {
	baseURL string
	limiter *rate.Limiter
}

// New creates a client against baseURL, issuing at most rps requests per
// second upstream.
func New(baseURL string, rps float64) *Client {
	return &Client{
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Translate renders phrase in the target language.
//
// An empty from derives the source language from the phrase's script via
// DetectSource. The upstream endpoint takes both languages as a single
// langpair parameter.
func (c *Client) Translate(ctx context.Context, phrase, from, to string) (*Translation, error) {
	if len(phrase) > maxPhraseBytes {
		return nil, ErrPhraseTooLong
	}

	if from == "" {
		from = DetectSource(phrase)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("translator rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", phrase)
	params.Set("langpair", from+"|"+to)

	body, err := requests.GetJSON(ctx, requests.RequestOptions{
		URL:         c.baseURL + "/get?" + params.Encode(),
		Destination: audit.ToTranslator,
	})
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	translated := gjson.GetBytes(body, "responseData.translatedText").String()
	if translated == "" {
		return nil, errEmptyTranslation
	}

	return &Translation{
		Phrase:      phrase,
		Translation: translated,
		From:        from,
		To:          to,
	}, nil
}
