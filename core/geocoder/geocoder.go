// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package geocoder is the client for the public forward/reverse geocoding
service. Outbound calls are throttled to the configured rate; responses
flow through the shared request layer and its cache.
*/
package geocoder

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"codeberg.org/phrasepost/phrasepost/core/audit"
	"codeberg.org/phrasepost/phrasepost/core/requests"
)

// Address holds the subfields surfaced from a geocoder record.
type Address struct {
	Road    string `json:"road,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// Place is one geocoding result.
type Place struct {
	Name       string   `json:"name"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Address    Address  `json:"address"`
	Class      string   `json:"class,omitempty"`
	Type       string   `json:"type,omitempty"`
	Category   Category `json:"category"`
	Importance float64  `json:"importance,omitempty"`
}

// Client issues forward and reverse geocoding requests.
type Client struct {
	baseURL string
	limit   int
	limiter *rate.Limiter
}

// New creates a client against baseURL, requesting at most limit forward
// results per query and at most rps requests per second upstream.
func New(baseURL string, limit int, rps float64) *Client {
	return &Client{
		baseURL: baseURL,
		limit:   limit,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Forward resolves a free-text query to a list of places.
//
// lang selects the preferred language for display names. The result list
// may be empty; that is not an error.
func (c *Client) Forward(ctx context.Context, query, lang string) ([]Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocoder rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("addressdetails", "1")

	if lang != "" {
		params.Set("accept-language", lang)
	}

	body, err := requests.GetJSON(ctx, requests.RequestOptions{
		URL:         c.baseURL + "/search?" + params.Encode(),
		Destination: audit.ToGeocoder,
	})
	if err != nil {
		return nil, fmt.Errorf("forward geocoding failed: %w", err)
	}

	results := gjson.ParseBytes(body).Array()

	resolved := make([]Place, 0, len(results))
	for _, record := range results {
		resolved = append(resolved, parseRecord(record))
	}

	return resolved, nil
}

// Reverse resolves a coordinate pair to a single place.
func (c *Client) Reverse(ctx context.Context, lat, lon float64, lang string) (*Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocoder rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("zoom", "18")
	params.Set("addressdetails", "1")

	if lang != "" {
		params.Set("accept-language", lang)
	}

	body, err := requests.GetJSON(ctx, requests.RequestOptions{
		URL:         c.baseURL + "/reverse?" + params.Encode(),
		Destination: audit.ToGeocoder,
	})
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding failed: %w", err)
	}

	place := parseRecord(gjson.ParseBytes(body))

	return &place, nil
}

// parseRecord maps one geocoder JSON record to a Place.
//
// Latitude and longitude arrive as strings and are parsed to numbers; a
// record's city falls back to its town.
func parseRecord(record gjson.Result) Place {
	lat, _ := strconv.ParseFloat(record.Get("lat").String(), 64)
	lon, _ := strconv.ParseFloat(record.Get("lon").String(), 64)

	city := record.Get("address.city").String()
	if city == "" {
		city = record.Get("address.town").String()
	}

	class := record.Get("class").String()
	placeType := record.Get("type").String()

	return Place{
		Name: record.Get("display_name").String(),
		Lat:  lat,
		Lon:  lon,
		Address: Address{
			Road:    record.Get("address.road").String(),
			City:    city,
			Country: record.Get("address.country").String(),
		},
		Class:      class,
		Type:       placeType,
		Category:   CategoryFor(class, placeType),
		Importance: record.Get("importance").Float(),
	}
}
