// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"codeberg.org/phrasepost/phrasepost/config"
	"codeberg.org/phrasepost/phrasepost/core/audit"
	"codeberg.org/phrasepost/phrasepost/core/requests"
)

// Page serves the assembled page: the origin's markup with every fragment
// placeholder resolved and the active language applied.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) error {
	body, err := requests.Get(r.Context(), requests.RequestOptions{
		URL:             config.Global.Origin.BaseURL + r.URL.Path,
		IncomingHeaders: r.Header,
		Destination:     audit.ToOrigin,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch page from origin: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("failed to parse page markup: %w", err)
	}

	h.loader.LoadAll(r.Context(), doc)

	if err := h.dispatcher.Localize(r.Context(), doc); err != nil {
		return err
	}

	markup, err := doc.Html()
	if err != nil {
		return fmt.Errorf("failed to serialize page markup: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(markup))

	return nil
}
