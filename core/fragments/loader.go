// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package fragments resolves externally-hosted HTML fragments into the
placeholder nodes of a parsed document.

A placeholder is an element carrying a data-include attribute with a
fragment URL relative to the origin. Resolution replaces the node's content
with the fetched markup, marks the node with data-included="1", and recurses
into placeholders nested inside the injected markup. Failures are isolated
per node: a failing fragment renders an inline error marker and never
prevents sibling fragments from resolving.

Fragment bodies are fetched concurrently within a pass; mutations of the
shared document tree happen sequentially after each fetch batch settles,
since goquery documents are not safe for concurrent writes.
*/
package fragments

import (
	"context"
	"html"
	"net/url"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/phrasepost/phrasepost/core/audit"
	"codeberg.org/phrasepost/phrasepost/core/events"
	"codeberg.org/phrasepost/phrasepost/core/requests"
)

const (
	// placeholderSelector matches unresolved and resolved placeholders alike;
	// the includedFlag attribute guards against re-resolution.
	placeholderSelector = "[data-include]"

	sourceAttr   = "data-include"
	includedFlag = "data-included"
)

// Loader fetches fragments from the origin and resolves them into documents.
type Loader struct {
	base *url.URL
	bus  *events.Bus

	// readyOnce guards the fragments.ready signal: once per page lifetime,
	// even when LoadAll is invoked again.
	readyOnce sync.Once
}

// NewLoader creates a loader resolving fragment URLs against originBaseURL.
func NewLoader(originBaseURL string, bus *events.Bus) (*Loader, error) {
	base, err := url.Parse(originBaseURL)
	if err != nil {
		return nil, err
	}

	return &Loader{base: base, bus: bus}, nil
}

// LoadAll resolves every placeholder present in doc, runs a second pass to
// catch placeholders that appeared as a side effect of the first, and then
// publishes the fragments.ready signal exactly once for the loader's
// lifetime — even when some fragments failed.
func (l *Loader) LoadAll(ctx context.Context, doc *goquery.Document) {
	l.resolveAll(ctx, doc.Selection)
	l.resolveAll(ctx, doc.Selection)

	l.readyOnce.Do(func() {
		l.bus.PublishOnce(events.FragmentsReady, nil)
	})
}

// resolveAll resolves the unresolved placeholders under root: one concurrent
// fetch batch, then sequential injection, then depth-first recursion into
// placeholders nested in the newly inserted markup.
func (l *Loader) resolveAll(ctx context.Context, root *goquery.Selection) {
	type pending struct {
		node   *goquery.Selection
		source string
		markup string
		err    error
	}

	var batch []*pending

	root.Find(placeholderSelector).Each(func(_ int, node *goquery.Selection) {
		source := node.AttrOr(sourceAttr, "")
		if source == "" || node.AttrOr(includedFlag, "") == "1" {
			return
		}

		batch = append(batch, &pending{node: node, source: source})
	})

	if len(batch) == 0 {
		return
	}

	// Fetch all fragment bodies for this level concurrently. Failures stay
	// on their entry; the group never sees an error, so one bad fragment
	// cannot cancel its siblings.
	group, groupCtx := errgroup.WithContext(ctx)

	for _, item := range batch {
		group.Go(func() error {
			item.markup, item.err = l.fetch(groupCtx, item.source)

			return nil
		})
	}

	_ = group.Wait()

	// Inject sequentially; the document tree is not safe for concurrent
	// mutation.
	for _, item := range batch {
		if item.err != nil {
			log.Warn().Err(item.err).Str("fragment", item.source).Msg("Fragment failed to load")
			item.node.SetHtml(errorMarker(item.source))

			continue
		}

		item.node.SetHtml(item.markup)
		item.node.SetAttr(includedFlag, "1")

		// Depth-first: placeholders nested inside the injected markup
		// resolve before this pass moves on. Unbounded depth; the
		// includedFlag keeps self-referencing fragments from looping.
		l.resolveAll(ctx, item.node)
	}
}

// fetch retrieves one fragment body from the origin.
func (l *Loader) fetch(ctx context.Context, source string) (string, error) {
	ref, err := url.Parse(source)
	if err != nil {
		return "", err
	}

	body, err := requests.Get(ctx, requests.RequestOptions{
		URL:         l.base.ResolveReference(ref).String(),
		Destination: audit.ToOrigin,
	})
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// errorMarker renders the visible inline marker for a failed fragment,
// naming the source that failed. Failed nodes are not marked as included,
// so a later LoadAll may retry them; no automatic retry happens.
func errorMarker(source string) string {
	return `<div class="component-error"><p data-i18n="component_load_failed">` +
		`Failed to load component</p><small>` + html.EscapeString(source) + `</small></div>`
}
