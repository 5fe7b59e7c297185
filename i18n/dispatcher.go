// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n applies the active language's dictionary to tagged nodes of a
parsed document and owns the page-wide language state machine:

	Uninitialized → Loading(code) → Ready(code)

with Ready(code) → Loading(code') → Ready(code') on every user-driven
switch. There is no terminal state; the dispatcher lives for the process's
lifetime.
*/
package i18n

import (
	"context"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"codeberg.org/phrasepost/phrasepost/core/events"
	"codeberg.org/phrasepost/phrasepost/core/storage"
	"codeberg.org/phrasepost/phrasepost/core/translations"
)

// Node tagging contract: elements carrying keyAttr get their text content
// replaced (or their placeholder, for input elements); elements carrying
// placeholderAttr always get the placeholder attribute.
const (
	keyAttr         = "data-i18n"
	placeholderAttr = "data-i18n-placeholder"
)

// State is the dispatcher's position in the language state machine.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

// Dispatcher persists language choices, keeps the translation cache warm,
// and rewrites tagged document nodes. Safe for concurrent use.
type Dispatcher struct {
	cache       *translations.Cache
	store       *storage.Store
	bus         *events.Bus
	defaultLang string

	mu    sync.Mutex
	state State
	lang  string
}

// NewDispatcher creates a dispatcher over the given collaborators.
// defaultLang is the language used before any switch happened and no
// persisted choice exists.
func NewDispatcher(cache *translations.Cache, store *storage.Store, bus *events.Bus, defaultLang string) *Dispatcher {
	return &Dispatcher{
		cache:       cache,
		store:       store,
		bus:         bus,
		defaultLang: translations.Normalize(defaultLang),
	}
}

// SetLanguage makes code the active language: it persists the choice,
// ensures the dictionary is loaded, applies it to doc when one is given,
// and broadcasts one language.changed notification carrying the new code.
//
// Repeated calls with the same code and an unchanged document are
// idempotent in rendered output; the notification fires on every
// successful call.
func (d *Dispatcher) SetLanguage(ctx context.Context, code string, doc *goquery.Document) error {
	code = translations.Normalize(code)

	d.mu.Lock()
	previousState, previousLang := d.state, d.lang
	d.state, d.lang = Loading, code
	d.mu.Unlock()

	dict, err := d.cache.LoadLanguage(ctx, code)
	if err != nil {
		// The switch failed; restore the previous state so callers can
		// retry or degrade silently.
		d.mu.Lock()
		d.state, d.lang = previousState, previousLang
		d.mu.Unlock()

		return fmt.Errorf("failed to switch language to %q: %w", code, err)
	}

	if err := d.store.SetSetting(storage.SettingLanguage, code); err != nil {
		log.Warn().Err(err).Str("language", code).Msg("Failed to persist language setting")
	}

	if err := d.cache.SetActive(ctx, code); err != nil {
		return err
	}

	if doc != nil {
		Apply(doc, dict, code)
	}

	d.mu.Lock()
	d.state = Ready
	d.mu.Unlock()

	d.bus.Publish(events.LanguageChanged, code)

	return nil
}

// Localize applies the active language's dictionary to doc without changing
// the dispatcher's state or broadcasting anything. It is what page renders
// use; SetLanguage is for user-driven switches.
func (d *Dispatcher) Localize(ctx context.Context, doc *goquery.Document) error {
	code := translations.Normalize(d.Language())

	dict, err := d.cache.LoadLanguage(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to load dictionary for %q: %w", code, err)
	}

	Apply(doc, dict, code)

	return nil
}

// Language returns the active language code, falling back to the persisted
// setting before the first switch.
func (d *Dispatcher) Language() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lang != "" {
		return d.lang
	}

	return d.store.Setting(storage.SettingLanguage, d.defaultLang)
}

// State returns the dispatcher's current state machine position.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}

// Apply rewrites every tagged node in doc from dict and stamps the document
// element's lang attribute.
//
// Nodes whose key has no entry keep their existing displayed text; there is
// no destructive overwrite for missing keys.
func Apply(doc *goquery.Document, dict translations.Dictionary, lang string) {
	doc.Find("html").SetAttr("lang", lang)

	doc.Find("[" + keyAttr + "]").Each(func(_ int, node *goquery.Selection) {
		key := node.AttrOr(keyAttr, "")

		value, ok := dict[key]
		if !ok {
			return
		}

		if isInputNode(node) {
			node.SetAttr("placeholder", value)

			return
		}

		node.SetText(value)
	})

	doc.Find("[" + placeholderAttr + "]").Each(func(_ int, node *goquery.Selection) {
		key := node.AttrOr(placeholderAttr, "")

		if value, ok := dict[key]; ok {
			node.SetAttr("placeholder", value)
		}
	})
}

// isInputNode reports whether the node takes translated text through its
// placeholder attribute rather than its text content.
func isInputNode(node *goquery.Selection) bool {
	return node.Is("input") || node.Is("textarea")
}
