// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package routes contains the HTTP handlers.

Handlers return an error instead of writing error responses themselves;
middleware.CatchError turns returned errors into JSON error bodies and
logs the request. Handlers that detect a client mistake write the 4xx
response directly via WriteError and return nil.
*/
package routes

import (
	"codeberg.org/phrasepost/phrasepost/core/account"
	"codeberg.org/phrasepost/phrasepost/core/fragments"
	"codeberg.org/phrasepost/phrasepost/core/search"
	"codeberg.org/phrasepost/phrasepost/core/storage"
	"codeberg.org/phrasepost/phrasepost/core/translations"
	"codeberg.org/phrasepost/phrasepost/core/translator"
	"codeberg.org/phrasepost/phrasepost/i18n"
)

// Handler bundles the route handlers' collaborators.
type Handler struct {
	loader       *fragments.Loader
	dispatcher   *i18n.Dispatcher
	translations *translations.Cache
	search       *search.Orchestrator
	translator   *translator.Client
	account      *account.Client
	store        *storage.Store
}

// NewHandler creates a Handler over the given collaborators.
func NewHandler(
	loader *fragments.Loader,
	dispatcher *i18n.Dispatcher,
	cache *translations.Cache,
	orchestrator *search.Orchestrator,
	phrases *translator.Client,
	acct *account.Client,
	store *storage.Store,
) *Handler {
	return &Handler{
		loader:       loader,
		dispatcher:   dispatcher,
		translations: cache,
		search:       orchestrator,
		translator:   phrases,
		account:      acct,
		store:        store,
	}
}
