// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/phrasepost/phrasepost/server/middleware"
	"codeberg.org/phrasepost/phrasepost/server/routes"
)

// DefineRoutes sets up all the routes for the application.
func (router *Router) DefineRoutes(h *routes.Handler) {
	// Assembled page
	router.HandleFunc("GET /{$}", middleware.CatchError(h.Page))

	// Search and geocoding
	router.HandleFunc("GET /api/search", middleware.CatchError(h.Search))
	router.HandleFunc("GET /api/search/suggest", middleware.CatchError(h.Suggest))
	router.HandleFunc("GET /api/search/reverse", middleware.CatchError(h.Reverse))

	// Phrase translation
	router.HandleFunc("GET /api/translate", middleware.CatchError(h.Translate))

	// Search history
	router.HandleFunc("GET /api/history", middleware.CatchError(h.History))
	router.HandleFunc("DELETE /api/history", middleware.CatchError(h.ClearHistory))

	// Saved places
	router.HandleFunc("GET /api/places", middleware.CatchError(h.SavedPlaces))
	router.HandleFunc("POST /api/places", middleware.CatchError(h.SavePlace))
	router.HandleFunc("DELETE /api/places/{id}", middleware.CatchError(h.RemovePlace))

	// Translations and language
	router.HandleFunc("GET /api/translations/{lang}", middleware.CatchError(h.Translations))
	router.HandleFunc("GET /api/languages", middleware.CatchError(h.Languages))
	router.HandleFunc("POST /api/language", middleware.CatchError(h.SetLanguage))

	// Display settings
	router.HandleFunc("GET /api/settings", middleware.CatchError(h.Settings))
	router.HandleFunc("POST /api/settings", middleware.CatchError(h.UpdateSettings))

	// Account
	router.HandleFunc("POST /auth/request-link", middleware.CatchError(h.RequestLink))
	router.HandleFunc("POST /auth/exchange", middleware.CatchError(h.Exchange))
	router.HandleFunc("GET /me", middleware.CatchError(h.Me))
	router.HandleFunc("POST /logout", middleware.CatchError(h.Logout))
}
