// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/phrasepost/phrasepost/server/middleware"
	"codeberg.org/phrasepost/phrasepost/server/middleware/set_request_context"
)

// RegisterMiddleware attaches the middleware chain to the router. Order
// matters: timing wraps everything, and the request context must exist
// before any handler runs.
func (router *Router) RegisterMiddleware() {
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)
	router.Use(set_request_context.WithRequestContext)
	router.Use(middleware.SetResponseHeaders)
}
