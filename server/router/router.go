// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"

	"codeberg.org/phrasepost/phrasepost/server/middleware"
)

// Router is the http.ServeMux the application serves through, with a
// middleware chain applied ahead of route dispatch. DefineRoutes and
// RegisterMiddleware populate it.
type Router struct {
	*http.ServeMux

	chain []middleware.Middleware
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		ServeMux: http.NewServeMux(),
	}
}

// Use appends mw to the chain. Middleware runs in registration order,
// each deciding whether to hand the request on.
func (router *Router) Use(mw middleware.Middleware) {
	router.chain = append(router.chain, mw)
}

// serve runs the chain from position i, falling through to the mux once
// the chain is exhausted.
func (router *Router) serve(i int, w http.ResponseWriter, r *http.Request) {
	if i >= len(router.chain) {
		router.ServeMux.ServeHTTP(w, r)

		return
	}

	router.chain[i](w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.serve(i+1, w, r)
	}))
}

// ServeHTTP enters the middleware chain.
func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.serve(0, w, r)
}
