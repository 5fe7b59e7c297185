// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Phrasepost is the state and rendering core of a travel phrasebook site:
it assembles the origin's pages from HTML fragments, localizes them, and
exposes the search, history, saved-places, and account APIs.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/phrasepost/phrasepost/config"
	"codeberg.org/phrasepost/phrasepost/core/account"
	"codeberg.org/phrasepost/phrasepost/core/audit"
	"codeberg.org/phrasepost/phrasepost/core/events"
	"codeberg.org/phrasepost/phrasepost/core/fragments"
	"codeberg.org/phrasepost/phrasepost/core/geocoder"
	"codeberg.org/phrasepost/phrasepost/core/history"
	"codeberg.org/phrasepost/phrasepost/core/places"
	"codeberg.org/phrasepost/phrasepost/core/requests"
	"codeberg.org/phrasepost/phrasepost/core/search"
	"codeberg.org/phrasepost/phrasepost/core/storage"
	"codeberg.org/phrasepost/phrasepost/core/translations"
	"codeberg.org/phrasepost/phrasepost/core/translator"
	"codeberg.org/phrasepost/phrasepost/i18n"
	"codeberg.org/phrasepost/phrasepost/server/router"
	"codeberg.org/phrasepost/phrasepost/server/routes"
)

const (
	// Values for http.Server timeouts.
	// ref: gosec: G112
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 15 * time.Second
	writeTimeout      time.Duration = 10 * time.Second
	idleTimeout       time.Duration = 30 * time.Second

	serverShutdownDeadline time.Duration = 5 * time.Second
)

var errChmodSocket = errors.New("failed to change unix socket permissions")

// main is the entry point of the application.
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

// run orchestrates the application startup and graceful shutdown.
func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize the upstream response cache
	requests.Setup()

	handler, err := buildHandler()
	if err != nil {
		return err
	}

	router := router.NewRouter()
	router.DefineRoutes(handler)
	router.RegisterMiddleware()

	// Create http.Server instance
	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	// Channel to listen for server errors
	serverErrors := make(chan error, 1)

	// Start main server in a goroutine
	go func() {
		listener, err := chooseListener()
		if err != nil {
			serverErrors <- fmt.Errorf("failed to create listener: %w", err)

			return
		}

		serverErrors <- server.Serve(listener)
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until a shutdown signal or a server error is received
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case s := <-quit:
		log.Info().Str("signal", s.String()).Msg("Shutdown signal received")
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), serverShutdownDeadline)

		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}

// buildHandler constructs the application object graph.
func buildHandler() (*routes.Handler, error) {
	cfg := config.Global

	store, err := storage.New(cfg.Storage.StateDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to open state directory: %w", err)
	}

	bus := events.NewBus()

	cache := translations.NewCache(fetchTranslations)

	dispatcher := i18n.NewDispatcher(cache, store, bus, cfg.Translations.DefaultLanguage)

	loader, err := fragments.NewLoader(cfg.Origin.BaseURL, bus)
	if err != nil {
		return nil, fmt.Errorf("failed to create fragment loader: %w", err)
	}

	orchestrator := search.New(
		geocoder.New(cfg.Geocoder.BaseURL, cfg.Geocoder.Limit, cfg.Geocoder.RequestsPerSecond),
		history.New(store, cfg.History.MaxItems),
		places.New(store),
	)

	phrases := translator.New(cfg.Translator.BaseURL, cfg.Translator.RequestsPerSecond)

	acct := account.New(cfg.Identity.BaseURL, store)

	return routes.NewHandler(loader, dispatcher, cache, orchestrator, phrases, acct, store), nil
}

// fetchTranslations retrieves the combined translations document from the
// origin.
func fetchTranslations(ctx context.Context) ([]byte, error) {
	cfg := config.Global

	url := strings.TrimSuffix(cfg.Origin.BaseURL, "/") + "/" + strings.TrimPrefix(cfg.Translations.Resource, "/")

	return requests.Get(ctx, requests.RequestOptions{
		URL:         url,
		Destination: audit.ToOrigin,
	})
}

func chooseListener() (net.Listener, error) {
	// Check if we should use a Unix domain socket
	if config.Global.Basic.UnixSocket != "" {
		unixAddr := config.Global.Basic.UnixSocket

		unixListener, err := (&net.ListenConfig{}).Listen(context.Background(), "unix", unixAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to start Unix socket listener on %v: %w", unixAddr, err)
		}

		if err := os.Chmod(unixAddr, config.Global.Basic.UnixSocketPermissions); err != nil {
			_ = unixListener.Close()

			return nil, fmt.Errorf("%w: %w", errChmodSocket, err)
		}

		// Assign the listener and log where we are listening
		log.Info().
			Str("address", unixAddr).
			Msg("Listening on Unix domain socket")

		return unixListener, nil
	}

	// Otherwise, fall back to TCP listener
	addr := net.JoinHostPort(config.Global.Basic.Host, config.Global.Basic.Port)

	tcpListener, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start TCP listener on %v: %w", addr, err)
	}

	addr = tcpListener.Addr().String()

	// Extract the port for logging
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		_ = tcpListener.Close()

		return nil, fmt.Errorf("failed to parse listener address %q: %w", addr, err)
	}

	// Log the address and convenient URL for local development
	log.Info().
		Str("address", addr).
		Str("port", port).
		Str("url", fmt.Sprintf("http://localhost:%v/", port)).
		Msg("Listening on address")

	return tcpListener, nil
}
