// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package config holds the global server configuration.

Configuration is assembled from three layers, later layers overriding
earlier ones: built-in defaults, an optional YAML file, and environment
variables carrying the PHRASEPOST_ prefix.
*/
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Basic struct {
		Host                  string      `env:"PHRASEPOST_HOST" yaml:"host"`
		Port                  string      `env:"PHRASEPOST_PORT" yaml:"port"`
		UnixSocket            string      `env:"PHRASEPOST_UNIXSOCKET" yaml:"unixSocket"`
		UnixSocketPermissions os.FileMode `env:"-" yaml:"-"`
	} `yaml:"basic"`

	// Origin is the upstream that serves the raw site content: page shells,
	// fragment partials, and the combined translations resource.
	Origin struct {
		BaseURL string `env:"PHRASEPOST_ORIGIN" yaml:"baseUrl"`
	} `yaml:"origin"`

	Translations struct {
		// Resource is the path of the combined translations document,
		// relative to the origin base URL.
		Resource        string `env:"PHRASEPOST_TRANSLATIONS_RESOURCE" yaml:"resource"`
		DefaultLanguage string `env:"PHRASEPOST_DEFAULT_LANGUAGE" yaml:"defaultLanguage"`
	} `yaml:"translations"`

	Geocoder struct {
		BaseURL string `env:"PHRASEPOST_GEOCODER" yaml:"baseUrl"`
		// Limit caps the number of forward search results requested upstream.
		Limit int `env:"PHRASEPOST_GEOCODER_LIMIT" yaml:"limit"`
		// RequestsPerSecond throttles outbound geocoding calls. Public
		// Nominatim instances require at most one request per second.
		RequestsPerSecond float64 `env:"PHRASEPOST_GEOCODER_RPS" yaml:"requestsPerSecond"`
	} `yaml:"geocoder"`

	Translator struct {
		BaseURL string `env:"PHRASEPOST_TRANSLATOR" yaml:"baseUrl"`
		// RequestsPerSecond throttles outbound translation calls. The
		// public endpoint enforces a daily quota on anonymous use.
		RequestsPerSecond float64 `env:"PHRASEPOST_TRANSLATOR_RPS" yaml:"requestsPerSecond"`
	} `yaml:"translator"`

	Identity struct {
		BaseURL string `env:"PHRASEPOST_IDENTITY" yaml:"baseUrl"`
	} `yaml:"identity"`

	Cache struct {
		Enabled bool          `env:"PHRASEPOST_CACHE" yaml:"enabled"`
		Size    int           `env:"PHRASEPOST_CACHE_SIZE" yaml:"cacheSize"`
		TTL     time.Duration `env:"PHRASEPOST_CACHE_TTL" yaml:"cacheTTL"`
	} `yaml:"cache"`

	Storage struct {
		// StateDirectory holds the persisted JSON collections: settings,
		// access token, search history, and saved places.
		StateDirectory string `env:"PHRASEPOST_STATE_DIRECTORY" yaml:"stateDirectory"`
	} `yaml:"storage"`

	History struct {
		MaxItems int `env:"PHRASEPOST_HISTORY_MAX_ITEMS" yaml:"maxItems"`
	} `yaml:"history"`

	Log struct {
		Level string `env:"PHRASEPOST_LOG_LEVEL" yaml:"logLevel"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from defaults, an optional YAML file,
// and environment variables, then validates the result.
func (cfg *ServerConfig) LoadConfig() error {
	configFilePath := parseCommandLineArgs()

	cfg.applyDefaults()

	if err := cfg.loadYAML(configFilePath); err != nil {
		return err
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return err
	}

	cfg.configureLogging()

	log.Info().
		Str("origin", cfg.Origin.BaseURL).
		Str("geocoder", cfg.Geocoder.BaseURL).
		Str("state_directory", cfg.Storage.StateDirectory).
		Msg("Loaded configuration")

	return nil
}

// loadYAML merges settings from the YAML file at path into cfg.
//
// A missing file is not an error; the file layer is optional.
func (cfg *ServerConfig) loadYAML(path string) error {
	data, err := os.ReadFile(path) // #nosec:G304
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("file", path).Msg("No configuration file found, using defaults")

			return nil
		}

		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse configuration file %s: %w", path, err)
	}

	log.Info().Str("file", path).Msg("Loaded configuration file")

	return nil
}

// configureLogging applies the configured log level to the global logger.
func (cfg *ServerConfig) configureLogging() {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown log level, keeping current level")

		return
	}

	zerolog.SetGlobalLevel(level)
}

// parseCommandLineArgs returns the value of the -config flag.
func parseCommandLineArgs() string {
	configFlag := flag.String("config", defaultConfigPath, "Path to the YAML configuration file")
	flag.Parse()

	return *configFlag
}
