// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const defaultConfigPath = "./config.yml"

// Built-in defaults. Every value here can be overridden by the YAML file or
// by environment variables.
const (
	defaultHost = "0.0.0.0"
	defaultPort = "8282"

	defaultTranslationsResource = "js/data/translations/all-translations.json"
	defaultLanguage             = "ru"

	defaultGeocoderBaseURL = "https://nominatim.openstreetmap.org"
	defaultGeocoderLimit   = 10
	defaultGeocoderRPS     = 1.0

	defaultTranslatorBaseURL = "https://api.mymemory.translated.net"
	defaultTranslatorRPS     = 1.0

	defaultCacheSize = 512
	defaultCacheTTL  = 30 * time.Minute

	defaultStateDirectory = "./state"

	defaultHistoryMaxItems = 10

	defaultLogLevel = "info"

	defaultUnixSocketPermissions = 0o666
)

// applyDefaults fills in the built-in defaults before the file and
// environment layers are merged on top.
func (cfg *ServerConfig) applyDefaults() {
	cfg.Basic.Host = defaultHost
	cfg.Basic.Port = defaultPort
	cfg.Basic.UnixSocketPermissions = defaultUnixSocketPermissions

	cfg.Translations.Resource = defaultTranslationsResource
	cfg.Translations.DefaultLanguage = defaultLanguage

	cfg.Geocoder.BaseURL = defaultGeocoderBaseURL
	cfg.Geocoder.Limit = defaultGeocoderLimit
	cfg.Geocoder.RequestsPerSecond = defaultGeocoderRPS

	cfg.Translator.BaseURL = defaultTranslatorBaseURL
	cfg.Translator.RequestsPerSecond = defaultTranslatorRPS

	cfg.Cache.Enabled = true
	cfg.Cache.Size = defaultCacheSize
	cfg.Cache.TTL = defaultCacheTTL

	cfg.Storage.StateDirectory = defaultStateDirectory

	cfg.History.MaxItems = defaultHistoryMaxItems

	cfg.Log.Level = defaultLogLevel
}
