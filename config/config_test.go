// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	var cfg ServerConfig

	cfg.applyDefaults()

	assert.Equal(t, "8282", cfg.Basic.Port)
	assert.Equal(t, "ru", cfg.Translations.DefaultLanguage)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocoder.BaseURL)
	assert.InEpsilon(t, 1.0, cfg.Geocoder.RequestsPerSecond, 1e-9)
	assert.Equal(t, "https://api.mymemory.translated.net", cfg.Translator.BaseURL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 10, cfg.History.MaxItems)
}

func TestLoadYAML_MergesOverDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
basic:
  port: "9090"
origin:
  baseUrl: https://phrasebook.example.com
history:
  maxItems: 25
`), 0o600))

	var cfg ServerConfig

	cfg.applyDefaults()
	require.NoError(t, cfg.loadYAML(path))

	assert.Equal(t, "9090", cfg.Basic.Port)
	assert.Equal(t, "https://phrasebook.example.com", cfg.Origin.BaseURL)
	assert.Equal(t, 25, cfg.History.MaxItems)

	// Values absent from the file keep their defaults.
	assert.Equal(t, "ru", cfg.Translations.DefaultLanguage)
}

func TestLoadYAML_MissingFileIsNotAnError(t *testing.T) {
	t.Parallel()

	var cfg ServerConfig

	cfg.applyDefaults()
	assert.NoError(t, cfg.loadYAML(filepath.Join(t.TempDir(), "absent.yml")))
}

func TestLoadYAML_MalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("basic: [not a mapping"), 0o600))

	var cfg ServerConfig

	assert.Error(t, cfg.loadYAML(path))
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PHRASEPOST_ORIGIN", "https://env.example.com")
	t.Setenv("PHRASEPOST_HISTORY_MAX_ITEMS", "3")

	var cfg ServerConfig

	cfg.applyDefaults()
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, "https://env.example.com", cfg.Origin.BaseURL)
	assert.Equal(t, 3, cfg.History.MaxItems)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() ServerConfig {
		var cfg ServerConfig

		cfg.applyDefaults()
		cfg.Origin.BaseURL = "https://phrasebook.example.com"

		return cfg
	}

	t.Run("valid configuration", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		assert.NoError(t, cfg.validate())
	})

	t.Run("missing origin", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Origin.BaseURL = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("relative origin URL", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Origin.BaseURL = "/not/absolute"
		assert.Error(t, cfg.validate())
	})

	t.Run("invalid geocoder URL", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Geocoder.BaseURL = "::bad::"
		assert.Error(t, cfg.validate())
	})

	t.Run("invalid translator URL", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Translator.BaseURL = "not-a-url"
		assert.Error(t, cfg.validate())
	})

	t.Run("identity is optional", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Identity.BaseURL = ""
		assert.NoError(t, cfg.validate())
	})

	t.Run("invalid identity URL", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Identity.BaseURL = "not-a-url"
		assert.Error(t, cfg.validate())
	})

	t.Run("cache size must be positive when enabled", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Cache.Size = 0
		assert.Error(t, cfg.validate())
	})

	t.Run("disabled cache skips size check", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Cache.Enabled = false
		cfg.Cache.Size = 0
		assert.NoError(t, cfg.validate())
	})

	t.Run("history bound must be positive", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.History.MaxItems = 0
		assert.Error(t, cfg.validate())
	})
}
