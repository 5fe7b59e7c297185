// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

// BuildVersion is the release version, overridden at build time via
// -ldflags "-X codeberg.org/phrasepost/phrasepost/config.BuildVersion=...".
var BuildVersion = "dev"
