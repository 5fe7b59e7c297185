// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package audit provides structured logging for outbound and inbound HTTP
traffic via [Span], plus the default logger setup used on startup.
*/
package audit

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger provides an ok log output format on startup if no config is set.
//
// Output is the human console format when stderr is a terminal, and plain
// JSON lines otherwise.
func SetDefaultLogger() {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

		return
	}

	log.Logger = log.Output(os.Stderr)
}
