// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package translator

import "unicode"

// DetectSource guesses a phrase's source language from its script. The
// first rune belonging to a recognized script decides; Latin-script text
// falls through to English.
func DetectSource(phrase string) string {
	for _, r := range phrase {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			return "ru"
		case unicode.Is(unicode.Han, r):
			return "zh"
		case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
			return "ja"
		case unicode.Is(unicode.Hangul, r):
			return "ko"
		}
	}

	return "en"
}
