// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package storage

// Setting names stored in the settings collection.
const (
	SettingTheme    = "theme"
	SettingFontSize = "font-size"
	SettingContrast = "contrast"
	SettingLanguage = "language"
)

// Settings is the single JSON blob of user preferences. Absence of a key
// means "use default"; there is no schema versioning.
type Settings map[string]string

// Settings returns the persisted settings blob, or an empty one.
func (s *Store) Settings() Settings {
	settings := Settings{}
	s.Get(CollectionSettings, &settings)

	return settings
}

// Setting returns the value for name, or fallback when the key is absent.
func (s *Store) Setting(name, fallback string) string {
	if value, ok := s.Settings()[name]; ok {
		return value
	}

	return fallback
}

// SetSetting updates one setting, rewriting the whole settings document.
func (s *Store) SetSetting(name, value string) error {
	settings := s.Settings()
	settings[name] = value

	return s.Set(CollectionSettings, settings)
}
