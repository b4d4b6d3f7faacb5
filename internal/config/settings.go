// Package config holds the persisted user settings. The schema is fixed:
// every setting is an explicit field with a default, stored under a
// whitelisted key. Unknown keys in the store are ignored.
package config

import (
	"fmt"
	"strconv"
	"time"
)

// SettingsStore is the key/value persistence the settings ride on.
type SettingsStore interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}

// Whitelisted setting keys.
const (
	keyLanguage       = "language"
	keyTheme          = "theme"
	keyAutostart      = "autostart"
	keyMinimizeToTray = "minimize_to_tray"
	keyPollInterval   = "poll_interval"
)

// Settings is the full user-settings schema.
type Settings struct {
	Language       string        `json:"language"`
	Theme          string        `json:"theme"`
	Autostart      bool          `json:"autostart"`
	MinimizeToTray bool          `json:"minimizeToTray"`
	PollInterval   time.Duration `json:"pollInterval"`
}

// DefaultSettings returns the out-of-the-box configuration.
func DefaultSettings() Settings {
	return Settings{
		Language:       "en",
		Theme:          "dark",
		Autostart:      true,
		MinimizeToTray: true,
		PollInterval:   time.Second,
	}
}

// Load reads settings from the store, falling back to defaults for unset
// keys. A malformed stored value falls back to its default rather than
// failing the load.
func Load(store SettingsStore) (Settings, error) {
	settings := DefaultSettings()

	read := func(key string) (string, bool) {
		value, ok, err := store.GetSetting(key)
		if err != nil {
			return "", false
		}
		return value, ok
	}

	if v, ok := read(keyLanguage); ok {
		settings.Language = v
	}
	if v, ok := read(keyTheme); ok {
		settings.Theme = v
	}
	if v, ok := read(keyAutostart); ok {
		settings.Autostart = v == "true"
	}
	if v, ok := read(keyMinimizeToTray); ok {
		settings.MinimizeToTray = v == "true"
	}
	if v, ok := read(keyPollInterval); ok {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			settings.PollInterval = time.Duration(secs) * time.Second
		}
	}

	return settings, nil
}

// Save writes the whole schema back to the store.
func Save(store SettingsStore, settings Settings) error {
	if settings.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", settings.PollInterval)
	}

	values := map[string]string{
		keyLanguage:       settings.Language,
		keyTheme:          settings.Theme,
		keyAutostart:      strconv.FormatBool(settings.Autostart),
		keyMinimizeToTray: strconv.FormatBool(settings.MinimizeToTray),
		keyPollInterval:   strconv.Itoa(int(settings.PollInterval / time.Second)),
	}
	for key, value := range values {
		if err := store.SetSetting(key, value); err != nil {
			return err
		}
	}
	return nil
}
