package storage

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"focusloop/internal/core/model"
	"focusloop/internal/core/notify"
)

// LoadJSON decodes the document under key into target. It reports false when
// the key is missing, unreadable or malformed; target is then untouched.
func LoadJSON(store Store, key string, target any, logger zerolog.Logger) bool {
	raw, ok, err := store.Get(key)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("load failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("stored document malformed")
		return false
	}
	return true
}

// SaveJSON encodes value under key. Failures are logged and dropped.
func SaveJSON(store Store, key string, value any, logger zerolog.Logger) {
	if err := saveJSON(store, key, value); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("save failed")
	}
}

func saveJSON(store Store, key string, value any) error {
	serialized, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return store.Set(key, string(serialized))
}

// LoadTimerSettings returns the saved durations. Each field falls back to
// its default on its own when missing or not a number; numbers are rounded
// and clamped.
func LoadTimerSettings(store Store, logger zerolog.Logger) model.TimerSettings {
	settings := model.DefaultTimerSettings()
	var fields map[string]any
	if !LoadJSON(store, KeyTimerSettings, &fields, logger) || fields == nil {
		return settings
	}
	if value, ok := fields["workMinutes"].(float64); ok {
		settings.WorkMinutes = model.ClampMinutesFloat(value)
	}
	if value, ok := fields["shortBreakMinutes"].(float64); ok {
		settings.ShortBreakMinutes = model.ClampMinutesFloat(value)
	}
	if value, ok := fields["longBreakMinutes"].(float64); ok {
		settings.LongBreakMinutes = model.ClampMinutesFloat(value)
	}
	return settings
}

// SaveTimerSettings persists settings.
func SaveTimerSettings(store Store, settings model.TimerSettings, logger zerolog.Logger) {
	SaveJSON(store, KeyTimerSettings, settings, logger)
}

// LoadNotificationSettings returns the saved alert channels with per-field
// fallback to the defaults.
func LoadNotificationSettings(store Store, logger zerolog.Logger) notify.Settings {
	settings := notify.DefaultSettings()
	var fields map[string]any
	if !LoadJSON(store, KeyNotificationSettings, &fields, logger) || fields == nil {
		return settings
	}
	if value, ok := fields["audioEnabled"].(bool); ok {
		settings.AudioEnabled = value
	}
	if value, ok := fields["browserEnabled"].(bool); ok {
		settings.SystemEnabled = value
	}
	return settings
}

// SaveNotificationSettings persists settings.
func SaveNotificationSettings(store Store, settings notify.Settings, logger zerolog.Logger) {
	SaveJSON(store, KeyNotificationSettings, settings, logger)
}

// LoadPermission returns the recorded system alert decision.
func LoadPermission(store Store, logger zerolog.Logger) notify.Permission {
	var value string
	if !LoadJSON(store, KeySystemPermission, &value, logger) {
		return notify.PermissionDefault
	}
	return notify.ParsePermission(value)
}

// SavePermission records the system alert decision.
func SavePermission(store Store, permission notify.Permission, logger zerolog.Logger) {
	SaveJSON(store, KeySystemPermission, string(permission), logger)
}
