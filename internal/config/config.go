package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"focusloop/internal/logging"
	"focusloop/internal/storage"
)

const (
	// AppDirName is the per-user directory holding config and data.
	AppDirName     = "focusloop"
	configFileName = "config.yaml"
	envPrefix      = "FOCUSLOOP_"
)

// UIMode selects the frontend.
type UIMode string

const (
	UIDesktop  UIMode = "desktop"
	UITerminal UIMode = "terminal"
)

// Config is the startup configuration. Values are layered as defaults, then
// config.yaml, then FOCUSLOOP_* environment variables, then flags.
type Config struct {
	UI            UIMode `yaml:"ui"`
	Store         string `yaml:"store"`
	DataDir       string `yaml:"data_dir"`
	LogLevel      string `yaml:"log_level"`
	LaunchAtLogin bool   `yaml:"launch_at_login"`
}

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// Defaults returns the configuration used when nothing is set. interactive
// selects the terminal frontend.
func Defaults(dataDir string, interactive bool) Config {
	ui := UIDesktop
	if interactive {
		ui = UITerminal
	}
	return Config{
		UI:       ui,
		Store:    storage.BackendSQLite,
		DataDir:  dataDir,
		LogLevel: "info",
	}
}

// Interactive reports whether stdin is attached to a terminal.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// LoadDotEnv loads a .env file from the working directory when present.
func LoadDotEnv(logger zerolog.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment. A missing file is not an error. A malformed file is reported
// and the remaining layers still apply.
func Load(path string, defaults Config, lookup LookupFunc, logger zerolog.Logger) (Config, error) {
	cfg := defaults
	var loadErr error

	rawData, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileData Config
		if err := yaml.Unmarshal(rawData, &fileData); err != nil {
			loadErr = fmt.Errorf("parse config yaml: %w", err)
		} else {
			cfg = merge(cfg, fileData, rawData)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		loadErr = fmt.Errorf("read config file: %w", err)
	}

	if lookup != nil {
		cfg = applyEnv(cfg, lookup, logger)
	}
	return cfg.Normalize(defaults, logger), loadErr
}

// BindFlags registers command-line flags whose defaults are the already
// loaded values, so a flag overrides the file and the environment.
func BindFlags(flags *flag.FlagSet, cfg *Config) {
	flags.Func("ui", "frontend: desktop or terminal (overrides $FOCUSLOOP_UI)", func(value string) error {
		cfg.UI = UIMode(strings.ToLower(strings.TrimSpace(value)))
		return nil
	})
	flags.StringVar(&cfg.Store, "store", cfg.Store, "storage backend: sqlite, file or memory (overrides $FOCUSLOOP_STORE)")
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for settings and history (overrides $FOCUSLOOP_DATA_DIR)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (overrides $FOCUSLOOP_LOG_LEVEL)")
	flags.BoolVar(&cfg.LaunchAtLogin, "launch-at-login", cfg.LaunchAtLogin, "start FocusLoop when you log in (overrides $FOCUSLOOP_LAUNCH_AT_LOGIN)")
}

// Normalize replaces invalid values with the matching default.
func (cfg Config) Normalize(defaults Config, logger zerolog.Logger) Config {
	switch cfg.UI {
	case UIDesktop, UITerminal:
	default:
		logger.Warn().Str("ui", string(cfg.UI)).Msg("unknown ui mode, using default")
		cfg.UI = defaults.UI
	}

	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	switch cfg.Store {
	case storage.BackendSQLite, storage.BackendFile, storage.BackendMemory:
	default:
		logger.Warn().Str("store", cfg.Store).Msg("unknown store backend, using default")
		cfg.Store = defaults.Store
	}

	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = defaults.DataDir
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using default")
		cfg.LogLevel = defaults.LogLevel
	}
	return cfg
}

// Path returns the config file path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, configFileName)
}

// merge copies the fields present in the YAML document. launch_at_login is
// only applied when the key exists so an omitted key keeps the default.
func merge(cfg, fileData Config, rawData []byte) Config {
	if fileData.UI != "" {
		cfg.UI = UIMode(strings.ToLower(string(fileData.UI)))
	}
	if fileData.Store != "" {
		cfg.Store = fileData.Store
	}
	if fileData.DataDir != "" {
		cfg.DataDir = fileData.DataDir
	}
	if fileData.LogLevel != "" {
		cfg.LogLevel = fileData.LogLevel
	}

	var keys map[string]any
	if yaml.Unmarshal(rawData, &keys) == nil {
		if _, ok := keys["launch_at_login"]; ok {
			cfg.LaunchAtLogin = fileData.LaunchAtLogin
		}
	}
	return cfg
}

func applyEnv(cfg Config, lookup LookupFunc, logger zerolog.Logger) Config {
	if value, ok := lookupNonEmpty(lookup, "UI"); ok {
		cfg.UI = UIMode(strings.ToLower(value))
	}
	if value, ok := lookupNonEmpty(lookup, "STORE"); ok {
		cfg.Store = value
	}
	if value, ok := lookupNonEmpty(lookup, "DATA_DIR"); ok {
		cfg.DataDir = value
	}
	if value, ok := lookupNonEmpty(lookup, "LOG_LEVEL"); ok {
		cfg.LogLevel = value
	}
	if value, ok := lookupNonEmpty(lookup, "LAUNCH_AT_LOGIN"); ok {
		cfg.LaunchAtLogin = parseBool(value, cfg.LaunchAtLogin, logger)
	}
	return cfg
}

func lookupNonEmpty(lookup LookupFunc, name string) (string, bool) {
	value, ok := lookup(envPrefix + name)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func parseBool(value string, fallback bool, logger zerolog.Logger) bool {
	switch strings.ToLower(value) {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logger.Warn().Str("value", value).Msg("invalid boolean in environment, keeping current value")
		return fallback
	}
	return parsed
}
