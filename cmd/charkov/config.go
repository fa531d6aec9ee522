package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/CTAG07/charkov/pkg/markov"
	"github.com/natefinch/atomic"
)

// Config holds the settings shared by every subcommand. Command-line flags
// override the values loaded from the config file and the environment.
type Config struct {
	LogLevel     string `json:"log_level"`
	DatabasePath string `json:"database_path"`
	FixedSeed    uint64 `json:"fixed_seed"`
	Normalize    string `json:"normalize"`
	Color        string `json:"color"`
	WrapWidth    int    `json:"wrap_width"`
	Suggestions  int    `json:"suggestions"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "warn",
		DatabasePath: "./charkov_corpus.db",
		FixedSeed:    markov.DefaultSeed,
		Normalize:    "none",
		Color:        "auto",
		WrapWidth:    0,
		Suggestions:  5,
	}
}

// ErrConfigNotSaved is returned by LoadConfig together with a usable default
// configuration when the missing config file could not be created.
var ErrConfigNotSaved = errors.New("default config file not written")

// LoadConfig reads the configuration from a JSON file at the given path.
// An empty path yields the defaults. If the file doesn't exist, it is
// created with default values; if that fails the defaults are returned along
// with an error wrapping ErrConfigNotSaved.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				return config, fmt.Errorf("%w: %w", ErrConfigNotSaved, err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// ApplyEnv overrides config values with CHARKOV_* variables, read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("CHARKOV_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("CHARKOV_DATABASE"); v != "" {
		c.DatabasePath = v
	}
	if v := getenv("CHARKOV_NORMALIZE"); v != "" {
		c.Normalize = v
	}
	if v := getenv("CHARKOV_COLOR"); v != "" {
		c.Color = v
	}
	if v := getenv("CHARKOV_FIXED_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CHARKOV_FIXED_SEED %q: %w", v, err)
		}
		c.FixedSeed = seed
	}
	return nil
}

// Validate checks values that cannot be fixed up silently.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode %q, want auto, always or never", c.Color)
	}
	if c.WrapWidth < 0 {
		return fmt.Errorf("wrap width must not be negative, got %d", c.WrapWidth)
	}
	if c.Suggestions < 0 {
		return fmt.Errorf("suggestion count must not be negative, got %d", c.Suggestions)
	}
	return nil
}

// parseLogLevel maps a level name to a slog.Level, defaulting to info.
func parseLogLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
