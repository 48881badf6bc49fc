// Package config resolves the runtime settings of the hearth CLI.
//
// Sources are applied in order, later ones winning: built-in defaults,
// hearth.yaml, .env and process environment. Flags are applied by the
// caller on top of the result.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the optional config file looked up in the working directory.
const FileName = "hearth.yaml"

// Environment variables.
const (
	EnvDataDir    = "HEARTH_DATA_DIR"
	EnvAdapter    = "HEARTH_ADAPTER"
	EnvDBPath     = "HEARTH_DB_PATH"
	EnvVersioning = "HEARTH_VERSIONING"
	EnvReadOnly   = "HEARTH_READ_ONLY"
	EnvLogLevel   = "HEARTH_LOG_LEVEL"
	EnvLogFormat  = "HEARTH_LOG_FORMAT"
)

// Config holds the resolved settings.
type Config struct {
	DataDir string `yaml:"data_dir"`
	Adapter string `yaml:"adapter"`
	DBPath  string `yaml:"db_path"`
	// Versioning is nil when unset so the store can auto-detect it.
	Versioning *bool  `yaml:"versioning"`
	ReadOnly   bool   `yaml:"read_only"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataDir:   ".",
		Adapter:   "fs",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load resolves the configuration for dir. A missing hearth.yaml or .env
// is not an error; a malformed one is.
func Load(dir string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(filepath.Join(dir, FileName)); err != nil {
		return nil, err
	}

	// Variables already set in the environment take precedence over .env.
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.DataDir = getEnv(EnvDataDir, c.DataDir)
	c.Adapter = getEnv(EnvAdapter, c.Adapter)
	c.DBPath = getEnv(EnvDBPath, c.DBPath)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	c.LogFormat = getEnv(EnvLogFormat, c.LogFormat)

	if v := os.Getenv(EnvVersioning); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", EnvVersioning, err)
		}
		c.Versioning = &b
	}
	if v := os.Getenv(EnvReadOnly); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", EnvReadOnly, err)
		}
		c.ReadOnly = b
	}
	return nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Adapter {
	case "fs", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown adapter %q", c.Adapter)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Logger builds the slog logger described by the config.
func (c *Config) Logger(w *os.File) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
