// Package config loads the YAML configuration of the qlang command.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the variable that points at a configuration file.
const EnvVar = "QLANG_CONFIG"

type Config struct {
	Prompt       string  `yaml:"prompt"`
	HistoryFile  string  `yaml:"history_file"`
	LogLevel     string  `yaml:"log_level"`
	Journal      Journal `yaml:"journal"`
	MaxCallDepth int     `yaml:"max_call_depth"`
}

type Journal struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Prompt:       "(qlang) >",
		HistoryFile:  "~/.qlang_history",
		LogLevel:     "info",
		Journal:      Journal{Enabled: true, Path: "~/.qlang/journal.db"},
		MaxCallDepth: 10000,
	}
}

// Resolve picks the configuration file: the explicit path, then
// $QLANG_CONFIG, then ~/.qlang.yaml when it exists. It returns "" when
// the defaults apply.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".qlang.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Load reads the file at path over the defaults. An empty path yields the
// defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %s: %w", path, err)
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", displayPath(path), err)
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxCallDepth <= 0 {
		return fmt.Errorf("max_call_depth must be positive, got %d", c.MaxCallDepth)
	}

	var err error
	if c.HistoryFile, err = ExpandHome(c.HistoryFile); err != nil {
		return err
	}
	if c.Journal.Path, err = ExpandHome(c.Journal.Path); err != nil {
		return err
	}
	return nil
}

// Level is the slog level of LogLevel.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func displayPath(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}
