// Package config loads planner settings from ~/.planner/config.yaml and the
// environment. Precedence: flags (applied by the caller) > env > file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/planner/internal/logging"
	"github.com/Makepad-fr/planner/internal/remote"
)

const (
	configDirName  = ".planner"
	configFileName = "config.yaml"
)

// Error policies for the interactive view.
const (
	OnErrorSurface = "surface" // show the error and wait for the user
	OnErrorReload  = "reload"  // reset automatically after ReloadDelay
)

// Config is the on-disk shape of config.yaml.
type Config struct {
	BaseURL        string         `yaml:"base_url"`
	Theme          string         `yaml:"theme"`
	RequestTimeout time.Duration  `yaml:"request_timeout"`
	OnError        string         `yaml:"on_error"`
	ReloadDelay    time.Duration  `yaml:"reload_delay"`
	Server         ServerConfig   `yaml:"server"`
	Log            logging.Config `yaml:"log"`

	// Source records where the file was read from; empty when defaults only.
	Source string `yaml:"-"`
}

// ServerConfig configures `planner serve`.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"base_path"`
	Store    string `yaml:"store"` // memory, json, sqlite, postgres
	DSN      string `yaml:"dsn"`   // file path or connection URL, per store
	Plain    bool   `yaml:"plain"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:        remote.DefaultBaseURL,
		Theme:          "classic",
		RequestTimeout: 10 * time.Second,
		OnError:        OnErrorSurface,
		ReloadDelay:    2 * time.Second,
		Server: ServerConfig{
			Addr:     ":8080",
			BasePath: "/summer2023planner-stage",
			Store:    "memory",
		},
		Log: logging.DefaultConfig(),
	}
}

// Dir is ~/.planner.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// Path resolves the config file: explicit argument, then PLANNER_CONFIG,
// then ~/.planner/config.yaml.
func Path(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := strings.TrimSpace(os.Getenv("PLANNER_CONFIG")); env != "" {
		return env, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file (a missing file is not an error) and applies
// environment overrides.
func Load(explicit string) (Config, error) {
	cfg := Default()

	p, err := Path(explicit)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
		cfg.Source = p
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("PLANNER_BASE_URL")); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("PLANNER_THEME")); v != "" {
		c.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("PLANNER_ON_ERROR")); v != "" {
		c.OnError = v
	}
	if v := strings.TrimSpace(os.Getenv("PLANNER_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PLANNER_TIMEOUT: %w", err)
		}
		c.RequestTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("PLANNER_DSN")); v != "" {
		c.Server.DSN = v
	}
	c.Log.ApplyEnv()
	return nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	switch c.OnError {
	case OnErrorSurface, OnErrorReload:
	default:
		return fmt.Errorf("on_error: want %q or %q, got %q", OnErrorSurface, OnErrorReload, c.OnError)
	}
	switch c.Server.Store {
	case "memory", "json", "sqlite", "postgres":
	default:
		return fmt.Errorf("server.store: unknown store %q", c.Server.Store)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout: negative duration %s", c.RequestTimeout)
	}
	return nil
}

// Save writes c to path with owner-only permissions.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Marshal renders c as YAML.
func Marshal(c Config) ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return b, nil
}
