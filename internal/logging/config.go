package logging

import (
	"os"
	"strconv"
	"strings"
)

// Config controls the process-wide slog logger.
type Config struct {
	// Level: debug, info, warn, error
	Level string `yaml:"level"`

	// Format: console, json
	Format string `yaml:"format"`

	// Output: stderr, stdout, none, file:/path/to/log
	Output string `yaml:"output"`

	AddSource bool `yaml:"add_source"`
}

// DefaultConfig is what a fresh install logs with.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "console",
		Output: "stderr",
	}
}

// ApplyEnv overlays LOG_* environment variables onto c.
func (c *Config) ApplyEnv() {
	c.Level = getEnvWithDefault("LOG_LEVEL", c.Level)
	c.Format = getEnvWithDefault("LOG_FORMAT", c.Format)
	c.Output = getEnvWithDefault("LOG_OUTPUT", c.Output)
	c.AddSource = getEnvBool("LOG_ADD_SOURCE", c.AddSource)

	if strings.ToLower(os.Getenv("ENV")) == "development" {
		c.Level = "debug"
		c.AddSource = true
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
