// Package config holds the fcn settings, read from a TOML file and FCN_*
// environment variables.
package config

import (
	"crypto/subtle"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Book    BookConfig    `toml:"book"`
	Fetch   FetchConfig   `toml:"fetch"`
	Logging LoggingConfig `toml:"logging"`
	Share   ShareConfig   `toml:"share"`
	Auth    AuthConfig    `toml:"auth"`
}

// BookConfig locates the book file.
type BookConfig struct {
	Path string `toml:"path"`
}

// FetchConfig tunes remote spreadsheet retrieval.
type FetchConfig struct {
	Timeout       Duration `toml:"timeout"` // per attempt
	RatePerSecond float64  `toml:"rate_per_second"`
	Burst         int      `toml:"burst"`
	UserAgent     string   `toml:"user_agent"`
	// Proxies replaces the default relay chain when set; each entry is a
	// strategy name ("corsproxy", "allorigins", "codetabs", "direct").
	Proxies []string `toml:"proxies"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level     string `toml:"level"`
	Format    string `toml:"format"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
}

// ShareConfig is used to build share links.
type ShareConfig struct {
	BaseURL string `toml:"base_url"`
}

// AuthConfig holds the shared secret required to open share links, if any.
type AuthConfig struct {
	Secret string `toml:"secret"`
}

// Check reports whether secret grants access. Anything does when no secret
// is configured.
func (a AuthConfig) Check(secret string) bool {
	if a.Secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(a.Secret), []byte(secret)) == 1
}

// Duration is a time.Duration written as "15s" in TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	book := "fcn.json"
	if dir, err := os.UserConfigDir(); err == nil {
		book = filepath.Join(dir, "fcn", "book.json")
	}
	return &Config{
		Book: BookConfig{Path: book},
		Fetch: FetchConfig{
			Timeout:       Duration(15 * time.Second),
			RatePerSecond: 2,
			Burst:         1,
			UserAgent:     "fcn/1.0",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Share: ShareConfig{BaseURL: "https://fcn.example.com/"},
	}
}

// Load loads configuration with priority: defaults -> file -> env. A missing
// file at path is not an error when path is empty.
func Load(path string) (*Config, error) {
	config := NewDefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides applies FCN_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("FCN_BOOK"); v != "" {
		config.Book.Path = v
	}
	if v := os.Getenv("FCN_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Fetch.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("FCN_FETCH_RATE"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			config.Fetch.RatePerSecond = r
		}
	}
	if v := os.Getenv("FCN_FETCH_PROXIES"); v != "" {
		config.Fetch.Proxies = strings.Split(v, ",")
	}
	if v := os.Getenv("FCN_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("FCN_LOG_FORMAT"); v != "" {
		config.Logging.Format = v
	}
	if v := os.Getenv("FCN_LOG_FILE"); v != "" {
		config.Logging.File = v
	}
	if v := os.Getenv("FCN_SHARE_BASE_URL"); v != "" {
		config.Share.BaseURL = v
	}
	if v := os.Getenv("FCN_SECRET"); v != "" {
		config.Auth.Secret = v
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, book string, verbose bool) {
	if book != "" {
		config.Book.Path = book
	}
	if verbose {
		config.Logging.Level = "debug"
	}
}
