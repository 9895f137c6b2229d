package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Book.Path == "" {
		t.Errorf("expected a default book path")
	}
	if time.Duration(cfg.Fetch.Timeout) != 15*time.Second {
		t.Errorf("expected default timeout 15s, got %v", time.Duration(cfg.Fetch.Timeout))
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected default log level warn, got %s", cfg.Logging.Level)
	}
}

func TestLoad_ValidTOML(t *testing.T) {
	t.Setenv("FCN_LOG_LEVEL", "")
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "fcn.toml")

	content := `
[book]
path = "/tmp/book.json"

[fetch]
timeout = "3s"
rate_per_second = 0.5
proxies = ["allorigins", "direct"]

[logging]
level = "debug"
format = "json"

[auth]
secret = "s3cret"
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tomlPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Book.Path != "/tmp/book.json" {
		t.Errorf("book path = %s", cfg.Book.Path)
	}
	if time.Duration(cfg.Fetch.Timeout) != 3*time.Second || cfg.Fetch.RatePerSecond != 0.5 {
		t.Errorf("fetch = %+v", cfg.Fetch)
	}
	if !slices.Equal(cfg.Fetch.Proxies, []string{"allorigins", "direct"}) {
		t.Errorf("proxies = %v", cfg.Fetch.Proxies)
	}
	if cfg.Fetch.Burst != 1 {
		t.Errorf("unset values must keep their default, burst = %d", cfg.Fetch.Burst)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if !cfg.Auth.Check("s3cret") || cfg.Auth.Check("guess") {
		t.Errorf("secret check failed")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FCN_BOOK", "/data/other.json")
	t.Setenv("FCN_FETCH_TIMEOUT", "1m")
	t.Setenv("FCN_FETCH_PROXIES", "direct")
	t.Setenv("FCN_LOG_LEVEL", "error")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Book.Path != "/data/other.json" || time.Duration(cfg.Fetch.Timeout) != time.Minute {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if !slices.Equal(cfg.Fetch.Proxies, []string{"direct"}) || cfg.Logging.Level != "error" {
		t.Errorf("env overrides not applied: %+v %+v", cfg.Fetch, cfg.Logging)
	}

	ApplyFlagOverrides(cfg, "/flag.json", true)
	if cfg.Book.Path != "/flag.json" || cfg.Logging.Level != "debug" {
		t.Errorf("flag overrides not applied: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("expected error for a missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(bad, []byte("[fetch]\ntimeout = \"soon\"\n"), 0644)
	if _, err := Load(bad); err == nil {
		t.Errorf("expected error for an invalid duration")
	}
}

func TestAuthNoSecret(t *testing.T) {
	if !(AuthConfig{}).Check("") {
		t.Errorf("no secret configured must grant access")
	}
}
