package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr: %q", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("log level: %q", cfg.Logging.Level)
	}
	if !cfg.Seed {
		t.Fatal("seed should default to true")
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte(`
server:
  addr: ":9090"
  read_timeout: 5s
auth:
  tokens:
    - alpha
    - beta
rate_limit:
  rps: 10
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("AURA_SERVER_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Environment beats YAML.
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("addr: %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("read timeout: %v", cfg.Server.ReadTimeout)
	}
	if len(cfg.Auth.Tokens) != 2 || cfg.Auth.Tokens[0] != "alpha" {
		t.Fatalf("tokens: %v", cfg.Auth.Tokens)
	}
	if cfg.RateLimit.RPS != 10 {
		t.Fatalf("rps: %v", cfg.RateLimit.RPS)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.WriteTimeout != 60*time.Second {
		t.Fatalf("write timeout default lost: %v", cfg.Server.WriteTimeout)
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("Load with absent file: %v", err)
	}
}
