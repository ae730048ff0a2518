package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Dimension != 1 || cfg.Timeout != 10*time.Second {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aochat.yaml")
	yaml := "username: alice\ndimension: 2\ntimeout: 5s\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Username != "alice" || cfg.Dimension != 2 || cfg.Timeout != 5*time.Second {
		t.Fatalf("cfg = %+v, unexpected", cfg)
	}
	// Fields absent from the file keep their default.
	if cfg.PingPeriod != 60*time.Second {
		t.Fatalf("PingPeriod = %v, want default 60s", cfg.PingPeriod)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AOCHAT_USERNAME", "bob")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Username != "bob" {
		t.Fatalf("Username = %q, want bob", cfg.Username)
	}
}
