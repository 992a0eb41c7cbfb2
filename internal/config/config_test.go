package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TRIPDECK_CONFIG", "")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Service.BaseURL != "http://localhost:8000" {
		t.Errorf("base_url = %q", c.Service.BaseURL)
	}
	if c.Service.TimeoutSeconds != 30 {
		t.Errorf("timeout = %d, want 30", c.Service.TimeoutSeconds)
	}
	if c.UI.DefaultMode != "DRIVE" {
		t.Errorf("default_mode = %q, want DRIVE", c.UI.DefaultMode)
	}
	if c.History.Path == "" {
		t.Error("history path empty")
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	data := `
[service]
base_url = "http://svc:9000/"
timeout_seconds = 5

[ui]
default_mode = "transit"
`
	if err := os.WriteFile(cfg, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HOME", dir)
	t.Setenv("TRIPDECK_CONFIG", cfg)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Service.BaseURL != "http://svc:9000" {
		t.Errorf("base_url = %q, want trailing slash trimmed", c.Service.BaseURL)
	}
	if c.Service.TimeoutSeconds != 5 {
		t.Errorf("timeout = %d, want 5", c.Service.TimeoutSeconds)
	}
	if c.UI.DefaultMode != "TRANSIT" {
		t.Errorf("default_mode = %q, want TRANSIT", c.UI.DefaultMode)
	}
}

func TestNormalize(t *testing.T) {
	c := Normalize(Config{})
	if c.Service.BaseURL != "http://localhost:8000" {
		t.Errorf("base_url = %q", c.Service.BaseURL)
	}
	if c.Download.Dir != "." {
		t.Errorf("download dir = %q, want .", c.Download.Dir)
	}

	c = Normalize(Config{Service: ServiceConfig{BaseURL: "  http://x/ ", TimeoutSeconds: -1}})
	if c.Service.BaseURL != "http://x" {
		t.Errorf("base_url = %q, want %q", c.Service.BaseURL, "http://x")
	}
	if c.Service.TimeoutSeconds != 0 {
		t.Errorf("timeout = %d, want clamped to 0", c.Service.TimeoutSeconds)
	}
}
