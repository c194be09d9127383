package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should default to enabled")
	}
	if cfg.Separator() != "\n" {
		t.Errorf("default separator = %q", cfg.Separator())
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
schemas:
  directory: /data/schemas
  watch: true
cache:
  enabled: false
validation:
  message_separator: semicolon
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Schemas.Directory != "/data/schemas" || !cfg.Schemas.Watch {
		t.Errorf("schemas config = %+v", cfg.Schemas)
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be disabled")
	}
	if cfg.Separator() != "; " {
		t.Errorf("separator = %q", cfg.Separator())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCHEMAKIT_PORT", "7070")
	t.Setenv("SCHEMAKIT_CACHE_ENABLED", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Cache.Enabled {
		t.Error("env override should disable cache")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"bad separator", func(c *Config) { c.Validation.MessageSeparator = "comma" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"zero capacity with cache enabled", func(c *Config) { c.Cache.Capacity = 0 }, true},
		{"zero capacity with cache disabled", func(c *Config) { c.Cache.Enabled = false; c.Cache.Capacity = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
