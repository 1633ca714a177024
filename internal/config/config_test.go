// ABOUTME: Tests for config loading, defaults, env expansion, and validation.
// ABOUTME: Uses temp files the way the real loader is exercised.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes YAML content to a temp file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mcpd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  name: widget-server
  version: 2.3.4
  transport: streamable-http
  port: 8080
  shutdown_timeout: 10s
auth:
  type: oauth
catalog:
  manifest: /tmp/catalog.toml
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Name != "widget-server" || cfg.Server.Version != "2.3.4" {
		t.Errorf("identity = %q/%q", cfg.Server.Name, cfg.Server.Version)
	}
	if cfg.Server.Transport != "streamable-http" {
		t.Errorf("transport = %q", cfg.Server.Transport)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown_timeout = %v", cfg.Server.ShutdownTimeout)
	}
	if !cfg.OAuthEnabled() {
		t.Error("oauth should be enabled")
	}
	if cfg.Catalog.Manifest != "/tmp/catalog.toml" {
		t.Errorf("manifest = %q", cfg.Catalog.Manifest)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Name != "mcpd" {
		t.Errorf("default name = %q", cfg.Server.Name)
	}
	if cfg.Server.Transport != TransportStdio {
		t.Errorf("default transport = %q", cfg.Server.Transport)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("default port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("default shutdown_timeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.OAuthEnabled() {
		t.Error("oauth must default to disabled")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("default logging = %+v", cfg.Logging)
	}
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("MCPD_TEST_NAME", "expanded-server")
	t.Setenv("MCPD_TEST_MANIFEST", "/data/catalog.toml")

	path := writeConfig(t, `
server:
  name: ${MCPD_TEST_NAME}
catalog:
  manifest: ${MCPD_TEST_MANIFEST}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Name != "expanded-server" {
		t.Errorf("name = %q, want env expansion", cfg.Server.Name)
	}
	if cfg.Catalog.Manifest != "/data/catalog.toml" {
		t.Errorf("manifest = %q", cfg.Catalog.Manifest)
	}
}

func TestLoadUnsetEnvVarBecomesEmpty(t *testing.T) {
	path := writeConfig(t, `
server:
  name: ${MCPD_DEFINITELY_UNSET_VAR}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Empty after expansion, so the default applies.
	if cfg.Server.Name != "mcpd" {
		t.Errorf("name = %q", cfg.Server.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: a: mapping")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `
server:
  shutdown_timeout: soonish
`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "shutdown_timeout") {
		t.Errorf("expected duration error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "negative port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "server.port",
		},
		{
			name:    "unknown auth type",
			mutate:  func(c *Config) { c.Auth.Type = "saml" },
			wantErr: "auth.type",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: "logging.level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}

	t.Run("default config is valid", func(t *testing.T) {
		if err := Default().Validate(); err != nil {
			t.Errorf("Default() invalid: %v", err)
		}
	})

	t.Run("unknown transport passes here", func(t *testing.T) {
		// The factory owns transport validation; config must not duplicate it.
		cfg := Default()
		cfg.Server.Transport = "carrier-pigeon"
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v, transport checks belong to the factory", err)
		}
	})
}
