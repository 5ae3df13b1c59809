package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Server.Name != "doc2mcp" || cfg.Server.Port != 9000 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Sources.FetchTimeoutSec != 30 {
		t.Errorf("FetchTimeoutSec = %d", cfg.Sources.FetchTimeoutSec)
	}
	if cfg.Invoke.TimeoutSec != 60 {
		t.Errorf("Invoke.TimeoutSec = %d", cfg.Invoke.TimeoutSec)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc2mcp.toml")
	content := `
[server]
name = "docs-gateway"
port = 8080

[sources]
urls = ["https://example.com/openapi.json"]
render_js = true

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Server.Name != "docs-gateway" || cfg.Server.Port != 8080 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if !reflect.DeepEqual(cfg.Sources.URLs, []string{"https://example.com/openapi.json"}) {
		t.Errorf("URLs = %v", cfg.Sources.URLs)
	}
	if !cfg.Sources.RenderJS {
		t.Error("RenderJS not read from file")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	// Untouched values keep their defaults.
	if cfg.Invoke.TimeoutSec != 60 {
		t.Errorf("Invoke.TimeoutSec = %d", cfg.Invoke.TimeoutSec)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOC_URLS", "https://a.example.com/spec.json, https://b.example.com/docs.md ,")
	t.Setenv("DOC2MCP_PORT", "7070")
	t.Setenv("DOC2MCP_LOG_LEVEL", "warn")
	t.Setenv("DOC2MCP_RENDER_JS", "true")

	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	want := []string{"https://a.example.com/spec.json", "https://b.example.com/docs.md"}
	if !reflect.DeepEqual(cfg.Sources.URLs, want) {
		t.Errorf("URLs = %v, want trimmed non-empty entries", cfg.Sources.URLs)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if !cfg.Sources.RenderJS {
		t.Error("RenderJS env override ignored")
	}
}

func TestInvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("DOC2MCP_PORT", "not-a-port")
	t.Setenv("DOC2MCP_FETCH_TIMEOUT", "-5")

	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want default kept", cfg.Server.Port)
	}
	if cfg.Sources.FetchTimeoutSec != 30 {
		t.Errorf("FetchTimeoutSec = %d, want default kept", cfg.Sources.FetchTimeoutSec)
	}
}

func TestUnreadableFileFails(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, 4444)
	if cfg.Server.Port != 4444 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	ApplyFlagOverrides(cfg, 0)
	if cfg.Server.Port != 4444 {
		t.Error("zero port must not override")
	}
}
