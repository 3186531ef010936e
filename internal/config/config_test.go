package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.View.NTerms != nil || cfg.Source.BaseURL != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[view]
palette = "hawaii"
n-terms = 50
scale-factor = 0.5
keep-bots = true
streams = "20240101,"

[source]
base-url = "https://example.org"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.View.Palette == nil || *cfg.View.Palette != "hawaii" {
		t.Fatalf("unexpected palette %v", cfg.View.Palette)
	}
	if cfg.View.NTerms == nil || *cfg.View.NTerms != 50 {
		t.Fatalf("unexpected n-terms %v", cfg.View.NTerms)
	}
	if cfg.View.ScaleFactor == nil || *cfg.View.ScaleFactor != 0.5 {
		t.Fatalf("unexpected scale-factor %v", cfg.View.ScaleFactor)
	}
	if cfg.View.KeepBots == nil || !*cfg.View.KeepBots {
		t.Fatalf("unexpected keep-bots %v", cfg.View.KeepBots)
	}
	if cfg.View.ToPercent != nil {
		t.Fatalf("unset keys must stay nil")
	}
	if cfg.Source.BaseURL == nil || *cfg.Source.BaseURL != "https://example.org" {
		t.Fatalf("unexpected base-url %v", cfg.Source.BaseURL)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[view]\nn-term = 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestTemplateDecodes(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := DefaultConfigPath()
	if err := EnsureFile(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	if err := os.WriteFile(path, []byte("[view]\nn-terms = 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := EnsureFile(path); err != nil {
		t.Fatalf("ensure existing: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil || cfg.View.NTerms == nil || *cfg.View.NTerms != 7 {
		t.Fatalf("existing config should be kept, got %+v err=%v", cfg, err)
	}
}
