// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	View   ViewConfig   `toml:"view"`
	Source SourceConfig `toml:"source"`
}

// ViewConfig maps display and aggregation settings.
type ViewConfig struct {
	Palette        *string  `toml:"palette"`
	ReversePalette *bool    `toml:"reverse-palette"`
	KeepBots       *bool    `toml:"keep-bots"`
	KeepAts        *bool    `toml:"keep-ats"`
	NTerms         *int     `toml:"n-terms"`
	ScaleFactor    *float64 `toml:"scale-factor"`
	TrendScale     *bool    `toml:"trend-scale"`
	ByCount        *bool    `toml:"by-count"`
	ToPercent      *bool    `toml:"to-percent"`
	Streams        *string  `toml:"streams"`
	WeightedTrend  *bool    `toml:"weighted-trend"`
	Exclude        *string  `toml:"exclude"`
}

// SourceConfig maps where channel archives come from.
type SourceConfig struct {
	BaseURL  *string `toml:"base-url"`
	CacheDir *string `toml:"cache-dir"`
	DBPath   *string `toml:"db"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config keys: %v", undecoded)
	}
	return cfg, nil
}

// Template is written by `chatcloud config` when no config file exists yet.
const Template = `# chatcloud configuration

[view]
# palette = "nuuk"
# reverse-palette = false
# keep-bots = false
# keep-ats = false
# n-terms = 500
# scale-factor = 1.0
# trend-scale = true
# by-count = true
# to-percent = true
# streams = "n100"
# weighted-trend = true
# exclude = "file:/path/to/stopwords.txt"

[source]
# base-url = "https://example.org/chat"
# cache-dir = "~/.local/share/chatcloud/cache"
# db = "~/.local/share/chatcloud/chatcloud.db"
`

// EnsureFile writes Template to path unless a file already exists there.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
