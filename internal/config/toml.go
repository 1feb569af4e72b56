// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/hippotype/internal/stats"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Server   ServerConfig   `toml:"server"`
	Levels   LevelsConfig   `toml:"levels"`
}

// PracticeConfig maps typing client settings.
type PracticeConfig struct {
	Domain  *string `toml:"domain"`
	Server  *string `toml:"server"`
	Timeout *string `toml:"timeout"`
	Offline *bool   `toml:"offline"`
}

// ServerConfig maps generator server settings.
type ServerConfig struct {
	Addr        *string  `toml:"addr"`
	Model       *string  `toml:"model"`
	BaseURL     *string  `toml:"base-url"`
	Temperature *float64 `toml:"temperature"`
	MaxTokens   *int     `toml:"max-tokens"`
	TopP        *float64 `toml:"top-p"`
	Rate        *int     `toml:"rate"`
	Burst       *int     `toml:"burst"`
	Cache       *bool    `toml:"cache"`
	CacheSize   *int     `toml:"cache-size"`
}

// LevelsConfig overrides performance level labels. Thresholds are fixed.
type LevelsConfig struct {
	Low      *string  `toml:"low"`
	Standard []string `toml:"standard"`
	High     []string `toml:"high"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Apply returns base with the configured labels substituted.
func (l LevelsConfig) Apply(base stats.LevelTable) (stats.LevelTable, error) {
	low := ""
	if l.Low != nil {
		low = *l.Low
	}
	table, err := base.WithLabels(low, l.Standard, l.High)
	if err != nil {
		return stats.LevelTable{}, fmt.Errorf("invalid [levels]: %w", err)
	}
	return table, nil
}
