// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	History  HistoryConfig  `toml:"history"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Duration     *int     `toml:"duration"`
	Source       *string  `toml:"source"`
	PassagesFile *string  `toml:"passages-file"`
	WordList     *string  `toml:"wordlist"`
	Words        *int     `toml:"words"`
	CapsPct      *float64 `toml:"caps"`
	PunctPct     *float64 `toml:"punct"`
	PunctSet     *string  `toml:"punct-set"`
	Seed         *int64   `toml:"seed"`
	NoSave       *bool    `toml:"no-save"`
}

// HistoryConfig maps history screen settings.
type HistoryConfig struct {
	Window *int `toml:"window"`
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
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
