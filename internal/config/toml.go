// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Vigenere      VigenereConfig      `toml:"vigenere"`
	Transposition TranspositionConfig `toml:"transposition"`
	Attack        AttackConfig        `toml:"attack"`
}

// VigenereConfig maps Vigenère settings.
type VigenereConfig struct {
	Key *string `toml:"key"`
}

// TranspositionConfig maps transposition settings. Key2 enables the double cipher.
type TranspositionConfig struct {
	Key  *string `toml:"key"`
	Key2 *string `toml:"key2"`
}

// AttackConfig maps cryptanalysis heuristics.
type AttackConfig struct {
	MinLength  *int  `toml:"min-length"`
	Prior      *int  `toml:"prior"`
	Candidates *int  `toml:"candidates"`
	Threshold  *int  `toml:"threshold"`
	Save       *bool `toml:"save"`
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
