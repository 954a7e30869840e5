// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Training TrainingConfig `toml:"training"`
}

// TrainingConfig maps training-related settings. Nil fields are unset
// and fall back to the last-used program or built-in defaults.
type TrainingConfig struct {
	Difficulty *string `toml:"difficulty"`
	Mode       *string `toml:"mode"`
	Type       *string `toml:"type"`
	Sessions   *int    `toml:"sessions"`
	MidRest    *bool   `toml:"mid-rest"`
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
