package difficulty

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// LoadOverride reads a custom profile override from a TOML file. Only
// the keys present in the file override the base difficulty; everything
// else falls back leaf-by-leaf.
func LoadOverride(path string) (Override, error) {
	if _, err := os.Stat(path); err != nil {
		return Override{}, fmt.Errorf("failed to stat profile: %w", err)
	}
	var override Override
	if _, err := toml.DecodeFile(path, &override); err != nil {
		return Override{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	if override.Base != nil {
		if _, ok := builtins[*override.Base]; !ok {
			return Override{}, fmt.Errorf("unknown base difficulty %q", *override.Base)
		}
	}
	return override, nil
}
