package config

import (
	"os"
	"path/filepath"
)

// DefaultPath is $XDG_CONFIG_HOME/tabrelay/config.yaml, or "" when no user
// config directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tabrelay", "config.yaml")
}
