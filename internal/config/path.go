// Package config loads the receipt pipeline's configuration: filesystem
// paths and OCR backend settings, resolved from viper and the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and $VAR references in a configured path, such as
// the database location or the paddleocr executable. Expansion is
// best-effort: if the home directory cannot be resolved the path is
// returned with the tilde intact.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// Tilde first, then environment variables.
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
