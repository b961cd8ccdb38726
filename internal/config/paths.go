package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database string // Main SQLite database
	Search   string // Secondary search index persistence
	Logs     string // Log directory
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	searchDir := cfg.Search.DataDir
	if searchDir == "" {
		searchDir = filepath.Join(cfg.BaseDir, "search")
	}
	return Paths{
		Database: filepath.Join(cfg.BaseDir, "skillscout.db"),
		Search:   searchDir,
		Logs:     filepath.Join(cfg.BaseDir, "logs"),
	}
}

// DefaultBaseDir returns the default base directory under the XDG data home.
func DefaultBaseDir() string {
	return filepath.Join(xdg.DataHome, "skillscout")
}
