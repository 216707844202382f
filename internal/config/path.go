// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ledgermatch/ledgermatch/internal/rules"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

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

// DataDir returns the directory holding the rule set and taxonomy files,
// from the data.dir config key or the default ./data.
func DataDir() string {
	dir := viper.GetString("data.dir")
	if dir == "" {
		dir = "data"
	}
	return ExpandPath(dir)
}

// StorePaths returns the persistence paths for the rule store, relative to
// the data directory.
func StorePaths() rules.Paths {
	dir := DataDir()
	return rules.Paths{
		Rules:      filepath.Join(dir, "rules.json"),
		Categories: filepath.Join(dir, "categories.txt"),
		Groups:     filepath.Join(dir, "groups.txt"),
	}
}

// HistoryDBPath returns the SQLite run-history database path, from the
// history.db config key or the default inside the data directory.
func HistoryDBPath() string {
	if path := viper.GetString("history.db"); path != "" {
		return ExpandPath(path)
	}
	return filepath.Join(DataDir(), "history.db")
}
