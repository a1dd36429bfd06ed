package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrConfigNotFound is returned by Discover when no candidate path exists.
var ErrConfigNotFound = errors.New("config not found")

// DefaultPath returns $XDG_CONFIG_HOME/animelib/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "animelib", "config.toml")
}

// SearchPaths lists the locations Discover checks, in order. The data
// directory is only a candidate when ANIMELIB_DATA is set.
func SearchPaths() []string {
	paths := []string{"./config.toml"}
	if data := os.Getenv("ANIMELIB_DATA"); data != "" {
		paths = append(paths, filepath.Join(data, "config.toml"))
	}
	return append(paths, DefaultPath(), "/etc/animelib/config.toml")
}

// Discover returns the config file to load. ANIMELIB_CONFIG, when set, must
// point at an existing file; otherwise the first existing SearchPaths entry
// wins.
func Discover() (string, error) {
	if envPath := os.Getenv("ANIMELIB_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("ANIMELIB_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// defaultCacheDir is where covers and crash logs go when library.cache_dir
// is empty.
func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "./cache"
	}
	return filepath.Join(dir, "animelib")
}
