// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Library  LibraryConfig  `toml:"library"`
	Events   EventsConfig   `toml:"events"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LogConfig controls the slog handler. An empty File logs to stderr only.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

type LibraryConfig struct {
	// DownloadedOnly seeds the downloaded-only preference on first start.
	DownloadedOnly bool   `toml:"downloaded_only"`
	CacheDir       string `toml:"cache_dir"`
	// ExtensionIndex and InstalledExtensions are JSON files read for crash logs.
	ExtensionIndex      string `toml:"extension_index"`
	InstalledExtensions string `toml:"installed_extensions"`
	// UseKeyring stores tracker and connection secrets in the OS keyring.
	UseKeyring bool `toml:"use_keyring"`
}

type EventsConfig struct {
	Retention     time.Duration `toml:"retention"`
	PruneInterval time.Duration `toml:"prune_interval"`
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cerr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return nil, cerr
	}
	return cfg, nil
}

// LoadWithoutValidation parses the file and applies defaults but skips
// validation and unresolved variable checks.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/animelib.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Library.CacheDir == "" {
		c.Library.CacheDir = defaultCacheDir()
	}
	if c.Events.Retention == 0 {
		c.Events.Retention = 30 * 24 * time.Hour
	}
	if c.Events.PruneInterval == 0 {
		c.Events.PruneInterval = time.Hour
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars expands environment references. Unresolved references are
// left in place and reported in missing. Comment lines are copied unchanged.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			value, problem := expandEnvVar(match)
			if problem != "" {
				missing = append(missing, problem)
			}
			return value
		})
	}
	return strings.Join(lines, ""), missing
}

// expandEnvVar resolves one reference. A non-empty problem means the
// reference could not be resolved and match is returned as is.
func expandEnvVar(match string) (value, problem string) {
	m := envVarPattern.FindStringSubmatch(match)
	name, op, arg := m[1], m[2], m[3]
	env, ok := os.LookupEnv(name)

	switch op {
	case ":-":
		if !ok || env == "" {
			return arg, ""
		}
		return env, ""
	case ":?":
		if !ok || env == "" {
			return match, name + ": " + strings.TrimSpace(arg)
		}
		return env, ""
	}

	if !ok {
		return match, name
	}
	return env, ""
}
