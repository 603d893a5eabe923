package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds trailmark's runtime configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means the XDG default.
	DBPath string `yaml:"db_path"`

	// CatalogPath is a catalog YAML file. Empty means the bundled catalog.
	CatalogPath string `yaml:"catalog_path"`

	Log         LogConfig         `yaml:"log"`
	Persistence PersistenceConfig `yaml:"persistence"`
}

// LogConfig selects the logger mode.
type LogConfig struct {
	Mode    string `yaml:"mode"` // "dev", "prod", or "nop"
	Verbose bool   `yaml:"verbose"`
}

// PersistenceConfig controls how progress reaches the database.
type PersistenceConfig struct {
	// Async moves writes to a background writer.
	Async bool `yaml:"async"`

	// SnapshotKeep is how many snapshots survive each save. Default: 20.
	SnapshotKeep int `yaml:"snapshot_keep"`

	// DrainTimeout bounds how long shutdown waits for queued writes.
	// Default: "5s".
	DrainTimeout string `yaml:"drain_timeout"`
}

// ValidLogModes lists the supported logger modes.
var ValidLogModes = []string{"dev", "prod", "nop"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Mode: "nop",
		},
		Persistence: PersistenceConfig{
			SnapshotKeep: 20,
			DrainTimeout: "5s",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/trailmark/config.yaml, falling back
// to ~/.config/trailmark/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "trailmark", "config.yaml")
}

// Load reads a YAML config file over the defaults. A missing file or an
// empty path yields the defaults. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from TRAILMARK_* environment variables.
func (c *Config) ApplyEnv() error {
	if p := os.Getenv("TRAILMARK_DB"); p != "" {
		c.DBPath = p
	}
	if p := os.Getenv("TRAILMARK_CATALOG"); p != "" {
		c.CatalogPath = p
	}
	if m := os.Getenv("TRAILMARK_LOG_MODE"); m != "" {
		c.Log.Mode = m
	}
	if v := os.Getenv("TRAILMARK_ASYNC_PERSIST"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRAILMARK_ASYNC_PERSIST: %w", err)
		}
		c.Persistence.Async = b
	}
	if v := os.Getenv("TRAILMARK_SNAPSHOT_KEEP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TRAILMARK_SNAPSHOT_KEEP: %w", err)
		}
		c.Persistence.SnapshotKeep = n
	}
	return nil
}

// GetDrainTimeout returns the drain timeout as a duration.
func (c Config) GetDrainTimeout() time.Duration {
	d, err := time.ParseDuration(c.Persistence.DrainTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// Validate checks the configuration for values the CLI cannot run with.
func (c Config) Validate() error {
	validMode := false
	for _, m := range ValidLogModes {
		if c.Log.Mode == m {
			validMode = true
			break
		}
	}
	if !validMode {
		return fmt.Errorf("invalid log mode: %q (valid: %v)", c.Log.Mode, ValidLogModes)
	}
	if c.Persistence.SnapshotKeep < 1 {
		return fmt.Errorf("persistence.snapshot_keep must be >= 1, got %d", c.Persistence.SnapshotKeep)
	}
	if c.Persistence.DrainTimeout != "" {
		if _, err := time.ParseDuration(c.Persistence.DrainTimeout); err != nil {
			return fmt.Errorf("persistence.drain_timeout: %w", err)
		}
	}
	return nil
}
