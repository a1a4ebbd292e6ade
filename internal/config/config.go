// Package config handles loading and managing msgstats configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the msgstats configuration.
type Config struct {
	Backup BackupConfig `toml:"backup"`
	Data   DataConfig   `toml:"data"`

	// Computed; not read from the config file.
	HomeDir string `toml:"-"`
}

// BackupConfig locates the phone backup to analyze.
type BackupConfig struct {
	Dir string `toml:"dir"` // backup root containing Manifest.db
}

// DataConfig holds local storage configuration.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// DefaultHome returns the default msgstats home directory.
// Respects the MSGSTATS_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("MSGSTATS_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".msgstats"
	}
	return filepath.Join(home, ".msgstats")
}

// DefaultBackupRoot returns the directory where the desktop sync tool
// keeps device backups, each in a subdirectory named by device ID.
func DefaultBackupRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Library", "Application Support", "MobileSync", "Backup")
}

// Load reads the configuration from the specified file. If path is
// empty, uses <home>/config.toml; homeDir overrides the default home
// when non-empty. A missing config file just yields the defaults.
func Load(path, homeDir string) (*Config, error) {
	if homeDir == "" {
		homeDir = DefaultHome()
	}
	if path == "" {
		path = filepath.Join(homeDir, "config.toml")
	}

	cfg := &Config{
		HomeDir: homeDir,
		Data: DataConfig{
			DataDir: homeDir,
		},
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Backup.Dir = expandPath(cfg.Backup.Dir)
	cfg.Data.DataDir = expandPath(cfg.Data.DataDir)

	return cfg, nil
}

// EnsureHomeDir creates the home directory if it does not exist.
func (c *Config) EnsureHomeDir() error {
	return os.MkdirAll(c.Data.DataDir, 0o755)
}

// ExportDir returns the directory the materialized databases are copied
// into.
func (c *Config) ExportDir() string {
	return filepath.Join(c.Data.DataDir, "imessage_export")
}

// ResultsDBPath returns the path of the local results database.
func (c *Config) ResultsDBPath() string {
	return filepath.Join(c.Data.DataDir, "local_results.db")
}

// ConfigFilePath returns the path the config file is loaded from.
func (c *Config) ConfigFilePath() string {
	return filepath.Join(c.HomeDir, "config.toml")
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
