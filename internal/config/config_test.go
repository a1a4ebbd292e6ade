package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("MSGSTATS_HOME", tmpDir)

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HomeDir != tmpDir {
		t.Errorf("HomeDir = %q, want %q", cfg.HomeDir, tmpDir)
	}
	if cfg.Data.DataDir != tmpDir {
		t.Errorf("Data.DataDir = %q, want %q", cfg.Data.DataDir, tmpDir)
	}
	if cfg.Backup.Dir != "" {
		t.Errorf("Backup.Dir = %q, want empty", cfg.Backup.Dir)
	}
	if got := cfg.ResultsDBPath(); got != filepath.Join(tmpDir, "local_results.db") {
		t.Errorf("ResultsDBPath = %q", got)
	}
	if got := cfg.ExportDir(); got != filepath.Join(tmpDir, "imessage_export") {
		t.Errorf("ExportDir = %q", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("MSGSTATS_HOME", tmpDir)

	content := `
[backup]
dir = "/backups/00a1b2"

[data]
data_dir = "/var/lib/msgstats"
`
	path := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backup.Dir != "/backups/00a1b2" {
		t.Errorf("Backup.Dir = %q", cfg.Backup.Dir)
	}
	if cfg.Data.DataDir != "/var/lib/msgstats" {
		t.Errorf("Data.DataDir = %q", cfg.Data.DataDir)
	}
}

func TestHomeDirOverride(t *testing.T) {
	t.Setenv("MSGSTATS_HOME", t.TempDir())
	override := t.TempDir()

	cfg, err := Load("", override)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HomeDir != override {
		t.Errorf("HomeDir = %q, want %q", cfg.HomeDir, override)
	}
}
