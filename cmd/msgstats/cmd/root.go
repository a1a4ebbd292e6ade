// Package cmd implements the msgstats command line interface.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mstone/msgstats/internal/config"
	"github.com/mstone/msgstats/internal/pipeline"
)

var (
	cfgFile   string
	homeDir   string
	backupDir string
	verbose   bool
	cfg       *config.Config
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "msgstats",
	Short: "Message statistics from a local phone backup",
	Long: `msgstats reads the message and contact databases out of a local
phone backup and computes per-contact and per-group-chat statistics:
message counts, image volume, tapback reactions, and activity rates.

The backup is read-only; extracted copies and results live under the
msgstats home directory (default ~/.msgstats).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))

		var err error
		cfg, err = config.Load(cfgFile, homeDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.EnsureHomeDir(); err != nil {
			return fmt.Errorf("create data directory %s: %w", cfg.Data.DataDir, err)
		}
		return nil
	},
}

// Execute runs the root command with a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// resolveBackupDir picks the backup root: the --backup flag, then the
// config file, then the desktop sync tool's default location when it
// holds exactly one backup.
func resolveBackupDir() (string, error) {
	if backupDir != "" {
		return backupDir, nil
	}
	if cfg.Backup.Dir != "" {
		return cfg.Backup.Dir, nil
	}

	root := config.DefaultBackupRoot()
	if root != "" {
		entries, err := os.ReadDir(root)
		if err == nil {
			var dirs []string
			for _, e := range entries {
				if e.IsDir() {
					dirs = append(dirs, e.Name())
				}
			}
			if len(dirs) == 1 {
				return root + string(os.PathSeparator) + dirs[0], nil
			}
		}
	}
	return "", fmt.Errorf(
		"no backup directory: pass --backup or set [backup] dir in %s", cfg.ConfigFilePath())
}

// pipelineOptions builds the pipeline options shared by the commands.
func pipelineOptions(backup string) pipeline.Options {
	return pipeline.Options{
		BackupDir: backup,
		ExportDir: cfg.ExportDir(),
		Logger:    logger,
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.msgstats/config.toml)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "home directory (overrides MSGSTATS_HOME)")
	rootCmd.PersistentFlags().StringVar(&backupDir, "backup", "", "backup root directory containing Manifest.db")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
