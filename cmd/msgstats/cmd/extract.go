package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mstone/msgstats/internal/pipeline"
)

var extractOut string

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Copy the message and contact databases out of a backup",
	Long: `Resolve the backup's Manifest.db index and copy the message store
(sms.db) and contact store (AddressBook.sqlitedb) into the export
directory, overwriting any earlier copies.

Examples:
  msgstats extract --backup ~/Library/Application\ Support/MobileSync/Backup/00a1b2c3
  msgstats extract --backup /backups/00a1b2c3 --out /tmp/export`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backup, err := resolveBackupDir()
		if err != nil {
			return err
		}

		opts := pipelineOptions(backup)
		if extractOut != "" {
			opts.ExportDir = extractOut
		}

		written, err := pipeline.Extract(opts)
		if err != nil {
			return err
		}
		for _, p := range written {
			fmt.Printf("  %s\n", p)
		}
		fmt.Printf("Extracted %d database(s) to %s\n", len(written), opts.ExportDir)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractOut, "out", "", "output directory (default: <home>/imessage_export)")
	rootCmd.AddCommand(extractCmd)
}
