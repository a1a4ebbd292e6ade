package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mstone/msgstats/internal/backup"
	"github.com/mstone/msgstats/internal/sqliteutil"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show device metadata for a backup",
	Long: `Read Info.plist and the manifest from the backup directory and
print the device name, model, iOS version, and how many files the
manifest records for the messages domain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveBackupDir()
		if err != nil {
			return err
		}

		info, err := backup.ReadInfo(root)
		var notFound *sqliteutil.NotFoundError
		switch {
		case errors.As(err, &notFound):
			return fmt.Errorf("%s does not look like an iPhone backup (no Info.plist)", root)
		case err != nil:
			return err
		}

		fmt.Printf("Backup:       %s\n", root)
		fmt.Printf("Device:       %s (%s)\n", info.DeviceName, info.ProductType)
		fmt.Printf("Product:      %s %s\n", info.ProductName, info.ProductVersion)
		if info.SerialNumber != "" {
			fmt.Printf("Serial:       %s\n", info.SerialNumber)
		}
		if !info.LastBackupDate.IsZero() {
			fmt.Printf("Last backup:  %s\n", info.LastBackupDate.Format("January 02, 2006 15:04 MST"))
		}

		entries, err := backup.ResolveManifest(root)
		if err != nil {
			return err
		}
		fmt.Printf("Manifest:     %d files in the messages domain\n", len(entries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
