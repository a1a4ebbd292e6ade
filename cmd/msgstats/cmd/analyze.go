package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mstone/msgstats/internal/pipeline"
	"github.com/mstone/msgstats/internal/report"
	"github.com/mstone/msgstats/internal/results"
)

var (
	analyzeJSON string
	analyzeTop  int
	analyzeSkip bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis pipeline",
	Long: `Extract the databases from the backup, aggregate messages per
contact, scan image attachments, list group chats, and store the
compiled conversation summaries in the local results database.

Examples:
  msgstats analyze --backup /backups/00a1b2c3
  msgstats analyze --backup /backups/00a1b2c3 --json all_conversations.json
  msgstats analyze --skip-extract --top 25`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := pipelineOptions("")

		var (
			result *pipeline.Result
			err    error
		)
		if analyzeSkip {
			if !pipeline.Extracted(opts) {
				return fmt.Errorf("no extracted databases in %s; run 'msgstats extract' first", opts.ExportDir)
			}
			result, err = pipeline.Analyze(opts)
		} else {
			backup, berr := resolveBackupDir()
			if berr != nil {
				return berr
			}
			opts.BackupDir = backup
			result, err = pipeline.Run(opts)
		}
		if err != nil {
			return err
		}

		store, err := results.Open(cfg.ResultsDBPath())
		if err != nil {
			return fmt.Errorf("open results store: %w", err)
		}
		defer store.Close()
		if err := store.Replace(result.Conversations); err != nil {
			return fmt.Errorf("store results: %w", err)
		}

		if analyzeJSON != "" {
			if err := results.WriteJSON(analyzeJSON, result.Conversations); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", analyzeJSON)
		}

		fmt.Printf("Analyzed %d conversations and %d group chats\n",
			len(result.Conversations), len(result.GroupChats))
		printConversations(result.Conversations, analyzeTop)
		return nil
	},
}

// printConversations renders the top-n summaries as a fixed-width table.
func printConversations(summaries []report.Summary, n int) {
	if n > 0 && len(summaries) > n {
		summaries = summaries[:n]
	}
	if len(summaries) == 0 {
		return
	}

	fmt.Printf("\n%-28s %8s %8s %9s  %-18s %-18s\n",
		"Contact", "Sent", "Recv", "Avg/Day", "First", "Last")
	for _, s := range summaries {
		fmt.Printf("%-28s %8d %8d %9.2f  %-18s %-18s\n",
			truncate(s.ContactName, 28), s.SentCount, s.ReceivedCount,
			s.AvgPerDay, s.FirstDate(), s.LastDate())
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "", "also write summaries to a JSON file")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 10, "number of conversations to print (0 = all)")
	analyzeCmd.Flags().BoolVar(&analyzeSkip, "skip-extract", false, "analyze previously extracted databases")
	rootCmd.AddCommand(analyzeCmd)
}
