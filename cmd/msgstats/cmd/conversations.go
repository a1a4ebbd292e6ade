package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mstone/msgstats/internal/results"
)

var (
	conversationsTop  int
	conversationsJSON string
)

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List conversation summaries from the last analysis",
	Long: `Read the local results database written by 'msgstats analyze' and
print the stored conversation summaries without touching the backup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := results.Open(cfg.ResultsDBPath())
		if err != nil {
			return fmt.Errorf("open results store: %w", err)
		}
		defer store.Close()

		summaries, err := store.List()
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("No stored results; run 'msgstats analyze' first")
			return nil
		}

		if conversationsJSON != "" {
			if err := results.WriteJSON(conversationsJSON, summaries); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", conversationsJSON)
		}
		printConversations(summaries, conversationsTop)
		return nil
	},
}

func init() {
	conversationsCmd.Flags().IntVar(&conversationsTop, "top", 0, "number of conversations to print (0 = all)")
	conversationsCmd.Flags().StringVar(&conversationsJSON, "json", "", "also write summaries to a JSON file")
	rootCmd.AddCommand(conversationsCmd)
}
