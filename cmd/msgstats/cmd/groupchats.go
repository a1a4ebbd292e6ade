package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mstone/msgstats/internal/appletime"
	"github.com/mstone/msgstats/internal/groupchat"
	"github.com/mstone/msgstats/internal/pipeline"
)

var (
	groupChatID       int64
	groupChatDetailed bool
)

var groupchatsCmd = &cobra.Command{
	Use:   "groupchats",
	Short: "List group chats or show per-participant tapback detail",
	Long: `List every group chat with its participants, message count, and
date range. With --chat and --detailed, show the per-participant
breakdown for one chat: message counts and tapbacks given and received
by type.

Previously extracted databases are reused when present.

Examples:
  msgstats groupchats
  msgstats groupchats --chat 17 --detailed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := pipelineOptions("")
		if !pipeline.Extracted(opts) {
			backup, err := resolveBackupDir()
			if err != nil {
				return err
			}
			opts.BackupDir = backup
			if _, err := pipeline.Extract(opts); err != nil {
				return err
			}
		}

		if groupChatDetailed {
			if groupChatID == 0 {
				return fmt.Errorf("--detailed requires --chat <id>")
			}
			analysis, err := pipeline.AnalyzeGroupChat(opts, groupChatID)
			if err != nil {
				return err
			}
			printChatDetail(analysis)
			return nil
		}

		summaries, err := groupchat.ListGroupChats(filepath.Join(opts.ExportDir, "sms.db"))
		if err != nil {
			return err
		}
		printChatList(summaries)
		return nil
	},
}

func printChatList(summaries []groupchat.ChatSummary) {
	fmt.Printf("%-6s %-26s %9s %6s  %-18s %-18s\n",
		"ID", "Name", "Messages", "Ppl", "First", "Last")
	for _, s := range summaries {
		fmt.Printf("%-6d %-26s %9d %6d  %-18s %-18s\n",
			s.ChatID, truncate(s.DisplayName, 26), s.TotalMessages,
			len(s.Participants),
			appletime.FormatDate(s.FirstRaw), appletime.FormatDate(s.LastRaw))
	}
}

func printChatDetail(a *groupchat.ChatAnalysis) {
	fmt.Printf("%s (chat %d)\n\n", a.DisplayName, a.ChatID)
	for _, p := range a.Participants {
		fmt.Printf("%-28s %6d messages, %d tapbacks given, %d received\n",
			truncate(p.Name, 28), p.MessageCount, p.TotalSent(), p.TotalReceived())
		if line := tapbackLine(p.TapbacksSent); line != "" {
			fmt.Printf("    given:    %s\n", line)
		}
		if line := tapbackLine(p.TapbacksReceived); line != "" {
			fmt.Printf("    received: %s\n", line)
		}
	}
	if len(a.Dangling) > 0 {
		fmt.Printf("\n%d reaction(s) referenced messages outside this chat\n", len(a.Dangling))
	}
}

// tapbackLine renders a tapback map as "Heart:3 Laugh:1", sorted by
// count descending for stable output.
func tapbackLine(m map[string]int) string {
	if len(m) == 0 {
		return ""
	}
	type kv struct {
		label string
		count int
	}
	pairs := make([]kv, 0, len(m))
	for label, count := range m {
		pairs = append(pairs, kv{label, count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].label < pairs[j].label
	})

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("%s:%d", p.label, p.count)
	}
	return strings.Join(parts, " ")
}

func init() {
	groupchatsCmd.Flags().Int64Var(&groupChatID, "chat", 0, "chat ID (from the listing)")
	groupchatsCmd.Flags().BoolVar(&groupChatDetailed, "detailed", false, "per-participant tapback breakdown")
	rootCmd.AddCommand(groupchatsCmd)
}
