// Package pipeline orchestrates the full analysis run: manifest
// resolution, file materialization, contact loading, message
// aggregation, group chat listing, and summary compilation. Stages run
// synchronously in dependency order; each one finishes its reads and
// releases its database handle before the next starts.
package pipeline

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/mstone/msgstats/internal/backup"
	"github.com/mstone/msgstats/internal/contacts"
	"github.com/mstone/msgstats/internal/groupchat"
	"github.com/mstone/msgstats/internal/messages"
	"github.com/mstone/msgstats/internal/report"
)

// Options configures a pipeline run.
type Options struct {
	BackupDir string
	ExportDir string
	Logger    *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Result is the complete output of one analysis run.
type Result struct {
	Conversations []report.Summary
	GroupChats    []groupchat.ChatSummary
}

// messageStorePath returns where Extract materializes the message store.
func (o Options) messageStorePath() string {
	return filepath.Join(o.ExportDir, "sms.db")
}

// addressBookPath returns where Extract materializes the contact store.
func (o Options) addressBookPath() string {
	return filepath.Join(o.ExportDir, "AddressBook.sqlitedb")
}

// Extract resolves the backup manifest and copies the message and
// contact stores into the export directory. Returns the paths written.
func Extract(opts Options) ([]string, error) {
	log := opts.logger()

	entries, err := backup.ResolveManifest(opts.BackupDir)
	if err != nil {
		return nil, eris.Wrap(err, "resolve backup manifest")
	}
	log.Info("resolved backup manifest", "backup", opts.BackupDir, "entries", len(entries))

	written, err := backup.Materialize(opts.BackupDir, opts.ExportDir, entries)
	if err != nil {
		return nil, eris.Wrap(err, "materialize backup databases")
	}
	log.Info("materialized databases", "dir", opts.ExportDir, "files", len(written))
	return written, nil
}

// Run executes the full pipeline. When the export directory already
// holds both databases from an earlier Extract, refresh can be skipped
// by the caller; Run always re-extracts to keep the copies current.
func Run(opts Options) (*Result, error) {
	if _, err := Extract(opts); err != nil {
		return nil, err
	}
	return Analyze(opts)
}

// Analyze runs the analysis stages against previously extracted
// databases.
func Analyze(opts Options) (*Result, error) {
	log := opts.logger()

	book, err := contacts.Load(opts.addressBookPath())
	if err != nil {
		return nil, eris.Wrap(err, "load contacts")
	}
	log.Info("loaded contacts", "keys", book.Len())

	aggs, err := messages.LoadAggregates(opts.messageStorePath())
	if err != nil {
		return nil, eris.Wrap(err, "aggregate messages")
	}
	log.Info("aggregated messages", "handles", len(aggs))

	images, err := messages.LoadImageStats(opts.messageStorePath())
	if err != nil {
		return nil, eris.Wrap(err, "scan image attachments")
	}

	chats, err := groupchat.ListGroupChats(opts.messageStorePath())
	if err != nil {
		return nil, eris.Wrap(err, "list group chats")
	}
	log.Info("listed group chats", "chats", len(chats))

	return &Result{
		Conversations: report.Compile(aggs, images, book),
		GroupChats:    chats,
	}, nil
}

// AnalyzeGroupChat runs the detailed two-pass tapback analysis for one
// chat and logs (but does not fail on) dangling reaction references.
func AnalyzeGroupChat(opts Options, chatID int64) (*groupchat.ChatAnalysis, error) {
	log := opts.logger()

	book, err := contacts.Load(opts.addressBookPath())
	if err != nil {
		return nil, eris.Wrap(err, "load contacts")
	}

	analysis, err := groupchat.AnalyzeChat(opts.messageStorePath(), chatID, book)
	if err != nil {
		return nil, eris.Wrap(err, "analyze group chat")
	}
	for _, d := range analysis.Dangling {
		log.Warn("reaction references a message not seen in this chat",
			"chat", chatID, "guid", d.TargetGUID, "type", d.TapbackType, "reactor", d.ReactorName)
	}
	return analysis, nil
}

// Extracted reports whether both databases are already present in the
// export directory.
func Extracted(opts Options) bool {
	for _, p := range []string{opts.messageStorePath(), opts.addressBookPath()} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}
