// Package results persists the compiled conversation summaries to a
// small local SQLite database so the listing commands can show the last
// analysis without re-reading the backup.
package results

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mstone/msgstats/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	contact_name         TEXT PRIMARY KEY,
	sent_count           INTEGER NOT NULL,
	received_count       INTEGER NOT NULL,
	first_raw            INTEGER NOT NULL,
	last_raw             INTEGER NOT NULL,
	avg_messages_per_day REAL NOT NULL,
	images_sent          INTEGER NOT NULL,
	images_received      INTEGER NOT NULL,
	total_image_bytes    INTEGER NOT NULL
);`

// Store wraps the local results database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the results database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create results directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping results db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init results schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Replace stores the given summaries as the complete result of the
// latest analysis run, discarding whatever the previous run left.
func (s *Store) Replace(summaries []report.Summary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM conversations`); err != nil {
		return fmt.Errorf("clear conversations: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO conversations (
			contact_name, sent_count, received_count, first_raw, last_raw,
			avg_messages_per_day, images_sent, images_received, total_image_bytes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range summaries {
		if _, err := stmt.Exec(
			c.ContactName, c.SentCount, c.ReceivedCount, c.FirstRaw, c.LastRaw,
			c.AvgPerDay, c.ImagesSent, c.ImagesReceived, c.TotalImageBytes,
		); err != nil {
			return fmt.Errorf("insert %s: %w", c.ContactName, err)
		}
	}
	return tx.Commit()
}

// List returns the stored summaries ordered by total message count
// descending.
func (s *Store) List() ([]report.Summary, error) {
	rows, err := s.db.Query(`
		SELECT contact_name, sent_count, received_count, first_raw, last_raw,
		       avg_messages_per_day, images_sent, images_received, total_image_bytes
		FROM conversations
		ORDER BY sent_count + received_count DESC, contact_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var result []report.Summary
	for rows.Next() {
		var c report.Summary
		if err := rows.Scan(
			&c.ContactName, &c.SentCount, &c.ReceivedCount, &c.FirstRaw, &c.LastRaw,
			&c.AvgPerDay, &c.ImagesSent, &c.ImagesReceived, &c.TotalImageBytes,
		); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
