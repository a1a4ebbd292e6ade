// Package messages scans the message store (sms.db) and aggregates
// per-identifier message counts, date ranges, and image attachment
// volume. Identifiers are returned raw, exactly as the store records
// them; normalization and contact matching happen downstream.
package messages

import (
	"database/sql"

	"github.com/mstone/msgstats/internal/sqliteutil"
)

// Aggregate holds the per-identifier message statistics for one handle.
type Aggregate struct {
	Identifier    string
	SentCount     int
	ReceivedCount int
	FirstRaw      int64 // raw store timestamp, nanoseconds since the Apple epoch
	LastRaw       int64
}

// ImageStats accumulates image attachment counts and volume for one
// identifier, split by message direction.
type ImageStats struct {
	Sent       int
	Received   int
	TotalBytes int64
}

// requiredTables is what the aggregation queries join against. A store
// missing any of these is not a usable sms.db.
var requiredTables = []string{
	"message", "handle", "attachment", "message_attachment_join",
}

// open opens the store read-only and verifies the tables this package
// queries are present, returning a SchemaError listing what is actually
// there when one is missing.
func open(path string) (*sql.DB, error) {
	db, err := sqliteutil.OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	for _, table := range requiredTables {
		ok, err := sqliteutil.HasTable(db, table)
		if err != nil {
			db.Close()
			return nil, err
		}
		if !ok {
			available, terr := sqliteutil.Tables(db)
			if terr != nil {
				db.Close()
				return nil, terr
			}
			db.Close()
			return nil, &sqliteutil.SchemaError{
				Path:      path,
				Wanted:    []string{table},
				Available: available,
			}
		}
	}
	return db, nil
}

// LoadAggregates groups every message by its handle's identifier and
// returns sent/received counts and the raw first/last timestamps,
// ordered by total message count descending.
func LoadAggregates(path string) ([]Aggregate, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return fetchAggregates(db)
}

// LoadImageStats scans image attachments (mime type image/*) and
// accumulates per-identifier counts by direction plus total byte volume.
func LoadImageStats(path string) (map[string]ImageStats, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := fetchImageAttachments(db)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]ImageStats)
	for _, r := range rows {
		s := stats[r.Identifier]
		if r.FromMe {
			s.Sent++
		} else {
			s.Received++
		}
		s.TotalBytes += r.ByteSize
		stats[r.Identifier] = s
	}
	return stats, nil
}
