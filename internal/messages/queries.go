package messages

import (
	"database/sql"
	"fmt"
)

func fetchAggregates(db *sql.DB) ([]Aggregate, error) {
	rows, err := db.Query(`
		SELECT
			h.id,
			SUM(CASE WHEN m.is_from_me = 1 THEN 1 ELSE 0 END) AS sent_count,
			SUM(CASE WHEN m.is_from_me = 0 THEN 1 ELSE 0 END) AS received_count,
			COALESCE(MIN(m.date), 0),
			COALESCE(MAX(m.date), 0)
		FROM message m
		JOIN handle h ON m.handle_id = h.ROWID
		GROUP BY h.id
		ORDER BY sent_count + received_count DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("fetch aggregates: %w", err)
	}
	defer rows.Close()

	var aggs []Aggregate
	for rows.Next() {
		var a Aggregate
		if err := rows.Scan(
			&a.Identifier, &a.SentCount, &a.ReceivedCount, &a.FirstRaw, &a.LastRaw,
		); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		aggs = append(aggs, a)
	}
	return aggs, rows.Err()
}

// imageAttachmentRow is one image attachment joined back to the sender
// identifier and direction of its message.
type imageAttachmentRow struct {
	Identifier string
	FromMe     bool
	ByteSize   int64
}

func fetchImageAttachments(db *sql.DB) ([]imageAttachmentRow, error) {
	rows, err := db.Query(`
		SELECT
			h.id,
			COALESCE(m.is_from_me, 0),
			COALESCE(a.total_bytes, 0)
		FROM message m
		JOIN handle h ON m.handle_id = h.ROWID
		JOIN message_attachment_join maj ON m.ROWID = maj.message_id
		JOIN attachment a ON maj.attachment_id = a.ROWID
		WHERE a.mime_type LIKE 'image/%'
	`)
	if err != nil {
		return nil, fmt.Errorf("fetch image attachments: %w", err)
	}
	defer rows.Close()

	var result []imageAttachmentRow
	for rows.Next() {
		var (
			r      imageAttachmentRow
			fromMe int
		)
		if err := rows.Scan(&r.Identifier, &fromMe, &r.ByteSize); err != nil {
			return nil, fmt.Errorf("scan image attachment: %w", err)
		}
		r.FromMe = fromMe == 1
		result = append(result, r)
	}
	return result, rows.Err()
}
