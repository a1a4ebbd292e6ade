package groupchat

import (
	"database/sql"
	"fmt"

	"github.com/mstone/msgstats/internal/sqliteutil"
)

// styleGroup is the chat.style value for group conversations; one-on-one
// chats use 45.
const styleGroup = 43

var requiredTables = []string{
	"message", "handle", "chat", "chat_message_join", "chat_handle_join",
}

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

// chatRow is one group chat record.
type chatRow struct {
	RowID       int64
	Identifier  string
	DisplayName string
}

func fetchGroupChats(db *sql.DB) ([]chatRow, error) {
	rows, err := db.Query(`
		SELECT c.ROWID, COALESCE(c.chat_identifier, ''), COALESCE(c.display_name, '')
		FROM chat c
		WHERE c.style = ?
		ORDER BY c.ROWID
	`, styleGroup)
	if err != nil {
		return nil, fmt.Errorf("fetch group chats: %w", err)
	}
	defer rows.Close()

	var chats []chatRow
	for rows.Next() {
		var c chatRow
		if err := rows.Scan(&c.RowID, &c.Identifier, &c.DisplayName); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// chatTotals is the single-pass message aggregate for one chat.
type chatTotals struct {
	Count    int
	FirstRaw int64
	LastRaw  int64
}

func fetchChatTotals(db *sql.DB) (map[int64]chatTotals, error) {
	rows, err := db.Query(`
		SELECT cmj.chat_id, COUNT(*), COALESCE(MIN(m.date), 0), COALESCE(MAX(m.date), 0)
		FROM chat_message_join cmj
		JOIN message m ON cmj.message_id = m.ROWID
		GROUP BY cmj.chat_id
	`)
	if err != nil {
		return nil, fmt.Errorf("fetch chat totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[int64]chatTotals)
	for rows.Next() {
		var (
			chatID int64
			t      chatTotals
		)
		if err := rows.Scan(&chatID, &t.Count, &t.FirstRaw, &t.LastRaw); err != nil {
			return nil, fmt.Errorf("scan chat totals: %w", err)
		}
		totals[chatID] = t
	}
	return totals, rows.Err()
}

func fetchChatParticipants(db *sql.DB) (map[int64][]string, error) {
	rows, err := db.Query(`
		SELECT chj.chat_id, h.id
		FROM chat_handle_join chj
		JOIN handle h ON chj.handle_id = h.ROWID
		ORDER BY chj.chat_id, h.id
	`)
	if err != nil {
		return nil, fmt.Errorf("fetch chat participants: %w", err)
	}
	defer rows.Close()

	participants := make(map[int64][]string)
	for rows.Next() {
		var (
			chatID     int64
			identifier string
		)
		if err := rows.Scan(&chatID, &identifier); err != nil {
			return nil, fmt.Errorf("scan chat participant: %w", err)
		}
		participants[chatID] = append(participants[chatID], identifier)
	}
	return participants, rows.Err()
}

// messageRow is one message of a target chat with everything the
// two-pass analysis needs. Field order matches the query columns.
type messageRow struct {
	RowID      int64
	GUID       string
	FromMe     bool
	Identifier string // raw handle identifier; empty when the sender is unresolved
	DateRaw    int64
	AssocGUID  string // referenced GUID for reactions; empty otherwise
	AssocType  int64  // reaction type code; zero for plain messages
}

// fetchChatMessages returns every message in the chat in ascending
// timestamp order. The LEFT JOIN keeps rows whose handle is missing;
// those senders are attributed to the unknown participant.
func fetchChatMessages(db *sql.DB, chatID int64) ([]messageRow, error) {
	rows, err := db.Query(`
		SELECT
			m.ROWID,
			COALESCE(m.guid, ''),
			COALESCE(m.is_from_me, 0),
			COALESCE(h.id, ''),
			COALESCE(m.date, 0),
			COALESCE(m.associated_message_guid, ''),
			COALESCE(m.associated_message_type, 0)
		FROM message m
		JOIN chat_message_join cmj ON cmj.message_id = m.ROWID
		LEFT JOIN handle h ON m.handle_id = h.ROWID
		WHERE cmj.chat_id = ?
		ORDER BY m.date ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("fetch chat %d messages: %w", chatID, err)
	}
	defer rows.Close()

	var result []messageRow
	for rows.Next() {
		var (
			r      messageRow
			fromMe int
		)
		if err := rows.Scan(
			&r.RowID, &r.GUID, &fromMe, &r.Identifier,
			&r.DateRaw, &r.AssocGUID, &r.AssocType,
		); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		r.FromMe = fromMe == 1
		result = append(result, r)
	}
	return result, rows.Err()
}
