package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// AddressBookDB is a file-backed fixture mimicking AddressBook.sqlitedb.
type AddressBookDB struct {
	Path string
	DB   *sql.DB
	T    testing.TB

	nextPersonID int64
}

// NewAddressBookDB creates an AddressBook.sqlitedb fixture in its own
// temp directory. When withAvatarCol is true the ABPerson table carries
// an ImageData blob column; otherwise it has no avatar column at all.
func NewAddressBookDB(t testing.TB, withAvatarCol bool) *AddressBookDB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "AddressBook.sqlitedb")
	db, err := sql.Open("sqlite3", path)
	MustNoErr(t, err, "open address book fixture")
	t.Cleanup(func() { db.Close() })

	personCols := `ROWID INTEGER PRIMARY KEY, First TEXT, Last TEXT`
	if withAvatarCol {
		personCols += `, ImageData BLOB`
	}
	_, err = db.Exec(`
		CREATE TABLE ABPerson (` + personCols + `);
		CREATE TABLE ABMultiValue (
			UID INTEGER PRIMARY KEY,
			record_id INTEGER,
			property INTEGER,
			value TEXT
		);
	`)
	MustNoErr(t, err, "create address book schema")

	return &AddressBookDB{Path: path, DB: db, T: t, nextPersonID: 1}
}

// AddPerson inserts a person record and returns its ROWID. avatar may be
// nil; it is ignored when the fixture has no avatar column.
func (ab *AddressBookDB) AddPerson(first, last string, avatar []byte) int64 {
	ab.T.Helper()
	id := ab.nextPersonID
	ab.nextPersonID++

	var err error
	if avatar != nil {
		_, err = ab.DB.Exec(
			`INSERT INTO ABPerson (ROWID, First, Last, ImageData) VALUES (?, ?, ?, ?)`,
			id, first, last, avatar)
	} else {
		_, err = ab.DB.Exec(
			`INSERT INTO ABPerson (ROWID, First, Last) VALUES (?, ?, ?)`,
			id, first, last)
	}
	MustNoErr(ab.T, err, "insert person")
	return id
}

// AddPhone registers a phone identifier for a person.
func (ab *AddressBookDB) AddPhone(personID int64, value string) {
	ab.T.Helper()
	_, err := ab.DB.Exec(
		`INSERT INTO ABMultiValue (record_id, property, value) VALUES (?, 3, ?)`,
		personID, value)
	MustNoErr(ab.T, err, "insert phone")
}

// AddEmail registers an email identifier for a person.
func (ab *AddressBookDB) AddEmail(personID int64, value string) {
	ab.T.Helper()
	_, err := ab.DB.Exec(
		`INSERT INTO ABMultiValue (record_id, property, value) VALUES (?, 4, ?)`,
		personID, value)
	MustNoErr(ab.T, err, "insert email")
}

// MessageDB is a file-backed fixture mimicking the sms.db message store.
type MessageDB struct {
	Path string
	DB   *sql.DB
	T    testing.TB

	nextHandleID  int64
	nextMessageID int64
	nextChatID    int64
	nextAttachID  int64
}

// NewMessageDB creates an sms.db fixture with the subset of the schema
// the pipeline reads: message, handle, chat, the join tables, and
// attachment.
func NewMessageDB(t testing.TB) *MessageDB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sms.db")
	db, err := sql.Open("sqlite3", path)
	MustNoErr(t, err, "open message store fixture")
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE handle (
			ROWID INTEGER PRIMARY KEY,
			id TEXT
		);
		CREATE TABLE message (
			ROWID INTEGER PRIMARY KEY,
			guid TEXT,
			handle_id INTEGER DEFAULT 0,
			is_from_me INTEGER DEFAULT 0,
			date INTEGER DEFAULT 0,
			associated_message_guid TEXT,
			associated_message_type INTEGER DEFAULT 0
		);
		CREATE TABLE chat (
			ROWID INTEGER PRIMARY KEY,
			guid TEXT,
			style INTEGER,
			chat_identifier TEXT,
			display_name TEXT
		);
		CREATE TABLE chat_message_join (
			chat_id INTEGER,
			message_id INTEGER
		);
		CREATE TABLE chat_handle_join (
			chat_id INTEGER,
			handle_id INTEGER
		);
		CREATE TABLE attachment (
			ROWID INTEGER PRIMARY KEY,
			mime_type TEXT,
			total_bytes INTEGER DEFAULT 0,
			filename TEXT
		);
		CREATE TABLE message_attachment_join (
			message_id INTEGER,
			attachment_id INTEGER
		);
	`)
	MustNoErr(t, err, "create message store schema")

	return &MessageDB{
		Path: path, DB: db, T: t,
		nextHandleID: 1, nextMessageID: 1, nextChatID: 1, nextAttachID: 1,
	}
}

// AddHandle inserts a handle (a raw sender identifier) and returns its ROWID.
func (m *MessageDB) AddHandle(identifier string) int64 {
	m.T.Helper()
	id := m.nextHandleID
	m.nextHandleID++
	_, err := m.DB.Exec(`INSERT INTO handle (ROWID, id) VALUES (?, ?)`, id, identifier)
	MustNoErr(m.T, err, "insert handle")
	return id
}

// Msg describes a message row to insert. A zero HandleID leaves the
// sender unresolved (as sms.db does for some group-chat rows).
type Msg struct {
	GUID       string
	HandleID   int64
	FromMe     bool
	Date       int64
	AssocGUID  string // associated_message_guid; empty means NULL
	AssocType  int64  // associated_message_type; zero means plain message
}

// AddMessage inserts a message row and returns its ROWID.
func (m *MessageDB) AddMessage(msg Msg) int64 {
	m.T.Helper()
	id := m.nextMessageID
	m.nextMessageID++

	fromMe := 0
	if msg.FromMe {
		fromMe = 1
	}
	var assocGUID interface{}
	if msg.AssocGUID != "" {
		assocGUID = msg.AssocGUID
	}
	_, err := m.DB.Exec(`
		INSERT INTO message (ROWID, guid, handle_id, is_from_me, date, associated_message_guid, associated_message_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, msg.GUID, msg.HandleID, fromMe, msg.Date, assocGUID, msg.AssocType)
	MustNoErr(m.T, err, "insert message")
	return id
}

// AddChat inserts a chat row and returns its ROWID. Group chats use
// style 43, one-on-one chats style 45.
func (m *MessageDB) AddChat(style int, identifier, displayName string) int64 {
	m.T.Helper()
	id := m.nextChatID
	m.nextChatID++
	_, err := m.DB.Exec(
		`INSERT INTO chat (ROWID, guid, style, chat_identifier, display_name) VALUES (?, ?, ?, ?, ?)`,
		id, identifier, style, identifier, displayName)
	MustNoErr(m.T, err, "insert chat")
	return id
}

// LinkMessage associates a message with a chat.
func (m *MessageDB) LinkMessage(chatID, messageID int64) {
	m.T.Helper()
	_, err := m.DB.Exec(
		`INSERT INTO chat_message_join (chat_id, message_id) VALUES (?, ?)`, chatID, messageID)
	MustNoErr(m.T, err, "insert chat_message_join")
}

// LinkHandle associates a handle with a chat as a participant.
func (m *MessageDB) LinkHandle(chatID, handleID int64) {
	m.T.Helper()
	_, err := m.DB.Exec(
		`INSERT INTO chat_handle_join (chat_id, handle_id) VALUES (?, ?)`, chatID, handleID)
	MustNoErr(m.T, err, "insert chat_handle_join")
}

// AddAttachment attaches a file of the given MIME type and size to a message.
func (m *MessageDB) AddAttachment(messageID int64, mimeType string, byteSize int64) {
	m.T.Helper()
	id := m.nextAttachID
	m.nextAttachID++
	_, err := m.DB.Exec(
		`INSERT INTO attachment (ROWID, mime_type, total_bytes, filename) VALUES (?, ?, ?, ?)`,
		id, mimeType, byteSize, "IMG_0001")
	MustNoErr(m.T, err, "insert attachment")
	_, err = m.DB.Exec(
		`INSERT INTO message_attachment_join (message_id, attachment_id) VALUES (?, ?)`,
		messageID, id)
	MustNoErr(m.T, err, "insert message_attachment_join")
}
