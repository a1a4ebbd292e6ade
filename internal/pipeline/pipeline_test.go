package pipeline

import (
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mstone/msgstats/internal/appletime"
	"github.com/mstone/msgstats/internal/testutil"
)

func rawFor(t time.Time) int64 {
	return t.Sub(time.Unix(appletime.Epoch, 0).UTC()).Nanoseconds()
}

// makeBackup assembles a backup directory around the two fixture
// databases: a Manifest.db index plus the content-addressed blobs.
func makeBackup(t *testing.T, smsPath, abPath string) string {
	t.Helper()
	root := t.TempDir()

	blobs := map[string]struct {
		id  string
		src string
	}{
		"Library/SMS/sms.db":                       {id: "ab12345678", src: smsPath},
		"Library/AddressBook/AddressBook.sqlitedb": {id: "cd98765432", src: abPath},
	}

	db, err := sql.Open("sqlite3", filepath.Join(root, "Manifest.db"))
	testutil.MustNoErr(t, err, "open manifest")
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE Files (fileID TEXT, domain TEXT, relativePath TEXT)`)
	testutil.MustNoErr(t, err, "create Files table")

	for rel, blob := range blobs {
		_, err = db.Exec(`INSERT INTO Files (fileID, domain, relativePath) VALUES (?, 'HomeDomain', ?)`,
			blob.id, rel)
		testutil.MustNoErr(t, err, "insert manifest row")

		data, err := os.ReadFile(blob.src)
		testutil.MustNoErr(t, err, "read fixture db")
		shard := filepath.Join(root, blob.id[:2])
		testutil.MustNoErr(t, os.MkdirAll(shard, 0o755), "mkdir shard")
		testutil.MustNoErr(t, os.WriteFile(filepath.Join(shard, blob.id), data, 0o644), "write blob")
	}
	return root
}

func quietOpts(t *testing.T, backupDir string) Options {
	t.Helper()
	return Options{
		BackupDir: backupDir,
		ExportDir: t.TempDir(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunEndToEnd(t *testing.T) {
	ab := testutil.NewAddressBookDB(t, true)
	jane := ab.AddPerson("Jane", "Doe", nil)
	ab.AddPhone(jane, "555-123-4567")

	m := testutil.NewMessageDB(t)
	h := m.AddHandle("+15551234567")
	jan := func(d int) int64 {
		return rawFor(time.Date(2024, time.January, d, 12, 0, 0, 0, time.UTC))
	}
	m.AddMessage(testutil.Msg{GUID: "g1", HandleID: h, FromMe: true, Date: jan(1)})
	m.AddMessage(testutil.Msg{GUID: "g2", HandleID: h, FromMe: true, Date: jan(2)})
	m.AddMessage(testutil.Msg{GUID: "g3", HandleID: h, FromMe: true, Date: jan(3)})
	m.AddMessage(testutil.Msg{GUID: "g4", HandleID: h, FromMe: false, Date: jan(4)})
	m.AddMessage(testutil.Msg{GUID: "g5", HandleID: h, FromMe: false, Date: jan(5)})

	chat := m.AddChat(43, "chat42", "Trip Planning")
	m.LinkHandle(chat, h)
	gm := m.AddMessage(testutil.Msg{GUID: "gc1", HandleID: h, Date: jan(2)})
	m.LinkMessage(chat, gm)

	opts := quietOpts(t, makeBackup(t, m.Path, ab.Path))

	result, err := Run(opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.Conversations) != 1 {
		t.Fatalf("got %d conversations, want 1: %+v", len(result.Conversations), result.Conversations)
	}
	s := result.Conversations[0]
	if s.ContactName != "Jane Doe" {
		t.Errorf("contact = %q, want Jane Doe", s.ContactName)
	}
	if s.SentCount != 3 || s.ReceivedCount != 2 {
		t.Errorf("counts = %d/%d, want 3/2", s.SentCount, s.ReceivedCount)
	}
	if s.AvgPerDay != 1.0 {
		t.Errorf("avg per day = %v, want 1.0", s.AvgPerDay)
	}

	if len(result.GroupChats) != 1 || result.GroupChats[0].DisplayName != "Trip Planning" {
		t.Errorf("group chats = %+v, want one named Trip Planning", result.GroupChats)
	}
	if !Extracted(opts) {
		t.Error("export dir should contain both databases after Run")
	}
}

func TestRunMissingBackup(t *testing.T) {
	opts := quietOpts(t, t.TempDir())
	if _, err := Run(opts); err == nil {
		t.Fatal("want error for empty backup directory")
	}
}

func TestAnalyzeGroupChatLogsDangling(t *testing.T) {
	ab := testutil.NewAddressBookDB(t, true)
	p := ab.AddPerson("Jane", "Doe", nil)
	ab.AddPhone(p, "5551234567")

	m := testutil.NewMessageDB(t)
	h := m.AddHandle("+15551234567")
	chat := m.AddChat(43, "chat42", "Trip Planning")
	m.LinkHandle(chat, h)

	orig := m.AddMessage(testutil.Msg{GUID: "g1", HandleID: h, Date: 1e9})
	m.LinkMessage(chat, orig)
	react := m.AddMessage(testutil.Msg{GUID: "g2", FromMe: true, Date: 2e9, AssocGUID: "p:0/missing", AssocType: 2000})
	m.LinkMessage(chat, react)

	opts := quietOpts(t, makeBackup(t, m.Path, ab.Path))
	if _, err := Extract(opts); err != nil {
		t.Fatalf("extract: %v", err)
	}

	analysis, err := AnalyzeGroupChat(opts, chat)
	if err != nil {
		t.Fatalf("analyze group chat: %v", err)
	}
	if len(analysis.Dangling) != 1 {
		t.Errorf("dangling = %+v, want one entry", analysis.Dangling)
	}
}
