package sqliteutil

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func newTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`
		CREATE TABLE Files (fileID TEXT, relativePath TEXT, domain TEXT);
		CREATE TABLE Properties (key TEXT, value TEXT);
	`); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return path
}

func TestOpenReadOnlyMissing(t *testing.T) {
	_, err := OpenReadOnly(filepath.Join(t.TempDir(), "nope.db"))
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestOpenReadOnlyRejectsWrites(t *testing.T) {
	path := newTestFile(t)
	db, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`INSERT INTO Properties (key, value) VALUES ('a', 'b')`); err == nil {
		t.Error("insert on read-only connection should fail")
	}
}

func TestTables(t *testing.T) {
	path := newTestFile(t)
	db, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	got, err := Tables(db)
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	want := []string{"Files", "Properties"}
	if len(got) != len(want) {
		t.Fatalf("tables = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tables[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHasTableExactCase(t *testing.T) {
	path := newTestFile(t)
	db, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	ok, err := HasTable(db, "Files")
	if err != nil || !ok {
		t.Errorf("HasTable(Files) = %v, %v; want true", ok, err)
	}
	ok, err = HasTable(db, "files")
	if err != nil || ok {
		t.Errorf("HasTable(files) = %v, %v; want false", ok, err)
	}
}

func TestColumns(t *testing.T) {
	path := newTestFile(t)
	db, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	cols, err := Columns(db, "Files")
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	want := []string{"fileID", "relativePath", "domain"}
	if len(cols) != len(want) {
		t.Fatalf("columns = %v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("columns[%d] = %q, want %q", i, cols[i], want[i])
		}
	}
}

func TestSchemaErrorMessage(t *testing.T) {
	err := &SchemaError{
		Path:      "/tmp/Manifest.db",
		Wanted:    []string{"Files", "files"},
		Available: []string{"Properties", "Metadata"},
	}
	msg := err.Error()
	for _, sub := range []string{"Files", "Properties", "Metadata", "/tmp/Manifest.db"} {
		if !strings.Contains(msg, sub) {
			t.Errorf("error message %q missing %q", msg, sub)
		}
	}
}
