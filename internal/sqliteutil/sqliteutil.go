// Package sqliteutil holds the shared plumbing for reading the SQLite
// databases found inside a phone backup: read-only connection setup and
// schema probing with typed errors for the two failure modes every stage
// shares (file missing, expected table missing).
package sqliteutil

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// NotFoundError reports a required database file that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("required file not found at %s", e.Path)
}

// SchemaError reports a database that exists but lacks an expected table.
// Available lists the tables actually present so a corrupt or foreign
// database can be diagnosed from the error message alone.
type SchemaError struct {
	Path      string
	Wanted    []string
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("no table named %s in %s (available tables: %s)",
		strings.Join(e.Wanted, ", "), e.Path, strings.Join(e.Available, ", "))
}

// OpenReadOnly opens the SQLite database at path read-only. The backup's
// databases are never written to. Returns a NotFoundError when the file
// does not exist; the sqlite driver would otherwise create an empty one.
func OpenReadOnly(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	// Use a file: URI to safely handle paths containing '?' or other
	// special characters.
	dsn := (&url.URL{
		Scheme:   "file",
		OmitHost: true,
		Path:     path,
		RawQuery: "mode=ro&_busy_timeout=5000",
	}).String()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	return db, nil
}

// Tables returns the names of all tables in the database.
func Tables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// HasTable reports whether a table with the exact given name exists.
// The sqlite_master lookup uses BINARY collation, so "Files" and "files"
// are distinct names here even though queries against either would work.
func HasTable(db *sql.DB, name string) (bool, error) {
	var got string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, name,
	).Scan(&got)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probe table %s: %w", name, err)
	}
	return true, nil
}

// Columns returns the column names of a table, in declaration order.
func Columns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			dfltValue  sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &primaryKey); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}
