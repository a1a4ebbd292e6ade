// Package backup reads the on-disk layout of a local iPhone backup: the
// Manifest.db file index, the content-addressed blob store it points
// into, and the Info.plist metadata describing the device.
package backup

import (
	"fmt"
	"path/filepath"

	"github.com/mstone/msgstats/internal/sqliteutil"
)

// ManifestEntry maps a logical relative path inside the device filesystem
// to the content identifier under which the backup stores its bytes.
type ManifestEntry struct {
	LogicalPath string
	ContentID   string
}

// manifestTables are the known names of the file-index table, probed in
// priority order. Backups written by different OS versions disagree on
// the casing.
var manifestTables = []string{"Files", "files", "File", "file"}

// homeDomain restricts the index to app/user files; system domains never
// contain the message or contact stores.
const homeDomain = "HomeDomain"

// ResolveManifest reads <root>/Manifest.db and returns every HomeDomain
// entry with a non-empty relative path. Returns sqliteutil.NotFoundError
// when Manifest.db is absent and sqliteutil.SchemaError (listing the
// tables actually present) when no known file-index table exists.
func ResolveManifest(root string) ([]ManifestEntry, error) {
	path := filepath.Join(root, "Manifest.db")
	db, err := sqliteutil.OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var table string
	for _, candidate := range manifestTables {
		ok, err := sqliteutil.HasTable(db, candidate)
		if err != nil {
			return nil, err
		}
		if ok {
			table = candidate
			break
		}
	}
	if table == "" {
		available, err := sqliteutil.Tables(db)
		if err != nil {
			return nil, err
		}
		return nil, &sqliteutil.SchemaError{
			Path:      path,
			Wanted:    manifestTables,
			Available: available,
		}
	}

	// The table name comes from the fixed candidate list above, never
	// from user input.
	rows, err := db.Query(fmt.Sprintf(
		`SELECT fileID, relativePath FROM %s WHERE domain = ?`, table,
	), homeDomain)
	if err != nil {
		return nil, fmt.Errorf("query %s in %s: %w", table, path, err)
	}
	defer rows.Close()

	var entries []ManifestEntry
	for rows.Next() {
		var id, rel string
		if err := rows.Scan(&id, &rel); err != nil {
			return nil, fmt.Errorf("scan manifest row: %w", err)
		}
		if rel == "" {
			continue
		}
		entries = append(entries, ManifestEntry{LogicalPath: rel, ContentID: id})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read manifest rows: %w", err)
	}
	return entries, nil
}
