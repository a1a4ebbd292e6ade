package contacts

import (
	"database/sql"
	"fmt"
	"slices"

	"github.com/mstone/msgstats/internal/sqliteutil"
)

// contactRow is one identifier row joined with its person record.
type contactRow struct {
	Value  string
	First  string
	Last   string
	Avatar []byte
}

// findAvatarColumn returns the name of the ABPerson image blob column,
// or "" when no known variant exists.
func findAvatarColumn(db *sql.DB) (string, error) {
	cols, err := sqliteutil.Columns(db, "ABPerson")
	if err != nil {
		return "", err
	}
	for _, candidate := range avatarColumns {
		if slices.Contains(cols, candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// fetchContactRows reads every phone and email identifier with its
// person's name fields and, when the schema has one, the avatar blob.
func fetchContactRows(db *sql.DB, avatarCol string) ([]contactRow, error) {
	avatarExpr := "NULL"
	if avatarCol != "" {
		// Column name comes from the fixed avatarColumns list.
		avatarExpr = "p." + avatarCol
	}

	rows, err := db.Query(fmt.Sprintf(`
		SELECT
			COALESCE(mv.value, ''),
			COALESCE(p.First, ''),
			COALESCE(p.Last, ''),
			%s
		FROM ABMultiValue mv
		JOIN ABPerson p ON mv.record_id = p.ROWID
		WHERE mv.property IN (?, ?)
	`, avatarExpr), propertyPhone, propertyEmail)
	if err != nil {
		return nil, fmt.Errorf("query ABMultiValue: %w", err)
	}
	defer rows.Close()

	var result []contactRow
	for rows.Next() {
		var r contactRow
		if err := rows.Scan(&r.Value, &r.First, &r.Last, &r.Avatar); err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
