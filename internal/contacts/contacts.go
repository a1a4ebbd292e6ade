// Package contacts builds a lookup from normalized identifier (phone or
// email) to display name and avatar, from the AddressBook.sqlitedb copied
// out of a backup.
package contacts

import (
	"fmt"
	"strings"

	"github.com/mstone/msgstats/internal/identity"
	"github.com/mstone/msgstats/internal/sqliteutil"
)

// ABMultiValue property codes for the identifier kinds we care about.
const (
	propertyPhone = 3
	propertyEmail = 4
)

// avatarColumns are the known names of the ABPerson image blob column,
// probed in order. Older address book versions lack the column entirely,
// in which case contacts simply carry no avatar.
var avatarColumns = []string{"ImageData", "Image"}

// Contact is a resolved address book entry.
type Contact struct {
	DisplayName string
	Avatar      []byte
}

// Book maps every normalized form an identifier might appear under to
// its contact. Phone numbers are registered under both their full
// normalized form and their last-10-digit suffix.
type Book struct {
	byKey map[string]Contact
}

// Load reads the address book at path and builds the lookup.
func Load(path string) (*Book, error) {
	db, err := sqliteutil.OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	for _, table := range []string{"ABPerson", "ABMultiValue"} {
		ok, err := sqliteutil.HasTable(db, table)
		if err != nil {
			return nil, err
		}
		if !ok {
			available, err := sqliteutil.Tables(db)
			if err != nil {
				return nil, err
			}
			return nil, &sqliteutil.SchemaError{
				Path:      path,
				Wanted:    []string{table},
				Available: available,
			}
		}
	}

	avatarCol, err := findAvatarColumn(db)
	if err != nil {
		return nil, err
	}

	rows, err := fetchContactRows(db, avatarCol)
	if err != nil {
		return nil, fmt.Errorf("fetch contacts from %s: %w", path, err)
	}

	book := &Book{byKey: make(map[string]Contact, len(rows))}
	for _, r := range rows {
		if r.Value == "" {
			continue
		}
		name := strings.TrimSpace(strings.TrimSpace(r.First) + " " + strings.TrimSpace(r.Last))
		if name == "" {
			name = identity.Unknown
		}
		c := Contact{DisplayName: name, Avatar: r.Avatar}

		if strings.Contains(r.Value, "@") {
			book.register(identity.Normalize(r.Value), c)
			continue
		}
		normalized := identity.Normalize(r.Value)
		book.register(normalized, c)
		if suffix := identity.Suffix10(normalized); suffix != "" {
			book.register(suffix, c)
		}
	}
	return book, nil
}

// register applies the collision rule: an entry carrying avatar data
// replaces one without, otherwise the first entry seen for a key wins.
func (b *Book) register(key string, c Contact) {
	existing, ok := b.byKey[key]
	if !ok {
		b.byKey[key] = c
		return
	}
	if len(existing.Avatar) == 0 && len(c.Avatar) > 0 {
		b.byKey[key] = c
	}
}

// Resolve looks up an identifier as it appears in the message store,
// trying the full normalized form first and then the last-10-digit
// suffix (numbers are recorded with and without country codes).
func (b *Book) Resolve(identifier string) (Contact, bool) {
	normalized := identity.Normalize(identifier)
	if c, ok := b.byKey[normalized]; ok {
		return c, true
	}
	if suffix := identity.Suffix10(normalized); suffix != "" {
		if c, ok := b.byKey[suffix]; ok {
			return c, true
		}
	}
	return Contact{}, false
}

// DisplayName resolves an identifier to a display name, falling back to
// Unknown for anything not in the address book.
func (b *Book) DisplayName(identifier string) string {
	if c, ok := b.Resolve(identifier); ok {
		return c.DisplayName
	}
	return identity.Unknown
}

// Len returns the number of registered lookup keys.
func (b *Book) Len() int { return len(b.byKey) }
