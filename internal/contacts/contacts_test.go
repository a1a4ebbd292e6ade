package contacts

import (
	"errors"
	"testing"

	"github.com/mstone/msgstats/internal/sqliteutil"
	"github.com/mstone/msgstats/internal/testutil"
)

func TestLoadAndResolve(t *testing.T) {
	ab := testutil.NewAddressBookDB(t, true)
	jane := ab.AddPerson("Jane", "Doe", nil)
	ab.AddPhone(jane, "+1 (555) 123-4567")
	ab.AddEmail(jane, "Jane@Example.COM")
	bob := ab.AddPerson("Bob", "", nil)
	ab.AddPhone(bob, "555-987-6543")

	book, err := Load(ab.Path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		identifier string
		want       string
	}{
		{"+15551234567", "Jane Doe"},
		{"5551234567", "Jane Doe"},
		{"jane@example.com", "Jane Doe"},
		{"JANE@EXAMPLE.COM", "Jane Doe"},
		{"5559876543", "Bob"},
		{"+15550000000", "Unknown"},
	}
	for _, tt := range tests {
		if got := book.DisplayName(tt.identifier); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.identifier, got, tt.want)
		}
	}
}

// A contact stored without a country code must still match a message
// store identifier that carries one, and vice versa, via the last-10
// suffix keys.
func TestSuffixMatching(t *testing.T) {
	ab := testutil.NewAddressBookDB(t, true)
	p := ab.AddPerson("Jane", "Doe", nil)
	ab.AddPhone(p, "15551234567")

	book, err := Load(ab.Path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Extra leading digits beyond the US country-code rule still resolve
	// through the suffix key.
	if got := book.DisplayName("445551234567"); got != "Jane Doe" {
		t.Errorf("suffix lookup = %q, want Jane Doe", got)
	}
}

func TestEmptyNameFallsBackToUnknown(t *testing.T) {
	ab := testutil.NewAddressBookDB(t, true)
	p := ab.AddPerson("", "", nil)
	ab.AddPhone(p, "5551234567")

	book, err := Load(ab.Path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, ok := book.Resolve("5551234567")
	if !ok {
		t.Fatal("contact should resolve")
	}
	if c.DisplayName != "Unknown" {
		t.Errorf("display name = %q, want Unknown", c.DisplayName)
	}
}

// When two rows normalize to the same key, the one carrying avatar data
// wins; otherwise the first row seen wins.
func TestCollisionRules(t *testing.T) {
	ab := testutil.NewAddressBookDB(t, true)
	first := ab.AddPerson("First", "Seen", nil)
	ab.AddPhone(first, "5551234567")
	second := ab.AddPerson("Has", "Avatar", []byte{0x89, 0x50})
	ab.AddPhone(second, "+15551234567")
	third := ab.AddPerson("Also", "Plain", nil)
	ab.AddPhone(third, "1-555-123-4567")

	book, err := Load(ab.Path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, ok := book.Resolve("5551234567")
	if !ok {
		t.Fatal("contact should resolve")
	}
	if c.DisplayName != "Has Avatar" {
		t.Errorf("display name = %q, want the avatar-carrying entry to win", c.DisplayName)
	}
	if len(c.Avatar) == 0 {
		t.Error("avatar bytes should be present")
	}
}

func TestFirstSeenWinsWithoutAvatars(t *testing.T) {
	ab := testutil.NewAddressBookDB(t, true)
	first := ab.AddPerson("First", "Seen", nil)
	ab.AddPhone(first, "5551234567")
	second := ab.AddPerson("Second", "Seen", nil)
	ab.AddPhone(second, "+15551234567")

	book, err := Load(ab.Path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := book.DisplayName("5551234567"); got != "First Seen" {
		t.Errorf("display name = %q, want First Seen", got)
	}
}

// Address books predating the avatar column must still load.
func TestLoadWithoutAvatarColumn(t *testing.T) {
	ab := testutil.NewAddressBookDB(t, false)
	p := ab.AddPerson("Jane", "Doe", nil)
	ab.AddPhone(p, "5551234567")

	book, err := Load(ab.Path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, ok := book.Resolve("5551234567")
	if !ok {
		t.Fatal("contact should resolve")
	}
	if c.Avatar != nil {
		t.Errorf("avatar = %v, want nil", c.Avatar)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir() + "/AddressBook.sqlitedb")
	var nf *sqliteutil.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestLoadWrongSchema(t *testing.T) {
	// A message store is not an address book.
	m := testutil.NewMessageDB(t)
	_, err := Load(m.Path)
	var se *sqliteutil.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("want SchemaError, got %v", err)
	}
}
