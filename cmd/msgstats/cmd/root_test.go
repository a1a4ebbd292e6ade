package cmd

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a very long contact name", 10, "a very lo…"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestTapbackLine(t *testing.T) {
	got := tapbackLine(map[string]int{
		"Heart":     3,
		"Laugh":     1,
		"Thumbs Up": 3,
	})
	// Count descending, label ascending on ties.
	want := "Heart:3 Thumbs Up:3 Laugh:1"
	if got != want {
		t.Errorf("tapbackLine = %q, want %q", got, want)
	}

	if got := tapbackLine(nil); got != "" {
		t.Errorf("tapbackLine(nil) = %q, want empty", got)
	}
}
