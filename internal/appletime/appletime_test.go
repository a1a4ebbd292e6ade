package appletime

import (
	"testing"
	"time"
)

// rawFor converts a calendar time into the store's raw nanosecond form.
func rawFor(t time.Time) int64 {
	return t.Sub(time.Unix(Epoch, 0).UTC()).Nanoseconds()
}

func TestConvert(t *testing.T) {
	want := time.Date(2024, time.March, 15, 12, 30, 0, 0, time.UTC)
	got := Convert(rawFor(want))
	if !got.Equal(want) {
		t.Errorf("Convert = %v, want %v", got, want)
	}
}

func TestConvertEpoch(t *testing.T) {
	got := Convert(0)
	want := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Convert(0) = %v, want %v", got, want)
	}
}

func TestFormatDate(t *testing.T) {
	raw := rawFor(time.Date(2023, time.July, 4, 9, 0, 0, 0, time.UTC))
	if got := FormatDate(raw); got != "July 04, 2023" {
		t.Errorf("FormatDate = %q, want %q", got, "July 04, 2023")
	}
}

func TestFormatDateSentinel(t *testing.T) {
	if got := FormatDate(0); got != NA {
		t.Errorf("FormatDate(0) = %q, want %q", got, NA)
	}
	if got := FormatDate(-5); got != NA {
		t.Errorf("FormatDate(-5) = %q, want %q", got, NA)
	}
}

func TestDaysBetween(t *testing.T) {
	first := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		last time.Time
		want int
	}{
		{first, 0},
		{first.Add(23 * time.Hour), 0},
		{first.AddDate(0, 0, 4), 4},
		{first.AddDate(0, 0, -1), 0},
	}
	for _, tt := range tests {
		if got := DaysBetween(first, tt.last); got != tt.want {
			t.Errorf("DaysBetween(%v, %v) = %d, want %d", first, tt.last, got, tt.want)
		}
	}
}
