// Package report joins the per-identifier message aggregates with
// contact resolution and image statistics into the final per-contact
// conversation summaries.
package report

import (
	"sort"
	"time"

	"github.com/mstone/msgstats/internal/appletime"
	"github.com/mstone/msgstats/internal/contacts"
	"github.com/mstone/msgstats/internal/identity"
	"github.com/mstone/msgstats/internal/messages"
)

// Summary is the compiled record for one contact. Multiple raw
// identifiers (a phone and an email, say) can collapse into one Summary
// once their display names are cleaned; their counts are summed and
// their date range widened during compilation, never overwritten.
type Summary struct {
	ContactName     string
	SentCount       int
	ReceivedCount   int
	FirstRaw        int64
	LastRaw         int64
	AvgPerDay       float64
	ImagesSent      int
	ImagesReceived  int
	TotalImageBytes int64
}

// TotalMessages is the sort key for presentation.
func (s Summary) TotalMessages() int { return s.SentCount + s.ReceivedCount }

// First returns the first-message time; only meaningful when FirstRaw > 0.
func (s Summary) First() time.Time { return appletime.Convert(s.FirstRaw) }

// Last returns the last-message time; only meaningful when LastRaw > 0.
func (s Summary) Last() time.Time { return appletime.Convert(s.LastRaw) }

// FirstDate renders the first-message date, or "N/A" for missing data.
func (s Summary) FirstDate() string { return appletime.FormatDate(s.FirstRaw) }

// LastDate renders the last-message date, or "N/A" for missing data.
func (s Summary) LastDate() string { return appletime.FormatDate(s.LastRaw) }

// Compile merges the aggregates into per-contact summaries keyed by
// cleaned display name and computes each contact's average messages per
// day over the inclusive first-to-last span. Output is ordered by total
// message count descending.
func Compile(aggs []messages.Aggregate, images map[string]messages.ImageStats, book *contacts.Book) []Summary {
	merged := make(map[string]*Summary)

	for _, a := range aggs {
		name := identity.CleanName(book.DisplayName(a.Identifier))
		img := images[a.Identifier]

		s, ok := merged[name]
		if !ok {
			s = &Summary{ContactName: name}
			merged[name] = s
		}
		s.SentCount += a.SentCount
		s.ReceivedCount += a.ReceivedCount
		s.ImagesSent += img.Sent
		s.ImagesReceived += img.Received
		s.TotalImageBytes += img.TotalBytes
		if a.FirstRaw > 0 && (s.FirstRaw == 0 || a.FirstRaw < s.FirstRaw) {
			s.FirstRaw = a.FirstRaw
		}
		if a.LastRaw > s.LastRaw {
			s.LastRaw = a.LastRaw
		}
	}

	result := make([]Summary, 0, len(merged))
	for _, s := range merged {
		s.AvgPerDay = avgPerDay(*s)
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalMessages() != result[j].TotalMessages() {
			return result[i].TotalMessages() > result[j].TotalMessages()
		}
		return result[i].ContactName < result[j].ContactName
	})
	return result
}

// avgPerDay divides the contact's total messages over the inclusive
// number of days between first and last message. A contact whose
// timestamps are missing gets 0 rather than a rate over a bogus span.
func avgPerDay(s Summary) float64 {
	if s.FirstRaw <= 0 || s.LastRaw <= 0 {
		return 0
	}
	days := appletime.DaysBetween(s.First(), s.Last()) + 1
	if days < 1 {
		days = 1
	}
	return float64(s.TotalMessages()) / float64(days)
}
