package results

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mstone/msgstats/internal/report"
)

// exportRecord is the JSON shape of one conversation summary. Dates are
// rendered as display strings ("N/A" when missing) so the file is
// directly presentable.
type exportRecord struct {
	ContactName      string  `json:"contact_name"`
	SentCount        int     `json:"sent_count"`
	ReceivedCount    int     `json:"received_count"`
	FirstMessageDate string  `json:"first_message_date"`
	LastMessageDate  string  `json:"last_message_date"`
	AvgPerDay        float64 `json:"avg_messages_per_day"`
	ImagesSent       int     `json:"images_sent"`
	ImagesReceived   int     `json:"images_received"`
	TotalImageBytes  int64   `json:"total_image_bytes"`
}

// WriteJSON writes the summaries to path as an indented JSON array.
func WriteJSON(path string, summaries []report.Summary) error {
	records := make([]exportRecord, len(summaries))
	for i, s := range summaries {
		records[i] = exportRecord{
			ContactName:      s.ContactName,
			SentCount:        s.SentCount,
			ReceivedCount:    s.ReceivedCount,
			FirstMessageDate: s.FirstDate(),
			LastMessageDate:  s.LastDate(),
			AvgPerDay:        s.AvgPerDay,
			ImagesSent:       s.ImagesSent,
			ImagesReceived:   s.ImagesReceived,
			TotalImageBytes:  s.TotalImageBytes,
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summaries: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
