// Package summarize holds note summary records.
package summarize

import (
	"fmt"
	"time"
)

// Record is one summarization, stored in history.
type Record struct {
	ID           string    `json:"id"`
	OriginalText string    `json:"originalText"`
	Summary      string    `json:"summary"`
	Timestamp    time.Time `json:"timestamp"`
}

// RecordID implements history.Record.
func (r Record) RecordID() string { return r.ID }

// NewRecord builds a record with a time-based id.
func NewRecord(original, summary string) Record {
	now := time.Now()
	return Record{
		ID:           fmt.Sprintf("%d", now.UnixMilli()),
		OriginalText: original,
		Summary:      summary,
		Timestamp:    now,
	}
}
