package model

import "time"

// IngestBatch records one export-file ingestion.
type IngestBatch struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"` // file path or FTP object name
	Records   int       `json:"records"`
	CreatedAt time.Time `json:"created_at"`
}

// IngestSummary counts row-level outcomes of a normalization pass.
// Malformed rows are expected in venue exports; they are counted and
// skipped, never fatal.
type IngestSummary struct {
	RowsRead     int `json:"rows_read"`
	Parsed       int `json:"parsed"`
	DroppedDates int `json:"dropped_dates"` // unparsable purchase timestamp
	Excluded     int `json:"excluded"`      // matched an excluded pattern
	Senior       int `json:"senior"`        // senior-category events are not processed
	Clamped      int `json:"clamped"`       // purchase after inferred event date
}
