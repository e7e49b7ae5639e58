// Package store persists normalized attendance records so analyses
// can run without re-parsing export files. Two backends: embedded
// SQLite (default) and Postgres.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/clubpulse/pacing-cli/internal/model"
)

// RecordFilter narrows a record listing.
type RecordFilter struct {
	Brand   string `json:"brand,omitempty"`
	Edition string `json:"edition,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// EditionCount is one row of the brand/edition inventory.
type EditionCount struct {
	Brand    string `json:"brand"`
	Edition  string `json:"edition"`
	Records  int    `json:"records"`
	Attended int    `json:"attended"`
}

// Store defines the persistence interface for attendance records.
type Store interface {
	InsertBatch(ctx context.Context, batch model.IngestBatch, records []model.AttendanceRecord) error
	ListRecords(ctx context.Context, filter RecordFilter) ([]model.AttendanceRecord, error)
	ListBatches(ctx context.Context) ([]model.IngestBatch, error)
	ListEditions(ctx context.Context) ([]EditionCount, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
