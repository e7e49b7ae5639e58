package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/clubpulse/pacing-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures
// WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS ingest_batches (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	records    INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS records (
	id             TEXT PRIMARY KEY,
	batch_id       TEXT NOT NULL REFERENCES ingest_batches(id),
	raw_event_name TEXT NOT NULL,
	brand          TEXT NOT NULL,
	edition        TEXT NOT NULL,
	category       TEXT NOT NULL,
	genres         TEXT,
	venue          TEXT,
	purchase_date  TEXT NOT NULL,
	scan_date      TEXT,
	attended       INTEGER NOT NULL DEFAULT 0,
	event_date     TEXT,
	days_before    INTEGER,
	first_name     TEXT,
	last_name      TEXT,
	email          TEXT,
	phone          TEXT,
	birth_date     TEXT,
	gender         TEXT
);

CREATE INDEX IF NOT EXISTS idx_records_brand_edition ON records(brand, edition);
CREATE INDEX IF NOT EXISTS idx_records_batch ON records(batch_id);
CREATE INDEX IF NOT EXISTS idx_records_email ON records(email);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertBatch stores the batch row and its records in one transaction.
func (s *SQLiteStore) InsertBatch(ctx context.Context, batch model.IngestBatch, records []model.AttendanceRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_batches (id, source, records, created_at) VALUES (?, ?, ?, ?)`,
		batch.ID, batch.Source, len(records), batch.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert batch")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records
		(id, batch_id, raw_event_name, brand, edition, category, genres, venue,
		 purchase_date, scan_date, attended, event_date, days_before,
		 first_name, last_name, email, phone, birth_date, gender)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for _, r := range records {
		genres, err := json.Marshal(r.Genres)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal genres")
		}
		_, err = stmt.ExecContext(ctx,
			r.ID, batch.ID, r.RawEventName, r.Brand, r.Edition, string(r.Category),
			string(genres), r.Venue,
			r.PurchaseDate.UTC().Format(time.RFC3339), timePtr(r.ScanDate), r.Attended,
			timePtr(r.EventDate), intPtr(r.DaysBefore),
			r.FirstName, r.LastName, r.Email, r.Phone, timePtr(r.BirthDate), r.Gender,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert record %s", r.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

// ListRecords reads records back, optionally filtered by brand and
// edition.
func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.AttendanceRecord, error) {
	query := `SELECT id, raw_event_name, brand, edition, category, genres, venue,
		purchase_date, scan_date, attended, event_date, days_before,
		first_name, last_name, email, phone, birth_date, gender
		FROM records WHERE 1=1`
	var args []any
	if filter.Brand != "" {
		query += " AND brand = ?"
		args = append(args, filter.Brand)
	}
	if filter.Edition != "" {
		query += " AND edition = ?"
		args = append(args, filter.Edition)
	}
	query += " ORDER BY purchase_date"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var out []model.AttendanceRecord
	for rows.Next() {
		var r model.AttendanceRecord
		var category, genres string
		var scan, event, birth sql.NullString
		var purchase string
		var days sql.NullInt64
		err := rows.Scan(&r.ID, &r.RawEventName, &r.Brand, &r.Edition, &category, &genres, &r.Venue,
			&purchase, &scan, &r.Attended, &event, &days,
			&r.FirstName, &r.LastName, &r.Email, &r.Phone, &birth, &r.Gender)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		r.Category = model.Category(category)
		if genres != "" && genres != "null" {
			if err := json.Unmarshal([]byte(genres), &r.Genres); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal genres")
			}
		}
		if r.PurchaseDate, err = time.Parse(time.RFC3339, purchase); err != nil {
			return nil, eris.Wrap(err, "sqlite: parse purchase date")
		}
		if r.ScanDate, err = scanTime(scan); err != nil {
			return nil, err
		}
		if r.EventDate, err = scanTime(event); err != nil {
			return nil, err
		}
		if r.BirthDate, err = scanTime(birth); err != nil {
			return nil, err
		}
		if days.Valid {
			d := int(days.Int64)
			r.DaysBefore = &d
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate records")
}

// ListBatches returns all ingest batches, newest first.
func (s *SQLiteStore) ListBatches(ctx context.Context) ([]model.IngestBatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, records, created_at FROM ingest_batches ORDER BY created_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list batches")
	}
	defer rows.Close()

	var out []model.IngestBatch
	for rows.Next() {
		var b model.IngestBatch
		var created string
		if err := rows.Scan(&b.ID, &b.Source, &b.Records, &created); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan batch")
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			b.CreatedAt = t
		}
		out = append(out, b)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate batches")
}

// ListEditions returns the brand/edition inventory with counts.
func (s *SQLiteStore) ListEditions(ctx context.Context) ([]EditionCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT brand, edition, COUNT(*), SUM(attended) FROM records GROUP BY brand, edition ORDER BY brand, edition`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list editions")
	}
	defer rows.Close()

	var out []EditionCount
	for rows.Next() {
		var e EditionCount
		if err := rows.Scan(&e.Brand, &e.Edition, &e.Records, &e.Attended); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan edition")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate editions")
}

func timePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func intPtr(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func scanTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: parse time column")
	}
	return &t, nil
}
