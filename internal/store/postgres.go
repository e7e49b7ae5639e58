package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/clubpulse/pacing-cli/internal/db"
	"github.com/clubpulse/pacing-cli/internal/model"
)

// PostgresStore implements Store using pgxpool, with COPY for record
// batches.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests with
// pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: func() {}}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS ingest_batches (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	records    INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
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
	purchase_date  TIMESTAMPTZ NOT NULL,
	scan_date      TIMESTAMPTZ,
	attended       BOOLEAN NOT NULL DEFAULT false,
	event_date     TIMESTAMPTZ,
	days_before    INTEGER,
	first_name     TEXT,
	last_name      TEXT,
	email          TEXT,
	phone          TEXT,
	birth_date     TIMESTAMPTZ,
	gender         TEXT
);

CREATE INDEX IF NOT EXISTS idx_records_brand_edition ON records(brand, edition);
CREATE INDEX IF NOT EXISTS idx_records_batch ON records(batch_id);
CREATE INDEX IF NOT EXISTS idx_records_email ON records(email);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.closeFn()
	return nil
}

var recordColumns = []string{
	"id", "batch_id", "raw_event_name", "brand", "edition", "category", "genres", "venue",
	"purchase_date", "scan_date", "attended", "event_date", "days_before",
	"first_name", "last_name", "email", "phone", "birth_date", "gender",
}

// InsertBatch stores the batch row, then COPYs the records.
func (s *PostgresStore) InsertBatch(ctx context.Context, batch model.IngestBatch, records []model.AttendanceRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ingest_batches (id, source, records, created_at) VALUES ($1, $2, $3, $4)`,
		batch.ID, batch.Source, len(records), batch.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert batch")
	}

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		genres, err := json.Marshal(r.Genres)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal genres")
		}
		rows = append(rows, []any{
			r.ID, batch.ID, r.RawEventName, r.Brand, r.Edition, string(r.Category),
			string(genres), r.Venue,
			r.PurchaseDate, r.ScanDate, r.Attended, r.EventDate, r.DaysBefore,
			r.FirstName, r.LastName, r.Email, r.Phone, r.BirthDate, r.Gender,
		})
	}

	if _, err := db.CopyFrom(ctx, s.pool, "records", recordColumns, rows); err != nil {
		return eris.Wrap(err, "postgres: copy records")
	}
	return nil
}

// ListRecords reads records back, optionally filtered by brand and
// edition.
func (s *PostgresStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.AttendanceRecord, error) {
	query := `SELECT id, raw_event_name, brand, edition, category, genres, venue,
		purchase_date, scan_date, attended, event_date, days_before,
		first_name, last_name, email, phone, birth_date, gender
		FROM records WHERE 1=1`
	var args []any
	if filter.Brand != "" {
		args = append(args, filter.Brand)
		query += fmt.Sprintf(" AND brand = $%d", len(args))
	}
	if filter.Edition != "" {
		args = append(args, filter.Edition)
		query += fmt.Sprintf(" AND edition = $%d", len(args))
	}
	query += " ORDER BY purchase_date"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
	}
	defer rows.Close()

	var out []model.AttendanceRecord
	for rows.Next() {
		var r model.AttendanceRecord
		var category string
		var genres *string
		err := rows.Scan(&r.ID, &r.RawEventName, &r.Brand, &r.Edition, &category, &genres, &r.Venue,
			&r.PurchaseDate, &r.ScanDate, &r.Attended, &r.EventDate, &r.DaysBefore,
			&r.FirstName, &r.LastName, &r.Email, &r.Phone, &r.BirthDate, &r.Gender)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		r.Category = model.Category(category)
		if genres != nil && *genres != "" && *genres != "null" {
			if err := json.Unmarshal([]byte(*genres), &r.Genres); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal genres")
			}
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate records")
}

// ListBatches returns all ingest batches, newest first.
func (s *PostgresStore) ListBatches(ctx context.Context) ([]model.IngestBatch, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, source, records, created_at FROM ingest_batches ORDER BY created_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list batches")
	}
	defer rows.Close()

	var out []model.IngestBatch
	for rows.Next() {
		var b model.IngestBatch
		if err := rows.Scan(&b.ID, &b.Source, &b.Records, &b.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan batch")
		}
		out = append(out, b)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate batches")
}

// ListEditions returns the brand/edition inventory with counts.
func (s *PostgresStore) ListEditions(ctx context.Context) ([]EditionCount, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT brand, edition, COUNT(*), COUNT(*) FILTER (WHERE attended) FROM records GROUP BY brand, edition ORDER BY brand, edition`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list editions")
	}
	defer rows.Close()

	var out []EditionCount
	for rows.Next() {
		var e EditionCount
		if err := rows.Scan(&e.Brand, &e.Edition, &e.Records, &e.Attended); err != nil {
			return nil, eris.Wrap(err, "postgres: scan edition")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate editions")
}
