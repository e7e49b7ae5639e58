package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubpulse/pacing-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testBatch(records []model.AttendanceRecord) model.IngestBatch {
	return model.IngestBatch{
		ID:        "batch-1",
		Source:    "export.csv",
		Records:   len(records),
		CreatedAt: time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC),
	}
}

func testRecords() []model.AttendanceRecord {
	scan := time.Date(2025, 11, 1, 23, 45, 0, 0, time.UTC)
	event := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	days := 12
	return []model.AttendanceRecord{
		{
			ID:           "rec-1",
			RawEventName: "01.11.25 BESAME",
			Brand:        "BESAME",
			Edition:      "01.11.25",
			Category:     model.CategoryStandard,
			Genres:       []string{"reggaeton", "latin"},
			PurchaseDate: time.Date(2025, 10, 20, 14, 30, 0, 0, time.UTC),
			ScanDate:     &scan,
			Attended:     true,
			EventDate:    &event,
			DaysBefore:   &days,
			FirstName:    "Maria",
			LastName:     "Rossi",
			Email:        "maria@example.com",
			Phone:        "+39333111",
		},
		{
			ID:           "rec-2",
			RawEventName: "01.11.25 BESAME",
			Brand:        "BESAME",
			Edition:      "01.11.25",
			Category:     model.CategoryStandard,
			PurchaseDate: time.Date(2025, 10, 22, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	records := testRecords()
	require.NoError(t, st.InsertBatch(ctx, testBatch(records), records))

	got, err := st.ListRecords(ctx, RecordFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by purchase date.
	r := got[0]
	assert.Equal(t, "rec-1", r.ID)
	assert.Equal(t, "BESAME", r.Brand)
	assert.Equal(t, model.CategoryStandard, r.Category)
	assert.Equal(t, []string{"reggaeton", "latin"}, r.Genres)
	assert.True(t, r.PurchaseDate.Equal(records[0].PurchaseDate))
	require.NotNil(t, r.ScanDate)
	assert.True(t, r.ScanDate.Equal(*records[0].ScanDate))
	assert.True(t, r.Attended)
	require.NotNil(t, r.DaysBefore)
	assert.Equal(t, 12, *r.DaysBefore)
	assert.Equal(t, "maria@example.com", r.Email)

	r = got[1]
	assert.Nil(t, r.ScanDate)
	assert.Nil(t, r.EventDate)
	assert.Nil(t, r.DaysBefore)
	assert.False(t, r.Attended)
}

func TestSQLiteListRecordsFilter(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	records := testRecords()
	records[1].Brand = "CARIBE"
	records[1].Edition = "22.11.25"
	require.NoError(t, st.InsertBatch(ctx, testBatch(records), records))

	got, err := st.ListRecords(ctx, RecordFilter{Brand: "BESAME"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rec-1", got[0].ID)

	got, err = st.ListRecords(ctx, RecordFilter{Brand: "BESAME", Edition: "nope"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = st.ListRecords(ctx, RecordFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteListBatches(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	records := testRecords()
	require.NoError(t, st.InsertBatch(ctx, testBatch(records), records))

	batches, err := st.ListBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "batch-1", batches[0].ID)
	assert.Equal(t, "export.csv", batches[0].Source)
	assert.Equal(t, 2, batches[0].Records)
}

func TestSQLiteListEditions(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	records := testRecords()
	records[1].Brand = "CARIBE"
	records[1].Edition = "22.11.25"
	require.NoError(t, st.InsertBatch(ctx, testBatch(records), records))

	editions, err := st.ListEditions(ctx)
	require.NoError(t, err)
	require.Len(t, editions, 2)

	assert.Equal(t, "BESAME", editions[0].Brand)
	assert.Equal(t, 1, editions[0].Records)
	assert.Equal(t, 1, editions[0].Attended)
	assert.Equal(t, "CARIBE", editions[1].Brand)
	assert.Equal(t, 0, editions[1].Attended)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	assert.Error(t, err)
}
