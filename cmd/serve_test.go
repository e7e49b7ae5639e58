package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/clubpulse/pacing-cli/internal/model"
	"github.com/clubpulse/pacing-cli/internal/store"
)

// stubStore serves canned data to the API handlers.
type stubStore struct {
	records  []model.AttendanceRecord
	editions []store.EditionCount
	err      error

	lastFilter store.RecordFilter
}

func (s *stubStore) InsertBatch(context.Context, model.IngestBatch, []model.AttendanceRecord) error {
	return s.err
}

func (s *stubStore) ListRecords(_ context.Context, filter store.RecordFilter) ([]model.AttendanceRecord, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	var out []model.AttendanceRecord
	for _, r := range s.records {
		if filter.Brand != "" && r.Brand != filter.Brand {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *stubStore) ListBatches(context.Context) ([]model.IngestBatch, error) {
	return nil, s.err
}

func (s *stubStore) ListEditions(context.Context) ([]store.EditionCount, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.editions, nil
}

func (s *stubStore) Migrate(context.Context) error { return s.err }
func (s *stubStore) Close() error                  { return nil }

// pinNow fixes the reference clock for the duration of a test.
func pinNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := nowUTC
	nowUTC = func() time.Time { return now }
	t.Cleanup(func() { nowUTC = prev })
}

// besameRecords builds a target edition with one finished predecessor.
func besameRecords() []model.AttendanceRecord {
	priorDate := time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC)
	targetDate := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	var out []model.AttendanceRecord
	add := func(edition string, eventDate time.Time, counts map[int]int) {
		for d, n := range counts {
			for i := 0; i < n; i++ {
				day := d
				ed := eventDate
				out = append(out, model.AttendanceRecord{
					Brand:      "BESAME",
					Edition:    edition,
					EventDate:  &ed,
					DaysBefore: &day,
					Email:      "user@example.com",
					FirstName:  "Maria",
					LastName:   "Rossi",
					Attended:   true,
				})
			}
		}
	}
	add("02.11.24", priorDate, map[int]int{20: 10, 7: 30, 0: 60})
	add("01.11.25", targetDate, map[int]int{10: 60})
	return out
}

func serveRequest(t *testing.T, st store.Store, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := newAPIRouter(st, rate.Limit(1000))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServeHealth(t *testing.T) {
	rec := serveRequest(t, &stubStore{}, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeBrands(t *testing.T) {
	st := &stubStore{editions: []store.EditionCount{
		{Brand: "BESAME", Edition: "01.11.25", Records: 60, Attended: 0},
	}}
	rec := serveRequest(t, st, "/api/brands")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []store.EditionCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "BESAME", got[0].Brand)
}

func TestServeCompare(t *testing.T) {
	pinNow(t, time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC))
	st := &stubStore{records: besameRecords()}

	rec := serveRequest(t, st, "/api/compare/BESAME/01.11.25")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BESAME", st.lastFilter.Brand, "handler must filter by the path brand")

	var got model.ComparisonResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 7, got.CurrentDaysBefore)
	assert.Equal(t, 60, got.CurrentRegistrations)
	require.Len(t, got.Deltas, 1)
	assert.Equal(t, 100, got.Deltas[0].TotalFinal)
	assert.Equal(t, 40, got.Deltas[0].AtSamePoint)
}

func TestServeCompareInsufficientData(t *testing.T) {
	pinNow(t, time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC))
	rec := serveRequest(t, &stubStore{}, "/api/compare/BESAME/01.11.25")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeProject(t *testing.T) {
	pinNow(t, time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC))
	st := &stubStore{records: besameRecords()}

	rec := serveRequest(t, st, "/api/project/BESAME/01.11.25")
	require.Equal(t, http.StatusOK, rec.Code)

	// One prior edition: neither model has enough history, but the
	// endpoint still answers with null fields, not an error.
	var got model.Projection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Nil(t, got.Linear)
	assert.Nil(t, got.Ensemble)
}

func TestServeProjectMissingEdition(t *testing.T) {
	pinNow(t, time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC))
	rec := serveRequest(t, &stubStore{}, "/api/project/BESAME/01.11.25")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeCrossBrand(t *testing.T) {
	st := &stubStore{records: besameRecords()}

	rec := serveRequest(t, st, "/api/crossbrand?left=BESAME&right=CARIBE")
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.CrossBrandResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Left.Editions)
	assert.Equal(t, 0, got.Right.Editions)
}

func TestServeCrossBrandMissingParams(t *testing.T) {
	rec := serveRequest(t, &stubStore{}, "/api/crossbrand?left=BESAME")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeSegments(t *testing.T) {
	st := &stubStore{records: besameRecords()}

	rec := serveRequest(t, st, "/api/segments/BESAME/01.11.25")
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.EditionUserLists
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "BESAME", got.Target.Brand)
	assert.Len(t, got.Registered, 1)
}

func TestServeStoreError(t *testing.T) {
	st := &stubStore{err: errors.New("connection refused")}

	for _, target := range []string{
		"/api/brands",
		"/api/compare/BESAME/01.11.25",
		"/api/project/BESAME/01.11.25",
		"/api/crossbrand?left=BESAME&right=CARIBE",
		"/api/segments/BESAME/01.11.25",
	} {
		rec := serveRequest(t, st, target)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
		assert.NotContains(t, rec.Body.String(), "connection refused", "internal details must not leak")
	}
}

func TestServeRateLimiter(t *testing.T) {
	router := newAPIRouter(&stubStore{}, rate.Limit(1))

	// Burst is limit+1: the first two requests pass, the third is shed.
	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes[i] = rec.Code
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}
