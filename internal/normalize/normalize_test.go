package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubpulse/pacing-cli/internal/registry"
)

var testNow = time.Date(2025, 10, 25, 12, 0, 0, 0, time.UTC)

func testNormalizer() *Normalizer {
	n := New(registry.Builtin(), registry.Overrides{})
	n.Now = testNow
	return n
}

func TestMapHeader(t *testing.T) {
	m, err := MapHeader([]string{"Evento", "Data Acquisto", "Data Validazione", "Nome", "Cognome", "Email", "Telefono", "Data di Nascita", "Sesso"})
	require.NoError(t, err)
	assert.Equal(t, 0, m[colEvent])
	assert.Equal(t, 1, m[colPurchase])
	assert.Equal(t, 2, m[colScan])
	assert.Equal(t, 5, m[colEmail])

	// English spellings map to the same canonical columns.
	m, err = MapHeader([]string{"Event Name", "Purchase Date", "Scan Date"})
	require.NoError(t, err)
	assert.Equal(t, 0, m[colEvent])

	// Duplicate headers keep the first occurrence.
	m, err = MapHeader([]string{"Evento", "Data Acquisto", "Email", "E-Mail"})
	require.NoError(t, err)
	assert.Equal(t, 2, m[colEmail])
}

func TestMapHeaderMissingRequired(t *testing.T) {
	_, err := MapHeader([]string{"Nome", "Cognome"})
	assert.Error(t, err)

	_, err = MapHeader([]string{"Evento", "Nome"})
	assert.Error(t, err)
}

func TestRowsFullScenario(t *testing.T) {
	n := testNormalizer()
	mapping, err := MapHeader([]string{"Evento", "Data Acquisto", "Data Validazione", "Nome", "Cognome", "Email", "Telefono"})
	require.NoError(t, err)

	rows := [][]string{
		// Registered, never scanned: sentinel scan date.
		{"01.11.25 BESAME", "20/10/2025 14:30:00", "01/01/1970 00:00:00", "Maria", "Rossi", "MARIA@Example.com", "+39333111"},
		// Registered and scanned at the door.
		{"01.11.25 BESAME", "30/10/2025 09:00:00", "01/11/2025 23:45:00", "Luca", "Bianchi", "luca@example.com", ""},
		// Cancelled event: dropped by exclusion.
		{"01.11.25 BESAME ANNULLATO", "20/10/2025 10:00:00", "", "X", "Y", "", ""},
		// Senior-category event: identified, not processed.
		{"Serata Liscio", "20/10/2025 10:00:00", "", "A", "B", "", ""},
		// Malformed purchase date: row dropped.
		{"01.11.25 BESAME", "not a date", "", "C", "D", "", ""},
	}

	records, sum := n.Rows(mapping, rows)

	assert.Equal(t, 5, sum.RowsRead)
	assert.Equal(t, 2, sum.Parsed)
	assert.Equal(t, 1, sum.Excluded)
	assert.Equal(t, 1, sum.Senior)
	assert.Equal(t, 1, sum.DroppedDates)
	assert.Equal(t, 0, sum.Clamped)
	require.Len(t, records, 2)

	r := records[0]
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "BESAME", r.Brand)
	assert.Equal(t, "01.11.25", r.Edition)
	assert.False(t, r.Attended, "sentinel scan date must mean no attendance")
	assert.Nil(t, r.ScanDate)
	require.NotNil(t, r.EventDate)
	assert.Equal(t, "2025-11-01", r.EventDate.Format("2006-01-02"))
	require.NotNil(t, r.DaysBefore)
	assert.Equal(t, 12, *r.DaysBefore)
	assert.Equal(t, "Maria Rossi", r.FullName())
	assert.Equal(t, "maria@example.com", r.Email, "emails are lowercased")

	r = records[1]
	assert.True(t, r.Attended)
	require.NotNil(t, r.ScanDate)
	require.NotNil(t, r.DaysBefore)
	assert.Equal(t, 2, *r.DaysBefore)
}

func TestRowsClampCounting(t *testing.T) {
	n := testNormalizer()
	mapping, err := MapHeader([]string{"Evento", "Data Acquisto"})
	require.NoError(t, err)

	// Purchase two days after the inferred event date.
	records, sum := n.Rows(mapping, [][]string{
		{"01.11.25 BESAME", "03/11/2025 10:00:00"},
	})
	require.Len(t, records, 1)
	assert.Equal(t, 1, sum.Clamped)
	require.NotNil(t, records[0].DaysBefore)
	assert.Equal(t, 0, *records[0].DaysBefore)
}

func TestRowsNoEventDate(t *testing.T) {
	n := testNormalizer()
	mapping, err := MapHeader([]string{"Evento", "Data Acquisto"})
	require.NoError(t, err)

	// Unparseable title date: record kept, no days-before axis.
	records, sum := n.Rows(mapping, [][]string{
		{"capodanno in maschera", "20/10/2025 10:00:00"},
	})
	require.Len(t, records, 1)
	assert.Equal(t, 1, sum.Parsed)
	assert.Nil(t, records[0].EventDate)
	assert.Nil(t, records[0].DaysBefore)
}

func TestRowsShortRow(t *testing.T) {
	n := testNormalizer()
	mapping, err := MapHeader([]string{"Evento", "Data Acquisto", "Email"})
	require.NoError(t, err)

	// Truncated trailing columns read as empty, not out of range.
	records, _ := n.Rows(mapping, [][]string{
		{"01.11.25 BESAME", "20/10/2025 10:00:00"},
	})
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Email)
}

func TestRowsMalformedScanTreatedAsNoScan(t *testing.T) {
	n := testNormalizer()
	mapping, err := MapHeader([]string{"Evento", "Data Acquisto", "Data Validazione"})
	require.NoError(t, err)

	records, sum := n.Rows(mapping, [][]string{
		{"01.11.25 BESAME", "20/10/2025 10:00:00", "mercoledi"},
	})
	assert.Equal(t, 1, sum.Parsed)
	require.Len(t, records, 1)
	assert.False(t, records[0].Attended)
	assert.Nil(t, records[0].ScanDate)
}
