// Package normalize maps raw export rows onto canonical
// AttendanceRecords. Header-name variance is resolved once per file
// through an alias table, so the analysis core never sees the
// exporting platform's column spellings.
package normalize

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/clubpulse/pacing-cli/internal/model"
	"github.com/clubpulse/pacing-cli/internal/registry"
	"github.com/clubpulse/pacing-cli/internal/resolve"
	"github.com/clubpulse/pacing-cli/internal/temporal"
)

// Canonical column names.
const (
	colEvent     = "event"
	colPurchase  = "purchase"
	colScan      = "scan"
	colFirstName = "first_name"
	colLastName  = "last_name"
	colEmail     = "email"
	colPhone     = "phone"
	colBirth     = "birth_date"
	colGender    = "gender"
)

// headerAliases maps export header spellings (Italian and English,
// across platform versions) to canonical columns.
var headerAliases = map[string]string{
	"evento":           colEvent,
	"nome evento":      colEvent,
	"titolo evento":    colEvent,
	"event":            colEvent,
	"event name":       colEvent,
	"data acquisto":    colPurchase,
	"data di acquisto": colPurchase,
	"data ordine":      colPurchase,
	"data vendita":     colPurchase,
	"purchase date":    colPurchase,
	"data validazione": colScan,
	"data scansione":   colScan,
	"data check-in":    colScan,
	"validato il":      colScan,
	"scan date":        colScan,
	"nome":             colFirstName,
	"first name":       colFirstName,
	"cognome":          colLastName,
	"last name":        colLastName,
	"surname":          colLastName,
	"email":            colEmail,
	"e-mail":           colEmail,
	"mail":             colEmail,
	"telefono":         colPhone,
	"cellulare":        colPhone,
	"phone":            colPhone,
	"tel":              colPhone,
	"data di nascita":  colBirth,
	"data nascita":     colBirth,
	"birth date":       colBirth,
	"sesso":            colGender,
	"genere":           colGender,
	"gender":           colGender,
}

// Mapping is a resolved header: canonical column -> index in the row.
type Mapping map[string]int

// MapHeader resolves a header row to a Mapping. The event name and
// purchase timestamp columns are required; everything else is
// optional passthrough.
func MapHeader(header []string) (Mapping, error) {
	m := Mapping{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := headerAliases[key]; ok {
			if _, dup := m[canonical]; !dup {
				m[canonical] = i
			}
		}
	}
	if _, ok := m[colEvent]; !ok {
		return nil, eris.New("normalize: no event name column in header")
	}
	if _, ok := m[colPurchase]; !ok {
		return nil, eris.New("normalize: no purchase date column in header")
	}
	return m, nil
}

func (m Mapping) get(row []string, col string) string {
	i, ok := m[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Normalizer converts export rows into AttendanceRecords.
type Normalizer struct {
	Registry  registry.Registry
	Overrides registry.Overrides
	Season    temporal.SeasonPolicy
	Now       time.Time // reference time for the season-year heuristic
}

// New returns a Normalizer over the given configuration, using the
// default season policy and the current time.
func New(reg registry.Registry, ov registry.Overrides) *Normalizer {
	return &Normalizer{Registry: reg, Overrides: ov, Season: temporal.DefaultSeason, Now: time.Now()}
}

// Rows normalizes all rows under a resolved header mapping. Row-level
// defects never abort the batch: they are counted in the summary and
// the row is skipped.
func (n *Normalizer) Rows(mapping Mapping, rows [][]string) ([]model.AttendanceRecord, model.IngestSummary) {
	var records []model.AttendanceRecord
	var sum model.IngestSummary

	for _, row := range rows {
		sum.RowsRead++
		rec, outcome := n.row(mapping, row)
		switch outcome {
		case outcomeOK:
			sum.Parsed++
			if rec.EventDate != nil && temporal.IsClamped(*rec.EventDate, rec.PurchaseDate) {
				sum.Clamped++
			}
			records = append(records, rec)
		case outcomeBadDate:
			sum.DroppedDates++
		case outcomeExcluded:
			sum.Excluded++
		case outcomeSenior:
			sum.Senior++
		}
	}
	return records, sum
}

type outcome int

const (
	outcomeOK outcome = iota
	outcomeBadDate
	outcomeExcluded
	outcomeSenior
)

// row normalizes a single export row.
func (n *Normalizer) row(mapping Mapping, row []string) (model.AttendanceRecord, outcome) {
	rawName := mapping.get(row, colEvent)

	purchase, ok := temporal.ParseTimestamp(mapping.get(row, colPurchase))
	if !ok {
		// Machine-generated field: a parse failure means a defective
		// row, not an alternate format.
		return model.AttendanceRecord{}, outcomeBadDate
	}

	res := resolve.Resolve(rawName, n.Registry, n.Overrides)
	if res.Excluded {
		return model.AttendanceRecord{}, outcomeExcluded
	}
	if res.Senior {
		return model.AttendanceRecord{}, outcomeSenior
	}

	scan, ok := temporal.ParseScanDate(mapping.get(row, colScan))
	if !ok {
		zap.L().Debug("normalize: malformed scan date treated as no scan",
			zap.String("raw", mapping.get(row, colScan)),
			zap.String("event", rawName),
		)
		scan = nil
	}

	rec := model.AttendanceRecord{
		ID:           uuid.NewString(),
		RawEventName: rawName,
		Brand:        res.Identity.Brand,
		Edition:      res.Identity.Edition,
		Category:     res.Identity.Category,
		Genres:       res.Identity.Genres,
		Venue:        res.Identity.Venue,
		PurchaseDate: purchase,
		ScanDate:     scan,
		Attended:     scan != nil,
		FirstName:    mapping.get(row, colFirstName),
		LastName:     mapping.get(row, colLastName),
		Email:        strings.ToLower(mapping.get(row, colEmail)),
		Phone:        mapping.get(row, colPhone),
		Gender:       mapping.get(row, colGender),
	}

	if bd, ok := temporal.ParseBirthDate(mapping.get(row, colBirth)); ok {
		rec.BirthDate = &bd
	}

	if ed := temporal.ExtractEventDate(rawName, n.Season, n.Now); ed != nil {
		rec.EventDate = ed
		days := temporal.DaysBefore(*ed, purchase)
		rec.DaysBefore = &days
		if temporal.IsClamped(*ed, purchase) {
			zap.L().Warn("normalize: purchase after inferred event date, clamped to 0",
				zap.String("event", rawName),
				zap.Time("event_date", *ed),
				zap.Time("purchase_date", purchase),
			)
		}
	}

	return rec, outcomeOK
}
