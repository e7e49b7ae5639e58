// Package model defines the plain data types exchanged between the
// ingestion, analysis, and presentation layers. Everything here is a
// serializable value object with no behavior beyond small accessors.
package model

import (
	"fmt"
	"time"
)

// Category classifies a brand's target audience.
type Category string

const (
	CategoryStandard Category = "standard"
	CategoryYoung    Category = "young"
	CategorySenior   Category = "senior"
	CategoryUnknown  Category = "unknown"
)

// EditionUnknown is assigned when a brand matched but no edition
// pattern did. EditionSingle is assigned to fallback brands that were
// never declared in the registry.
const (
	EditionUnknown = "unknown"
	EditionSingle  = "single"
)

// AttendanceRecord is one normalized registration/ticket row.
type AttendanceRecord struct {
	ID           string     `json:"id"`
	RawEventName string     `json:"raw_event_name"` // original free text, kept for audit
	Brand        string     `json:"brand"`
	Edition      string     `json:"edition"`
	Category     Category   `json:"category"`
	Genres       []string   `json:"genres,omitempty"`
	Venue        string     `json:"venue,omitempty"`
	PurchaseDate time.Time  `json:"purchase_date"`
	ScanDate     *time.Time `json:"scan_date,omitempty"`
	Attended     bool       `json:"attended"`
	EventDate    *time.Time `json:"event_date,omitempty"`
	DaysBefore   *int       `json:"days_before,omitempty"` // nil when EventDate is nil, never negative

	// Contact fields are opaque passthrough: carried for the
	// segmentation output, never interpreted by the analysis core.
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    string     `json:"gender,omitempty"`
}

// FullName returns the contact's display name.
func (r AttendanceRecord) FullName() string {
	switch {
	case r.FirstName != "" && r.LastName != "":
		return r.FirstName + " " + r.LastName
	case r.FirstName != "":
		return r.FirstName
	default:
		return r.LastName
	}
}

// EditionKey identifies one scheduled occurrence of a brand.
type EditionKey struct {
	Brand   string `json:"brand"`
	Edition string `json:"edition"`
}

func (k EditionKey) String() string {
	return fmt.Sprintf("%s %s", k.Brand, k.Edition)
}

// Edition is the derived aggregate for one (brand, edition): its
// records, a representative event date, and the cumulative curve.
// It is rebuilt per query, never persisted.
type Edition struct {
	Key       EditionKey         `json:"key"`
	EventDate *time.Time         `json:"event_date,omitempty"`
	Records   []AttendanceRecord `json:"-"`
	Curve     map[int]int        `json:"curve,omitempty"` // daysBefore -> cumulative registrations
}

// Total returns the final registration count of the edition.
func (e Edition) Total() int { return len(e.Records) }

// AttendedCount returns how many registrations were scanned.
func (e Edition) AttendedCount() int {
	n := 0
	for _, r := range e.Records {
		if r.Attended {
			n++
		}
	}
	return n
}
