package model

import "time"

// EditionDelta compares the target edition against one prior edition
// of the same brand at the same days-before-event offset. Nullable
// fields stay nil when the prior edition had no registrations at that
// offset; such editions are listed but excluded from averages.
type EditionDelta struct {
	Edition        string     `json:"edition"`
	EventDate      *time.Time `json:"event_date,omitempty"`
	TotalFinal     int        `json:"total_final"`
	AtSamePoint    int        `json:"at_same_point"`
	Delta          *int       `json:"delta,omitempty"`
	DeltaPercent   *float64   `json:"delta_percent,omitempty"`
	ProjectedFinal *int       `json:"projected_final,omitempty"`
}

// OverlayPoint is one edition's cumulative value at a given offset.
// Value is nil when that edition's curve does not reach that far back.
type OverlayPoint struct {
	Label string `json:"label"`
	Value *int   `json:"value,omitempty"`
}

// OverlayRow holds every edition's cumulative value at one offset.
type OverlayRow struct {
	DaysBefore int            `json:"days_before"`
	Points     []OverlayPoint `json:"points"`
}

// ComparisonResult answers "where are we now" for a target edition.
// Ephemeral: built on demand from the current record set.
type ComparisonResult struct {
	Target               EditionKey     `json:"target"`
	EventDate            time.Time      `json:"event_date"`
	CurrentDaysBefore    int            `json:"current_days_before"`
	CurrentRegistrations int            `json:"current_registrations"`
	CurrentAttended      int            `json:"current_attended"`
	Deltas               []EditionDelta `json:"deltas"`
	AvgAtSamePoint       float64        `json:"avg_at_same_point"`
	AvgProjectedFinal    float64        `json:"avg_projected_final"`
	AvgFinal             float64        `json:"avg_final"`
	ProgressPercent      int            `json:"progress_percent"`
	Overlay              []OverlayRow   `json:"overlay"`
}

// Projection is the output of the projection models. Nil pointers mean
// "insufficient history", a normal state for young brands.
type Projection struct {
	Linear   *float64 `json:"linear,omitempty"`
	Ensemble *float64 `json:"ensemble,omitempty"`
}

// BrandAggregate summarizes one brand across all of its editions.
type BrandAggregate struct {
	Brand         string  `json:"brand"`
	Editions      int     `json:"editions"`
	TotalRegs     int     `json:"total_regs"`
	TotalAttended int     `json:"total_attended"`
	AvgPerEdition float64 `json:"avg_per_edition"`
	AvgConversion float64 `json:"avg_conversion"`
}

// CrossBrandResult compares two brands edition by edition.
type CrossBrandResult struct {
	Left    BrandAggregate `json:"left"`
	Right   BrandAggregate `json:"right"`
	Overlay []OverlayRow   `json:"overlay"`
}
