package compare

import (
	"github.com/clubpulse/pacing-cli/internal/curve"
	"github.com/clubpulse/pacing-cli/internal/model"
)

// CrossBrand compares two brands edition by edition: per-brand
// aggregates plus a combined overlay with one series per edition of
// either brand, labeled "{brand} {edition}".
func CrossBrand(records []model.AttendanceRecord, left, right string) *model.CrossBrandResult {
	var editions []model.Edition
	for _, e := range GroupEditions(records) {
		if e.Key.Brand == left || e.Key.Brand == right {
			e.Curve = curve.Build(e.Records)
			editions = append(editions, e)
		}
	}
	if len(editions) == 0 {
		return nil
	}

	res := &model.CrossBrandResult{
		Left:  aggregate(left, editions),
		Right: aggregate(right, editions),
	}
	res.Overlay = buildOverlay(editions, func(e model.Edition) string { return e.Key.String() })
	return res
}

func aggregate(brand string, editions []model.Edition) model.BrandAggregate {
	agg := model.BrandAggregate{Brand: brand}
	for _, e := range editions {
		if e.Key.Brand != brand {
			continue
		}
		agg.Editions++
		agg.TotalRegs += e.Total()
		agg.TotalAttended += e.AttendedCount()
	}
	if agg.Editions > 0 {
		agg.AvgPerEdition = float64(agg.TotalRegs) / float64(agg.Editions)
	}
	if agg.TotalRegs > 0 {
		agg.AvgConversion = float64(agg.TotalAttended) / float64(agg.TotalRegs) * 100
	}
	return agg
}
