// Package compare implements the historical comparison engine: it
// aligns a target edition's registrations against every prior edition
// of the same brand at the same days-before-event offset and answers
// "where are we now".
package compare

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/clubpulse/pacing-cli/internal/curve"
	"github.com/clubpulse/pacing-cli/internal/model"
	"github.com/clubpulse/pacing-cli/internal/temporal"
)

// GroupEditions partitions records into editions keyed by (brand,
// edition). The representative event date is the first non-nil one
// seen in input order. Returned editions are sorted by event date
// (unknown dates last) so downstream output is deterministic.
func GroupEditions(records []model.AttendanceRecord) []model.Edition {
	byKey := map[model.EditionKey]*model.Edition{}
	var order []model.EditionKey
	for _, r := range records {
		key := model.EditionKey{Brand: r.Brand, Edition: r.Edition}
		e, ok := byKey[key]
		if !ok {
			e = &model.Edition{Key: key}
			byKey[key] = e
			order = append(order, key)
		}
		e.Records = append(e.Records, r)
		if e.EventDate == nil && r.EventDate != nil {
			e.EventDate = r.EventDate
		}
	}

	editions := make([]model.Edition, 0, len(order))
	for _, key := range order {
		editions = append(editions, *byKey[key])
	}
	sort.SliceStable(editions, func(i, j int) bool {
		di, dj := editions[i].EventDate, editions[j].EventDate
		switch {
		case di == nil && dj == nil:
			return editions[i].Key.String() < editions[j].Key.String()
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
	return editions
}

// Compare builds the "where are we now" result for the target edition
// against all other editions of the same brand. Returns nil when the
// target has no records or no resolvable event date; that is the
// normal state for a brand-new edition, not an error.
func Compare(records []model.AttendanceRecord, brand, edition string, now time.Time) *model.ComparisonResult {
	targetKey := model.EditionKey{Brand: brand, Edition: edition}

	var target *model.Edition
	var others []model.Edition
	for _, e := range GroupEditions(records) {
		if e.Key == targetKey {
			t := e
			target = &t
			continue
		}
		if e.Key.Brand == brand {
			others = append(others, e)
		}
	}
	if target == nil || len(target.Records) == 0 || target.EventDate == nil {
		return nil
	}

	res := &model.ComparisonResult{
		Target:               targetKey,
		EventDate:            *target.EventDate,
		CurrentDaysBefore:    temporal.DaysBefore(*target.EventDate, now),
		CurrentRegistrations: target.Total(),
		CurrentAttended:      target.AttendedCount(),
	}

	var sumAtPoint, sumProjected, countAtPoint int
	var sumFinal int
	for i := range others {
		others[i].Curve = curve.Build(others[i].Records)
		d := deltaFor(&others[i], res.CurrentDaysBefore, res.CurrentRegistrations)
		res.Deltas = append(res.Deltas, d)

		sumFinal += d.TotalFinal
		if d.AtSamePoint > 0 {
			countAtPoint++
			sumAtPoint += d.AtSamePoint
			sumProjected += *d.ProjectedFinal
		}
	}

	if countAtPoint > 0 {
		res.AvgAtSamePoint = float64(sumAtPoint) / float64(countAtPoint)
		res.AvgProjectedFinal = float64(sumProjected) / float64(countAtPoint)
	}
	if len(others) > 0 {
		res.AvgFinal = float64(sumFinal) / float64(len(others))
	}
	if res.AvgFinal > 0 {
		res.ProgressPercent = int(math.Round(float64(res.CurrentRegistrations) / res.AvgFinal * 100))
	}

	target.Curve = curve.Build(target.Records)
	all := append(append([]model.Edition{}, others...), *target)
	res.Overlay = buildOverlay(all, func(e model.Edition) string { return e.Key.Edition })

	zap.L().Debug("compare: comparison built",
		zap.String("brand", brand),
		zap.String("edition", edition),
		zap.Int("current_days_before", res.CurrentDaysBefore),
		zap.Int("current_registrations", res.CurrentRegistrations),
		zap.Int("prior_editions", len(others)),
		zap.Int("with_data_at_point", countAtPoint),
	)
	return res
}

// deltaFor compares the target's current count against one prior
// edition at the same offset. Editions with nothing accumulated at
// that offset keep nil deltas: insufficient data stays visible
// instead of being silently hidden.
func deltaFor(prior *model.Edition, daysBefore, current int) model.EditionDelta {
	d := model.EditionDelta{
		Edition:     prior.Key.Edition,
		EventDate:   prior.EventDate,
		TotalFinal:  prior.Total(),
		AtSamePoint: curve.At(prior.Curve, daysBefore),
	}
	if d.AtSamePoint == 0 {
		return d
	}
	delta := current - d.AtSamePoint
	pct := float64(delta) / float64(d.AtSamePoint) * 100
	projected := int(math.Round(float64(current) / float64(d.AtSamePoint) * float64(d.TotalFinal)))
	d.Delta = &delta
	d.DeltaPercent = &pct
	d.ProjectedFinal = &projected
	return d
}

// buildOverlay produces one row per offset from the global maximum
// down to 0, with one point per edition. A nil value means that
// edition's curve does not reach that far back.
func buildOverlay(editions []model.Edition, label func(model.Edition) string) []model.OverlayRow {
	globalMax := -1
	for _, e := range editions {
		if m := curve.MaxDay(e.Curve); m > globalMax {
			globalMax = m
		}
	}
	if globalMax < 0 {
		return nil
	}

	rows := make([]model.OverlayRow, 0, globalMax+1)
	for d := globalMax; d >= 0; d-- {
		row := model.OverlayRow{DaysBefore: d}
		for _, e := range editions {
			p := model.OverlayPoint{Label: label(e)}
			if d <= curve.MaxDay(e.Curve) {
				v := curve.At(e.Curve, d)
				p.Value = &v
			}
			row.Points = append(row.Points, p)
		}
		rows = append(rows, row)
	}
	return rows
}
