// Package projection estimates an in-progress edition's final
// registration count from its predecessors. Two models: an ordinary
// least-squares fit at the current offset, and a per-day regression
// ensemble with exponential recency weighting. Both are deterministic
// and both prefer returning nil over returning a number they cannot
// stand behind.
package projection

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/clubpulse/pacing-cli/internal/compare"
	"github.com/clubpulse/pacing-cli/internal/curve"
	"github.com/clubpulse/pacing-cli/internal/model"
	"github.com/clubpulse/pacing-cli/internal/temporal"
)

// decayRate controls how strongly predictions made closer to the
// event dominate the ensemble: weight(d) = decayRate^(maxDay-d).
const decayRate = 2.0

// Project runs both models for the target edition. Nil fields mean
// insufficient history. Returns nil when the target edition itself
// has no records or no event date.
func Project(records []model.AttendanceRecord, brand, edition string, now time.Time) *model.Projection {
	targetKey := model.EditionKey{Brand: brand, Edition: edition}

	var target *model.Edition
	var priors []model.Edition
	for _, e := range compare.GroupEditions(records) {
		if e.Key == targetKey {
			t := e
			target = &t
			continue
		}
		if e.Key.Brand == brand {
			e.Curve = curve.Build(e.Records)
			priors = append(priors, e)
		}
	}
	if target == nil || len(target.Records) == 0 || target.EventDate == nil {
		return nil
	}
	target.Curve = curve.Build(target.Records)

	currentDays := temporal.DaysBefore(*target.EventDate, now)
	current := target.Total()

	proj := &model.Projection{}
	proj.Linear = Linear(priors, currentDays, current)
	proj.Ensemble = Ensemble(priors, target.Curve, current, proj.Linear)

	zap.L().Debug("projection: models evaluated",
		zap.String("brand", brand),
		zap.String("edition", edition),
		zap.Int("current", current),
		zap.Int("priors", len(priors)),
		zap.Bool("linear_ok", proj.Linear != nil),
		zap.Bool("ensemble_ok", proj.Ensemble != nil),
	)
	return proj
}

// Linear fits final = a*x + b over (x = prior's cumulative count at
// the current offset, y = prior's final total) and evaluates it at the
// target's current count. Requires at least two prior editions with a
// positive count at the offset; rejects a non-positive slope and any
// projection below the current count, since a projection must not
// predict shrinkage.
func Linear(priors []model.Edition, currentDays, current int) *float64 {
	var xs, ys []float64
	for _, p := range priors {
		at := curve.At(p.Curve, currentDays)
		if at > 0 {
			xs = append(xs, float64(at))
			ys = append(ys, float64(p.Total()))
		}
	}
	if len(xs) < 2 {
		return nil
	}

	a, b, ok := fitOLS(xs, ys)
	if !ok || a <= 0 {
		return nil
	}
	projected := a*float64(current) + b
	if projected < float64(current) {
		return nil
	}
	return &projected
}

// Ensemble fits one regression per day from the furthest observed
// offset down to 1, each over (prior's cumulative at d, prior's final
// total), evaluated at the target's own cumulative at d. A day
// contributes a candidate only when it has at least two usable points
// and its prediction exceeds what the target had already accumulated
// at that day. The linear model's result joins as the d=0 candidate.
// Candidates combine by exponential recency weighting.
func Ensemble(priors []model.Edition, targetCurve map[int]int, current int, linear *float64) *float64 {
	maxDay := -1
	for _, p := range priors {
		if m := curve.MaxDay(p.Curve); m > maxDay {
			maxDay = m
		}
	}

	type candidate struct {
		day  int
		pred float64
	}
	var candidates []candidate

	for d := maxDay; d >= 1; d-- {
		var xs, ys []float64
		for _, p := range priors {
			if d > curve.MaxDay(p.Curve) {
				continue
			}
			xs = append(xs, float64(curve.At(p.Curve, d)))
			ys = append(ys, float64(p.Total()))
		}
		if len(xs) < 2 {
			continue
		}
		a, b, ok := fitOLS(xs, ys)
		if !ok {
			continue
		}
		targetAt := float64(curve.At(targetCurve, d))
		pred := a*targetAt + b
		if pred > targetAt {
			candidates = append(candidates, candidate{day: d, pred: pred})
		}
	}

	if linear != nil {
		candidates = append(candidates, candidate{day: 0, pred: *linear})
	}
	if len(candidates) == 0 {
		return nil
	}
	if maxDay < 0 {
		maxDay = 0
	}

	var weighted, weights float64
	for _, c := range candidates {
		w := math.Pow(decayRate, float64(maxDay-c.day))
		weighted += w * c.pred
		weights += w
	}
	projected := weighted / weights
	if projected < float64(current) {
		return nil
	}
	return &projected
}

// fitOLS fits y = a*x + b by ordinary least squares. ok is false when
// the points are degenerate (fewer than two, or zero x variance).
func fitOLS(xs, ys []float64) (a, b float64, ok bool) {
	n := float64(len(xs))
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, 0, false
	}
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, 0, false
	}
	a = (n*sumXY - sumX*sumY) / den
	b = (sumY - a*sumX) / n
	return a, b, true
}
