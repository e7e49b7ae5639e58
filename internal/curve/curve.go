// Package curve builds cumulative registration curves on the
// days-before-event axis, the common timeline that lets editions held
// on different calendar dates be compared point for point.
package curve

import "github.com/clubpulse/pacing-cli/internal/model"

// Build returns the cumulative registration count keyed by days
// before the event: curve[d] is the total number of registrations
// received by d days out. Only records with a known days-before
// offset participate. The result is non-decreasing as d falls toward
// zero; empty input yields an empty map.
func Build(records []model.AttendanceRecord) map[int]int {
	perDay := map[int]int{}
	maxDays := -1
	for _, r := range records {
		if r.DaysBefore == nil {
			continue
		}
		d := *r.DaysBefore
		perDay[d]++
		if d > maxDays {
			maxDays = d
		}
	}
	if maxDays < 0 {
		return map[int]int{}
	}

	out := make(map[int]int, maxDays+1)
	total := 0
	for d := maxDays; d >= 0; d-- {
		total += perDay[d]
		out[d] = total
	}
	return out
}

// MaxDay returns the largest key of a curve, or -1 for an empty curve.
func MaxDay(c map[int]int) int {
	max := -1
	for d := range c {
		if d > max {
			max = d
		}
	}
	return max
}

// At reads a curve at offset d. Offsets beyond the curve's reach
// return 0: that edition had no registrations yet at that point.
func At(c map[int]int, d int) int {
	if v, ok := c[d]; ok {
		return v
	}
	return 0
}
