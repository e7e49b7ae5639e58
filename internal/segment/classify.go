package segment

import (
	"sort"
	"strings"
	"time"

	"github.com/clubpulse/pacing-cli/internal/model"
)

// Segment thresholds. Priority order is a policy decision: the fedeli
// check precedes ghost, so a loyal user who never converts classifies
// as fedeli, not ghost.
const (
	vipConversion = 80.0
	fedeliEvents  = 3
)

// ClassifyUsers aggregates every identifiable user across all records
// and assigns a loyalty segment. Output is sorted by name for
// deterministic listings.
func ClassifyUsers(records []model.AttendanceRecord) []model.UserStats {
	type acc struct {
		stats    model.UserStats
		editions map[model.EditionKey]bool
	}
	byKey := map[string]*acc{}
	var order []string

	for _, r := range records {
		key := userKey(r)
		if key == "" {
			continue
		}
		a, ok := byKey[key]
		if !ok {
			a = &acc{editions: map[model.EditionKey]bool{}}
			byKey[key] = a
			order = append(order, key)
		}
		s := &a.stats
		if s.FullName == "" {
			s.FullName = r.FullName()
		}
		if s.Email == "" {
			s.Email = strings.ToLower(r.Email)
		}
		if s.Phone == "" {
			s.Phone = r.Phone
		}
		if s.BirthDate == nil {
			s.BirthDate = r.BirthDate
		}
		if s.Gender == "" {
			s.Gender = r.Gender
		}
		s.TotalRegs++
		if r.Attended {
			s.TotalParticipated++
		}
		a.editions[model.EditionKey{Brand: r.Brand, Edition: r.Edition}] = true
	}

	out := make([]model.UserStats, 0, len(order))
	for _, key := range order {
		a := byKey[key]
		s := a.stats
		s.EventCount = len(a.editions)
		if s.TotalRegs > 0 {
			s.Conversion = float64(s.TotalParticipated) / float64(s.TotalRegs) * 100
		}
		s.Segment = classify(s)
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FullName != out[j].FullName {
			return out[i].FullName < out[j].FullName
		}
		return out[i].Email < out[j].Email
	})
	return out
}

func classify(s model.UserStats) model.Segment {
	switch {
	case s.Conversion >= vipConversion:
		return model.SegmentVIP
	case s.EventCount >= fedeliEvents:
		return model.SegmentFedeli
	case s.Conversion == 0:
		return model.SegmentGhost
	default:
		return model.SegmentOccasionali
	}
}

// UpcomingBirthdays filters users whose birthday falls within the
// next withinDays days, for the outreach view. Year boundaries wrap.
func UpcomingBirthdays(users []model.UserStats, now time.Time, withinDays int) []model.UserStats {
	var out []model.UserStats
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, u := range users {
		if u.BirthDate == nil {
			continue
		}
		next := time.Date(now.Year(), u.BirthDate.Month(), u.BirthDate.Day(), 0, 0, 0, 0, time.UTC)
		if next.Before(today) {
			next = next.AddDate(1, 0, 0)
		}
		if int(next.Sub(today).Hours()/24) <= withinDays {
			out = append(out, u)
		}
	}
	return out
}
