// Package segment classifies attendees: per-edition registered and
// retarget outreach lists, and per-user loyalty segments.
package segment

import (
	"sort"
	"strings"
	"time"

	"github.com/clubpulse/pacing-cli/internal/model"
)

// userKey deduplicates by email when present, full name otherwise.
// Records with neither are unidentifiable and skipped.
func userKey(r model.AttendanceRecord) string {
	if e := strings.ToLower(strings.TrimSpace(r.Email)); e != "" {
		return e
	}
	return strings.ToLower(strings.TrimSpace(r.FullName()))
}

// recency returns the best-known date of a record's event for
// most-recent-attendance ordering.
func recency(r model.AttendanceRecord) *time.Time {
	switch {
	case r.EventDate != nil:
		return r.EventDate
	case r.ScanDate != nil:
		return r.ScanDate
	default:
		return &r.PurchaseDate
	}
}

// EditionUserLists partitions the brand's historical attendees
// relative to the target edition: registered users (already on the
// target's list) and retarget candidates (attended another edition of
// the brand, not registered for the target). Contact fields keep the
// most complete values seen across a user's records.
func EditionUserLists(records []model.AttendanceRecord, brand, edition string) *model.EditionUserLists {
	out := &model.EditionUserLists{
		Target: model.EditionKey{Brand: brand, Edition: edition},
	}

	registered := map[string]*model.RegisteredUser{}
	var regOrder []string
	for _, r := range records {
		if r.Brand != brand || r.Edition != edition {
			continue
		}
		key := userKey(r)
		if key == "" {
			continue
		}
		u, ok := registered[key]
		if !ok {
			u = &model.RegisteredUser{}
			registered[key] = u
			regOrder = append(regOrder, key)
		}
		fillRegistered(u, r)
	}

	type retargetAcc struct {
		user     model.RetargetUser
		editions map[string]bool
	}
	retarget := map[string]*retargetAcc{}
	var retOrder []string
	for _, r := range records {
		if r.Brand != brand || r.Edition == edition || !r.Attended {
			continue
		}
		key := userKey(r)
		if key == "" {
			continue
		}
		if _, onList := registered[key]; onList {
			continue
		}
		acc, ok := retarget[key]
		if !ok {
			acc = &retargetAcc{editions: map[string]bool{}}
			retarget[key] = acc
			retOrder = append(retOrder, key)
		}
		fillRetarget(&acc.user, r)
		if !acc.editions[r.Edition] {
			acc.editions[r.Edition] = true
			acc.user.PastEditions = append(acc.user.PastEditions, r.Edition)
		}
		if d := recency(r); d != nil {
			if acc.user.LastEventDate == nil || d.After(*acc.user.LastEventDate) {
				acc.user.LastEventDate = d
			}
		}
	}

	for _, key := range regOrder {
		out.Registered = append(out.Registered, *registered[key])
	}
	for _, key := range retOrder {
		out.Retarget = append(out.Retarget, retarget[key].user)
	}

	// Outreach order: reachable-by-phone first, most recent first.
	sort.SliceStable(out.Retarget, func(i, j int) bool {
		ci, cj := out.Retarget[i].Contactable(), out.Retarget[j].Contactable()
		if ci != cj {
			return ci
		}
		di, dj := out.Retarget[i].LastEventDate, out.Retarget[j].LastEventDate
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.After(*dj)
		}
	})
	return out
}

func fillRegistered(u *model.RegisteredUser, r model.AttendanceRecord) {
	if u.FullName == "" {
		u.FullName = r.FullName()
	}
	if u.Email == "" {
		u.Email = strings.ToLower(r.Email)
	}
	if u.Phone == "" {
		u.Phone = r.Phone
	}
	if u.BirthDate == nil {
		u.BirthDate = r.BirthDate
	}
	if u.Gender == "" {
		u.Gender = r.Gender
	}
	if r.Attended {
		u.Attended = true
	}
}

func fillRetarget(u *model.RetargetUser, r model.AttendanceRecord) {
	if u.FullName == "" {
		u.FullName = r.FullName()
	}
	if u.Email == "" {
		u.Email = strings.ToLower(r.Email)
	}
	if u.Phone == "" {
		u.Phone = r.Phone
	}
}
