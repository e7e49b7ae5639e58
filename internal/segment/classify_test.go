package segment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubpulse/pacing-cli/internal/model"
)

func TestClassifyUsers(t *testing.T) {
	records := []model.AttendanceRecord{
		// Vip: 4 of 5 registrations converted (80%).
		rec("BESAME", "02.11.24", "Vip", "User", "vip@example.com", "", true, nil),
		rec("BESAME", "07.12.24", "Vip", "User", "vip@example.com", "", true, nil),
		rec("BESAME", "11.01.25", "Vip", "User", "vip@example.com", "", true, nil),
		rec("CARIBE", "23.11.24", "Vip", "User", "vip@example.com", "", true, nil),
		rec("BESAME", "01.11.25", "Vip", "User", "vip@example.com", "", false, nil),
		// Fedeli: 3 distinct editions, 50% conversion. The fedeli check
		// precedes ghost/occasionali.
		rec("BESAME", "02.11.24", "Fede", "Le", "fede@example.com", "", true, nil),
		rec("BESAME", "07.12.24", "Fede", "Le", "fede@example.com", "", false, nil),
		rec("BESAME", "11.01.25", "Fede", "Le", "fede@example.com", "", true, nil),
		rec("BESAME", "11.01.25", "Fede", "Le", "fede@example.com", "", false, nil),
		// Ghost: registered, never showed up.
		rec("BESAME", "02.11.24", "Gho", "St", "ghost@example.com", "", false, nil),
		rec("BESAME", "07.12.24", "Gho", "St", "ghost@example.com", "", false, nil),
		// Occasionale: one of two converted.
		rec("BESAME", "02.11.24", "Occa", "Sio", "occa@example.com", "", true, nil),
		rec("BESAME", "07.12.24", "Occa", "Sio", "occa@example.com", "", false, nil),
	}

	users := ClassifyUsers(records)
	require.Len(t, users, 4)

	byName := map[string]model.UserStats{}
	for _, u := range users {
		byName[u.FullName] = u
	}

	vip := byName["Vip User"]
	assert.Equal(t, model.SegmentVIP, vip.Segment)
	assert.Equal(t, 5, vip.TotalRegs)
	assert.Equal(t, 4, vip.TotalParticipated)
	assert.Equal(t, 5, vip.EventCount)
	assert.InDelta(t, 80.0, vip.Conversion, 0.001)

	fede := byName["Fede Le"]
	assert.Equal(t, model.SegmentFedeli, fede.Segment)
	assert.Equal(t, 3, fede.EventCount, "distinct editions, not rows")
	assert.InDelta(t, 50.0, fede.Conversion, 0.001)

	assert.Equal(t, model.SegmentGhost, byName["Gho St"].Segment)
	assert.Equal(t, model.SegmentOccasionali, byName["Occa Sio"].Segment)

	// Sorted by name for deterministic listings.
	assert.Equal(t, "Fede Le", users[0].FullName)
}

func TestClassifyPriority(t *testing.T) {
	// 100% conversion across 4 editions: vip wins over fedeli.
	assert.Equal(t, model.SegmentVIP, classify(model.UserStats{Conversion: 100, EventCount: 4}))
	// Loyal but zero conversion: fedeli wins over ghost.
	assert.Equal(t, model.SegmentFedeli, classify(model.UserStats{Conversion: 0, EventCount: 3}))
	assert.Equal(t, model.SegmentGhost, classify(model.UserStats{Conversion: 0, EventCount: 1}))
	assert.Equal(t, model.SegmentOccasionali, classify(model.UserStats{Conversion: 50, EventCount: 2}))
	// Exactly at the vip threshold.
	assert.Equal(t, model.SegmentVIP, classify(model.UserStats{Conversion: 80, EventCount: 1}))
}

func TestUpcomingBirthdays(t *testing.T) {
	now := time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC)
	bdSoon := time.Date(1995, 1, 3, 0, 0, 0, 0, time.UTC) // wraps the year boundary
	bdToday := time.Date(1990, 12, 28, 0, 0, 0, 0, time.UTC)
	bdFar := time.Date(1992, 6, 15, 0, 0, 0, 0, time.UTC)

	users := []model.UserStats{
		{FullName: "Soon", BirthDate: &bdSoon},
		{FullName: "Today", BirthDate: &bdToday},
		{FullName: "Far", BirthDate: &bdFar},
		{FullName: "NoBirth"},
	}

	got := UpcomingBirthdays(users, now, 7)
	require.Len(t, got, 2)
	names := []string{got[0].FullName, got[1].FullName}
	assert.ElementsMatch(t, []string{"Soon", "Today"}, names)
}
