package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubpulse/pacing-cli/internal/model"
)

func recAt(days int) model.AttendanceRecord {
	d := days
	return model.AttendanceRecord{DaysBefore: &d}
}

func TestBuild(t *testing.T) {
	records := []model.AttendanceRecord{
		recAt(10), recAt(10), recAt(7), recAt(3), recAt(0), recAt(0),
	}
	c := Build(records)

	require.Equal(t, 11, len(c))
	assert.Equal(t, 2, c[10])
	assert.Equal(t, 2, c[9])
	assert.Equal(t, 3, c[7])
	assert.Equal(t, 4, c[3])
	assert.Equal(t, 4, c[1])
	assert.Equal(t, 6, c[0])

	// Non-decreasing toward day 0.
	for d := 10; d > 0; d-- {
		assert.LessOrEqual(t, c[d], c[d-1])
	}
}

func TestBuildSkipsRecordsWithoutOffset(t *testing.T) {
	records := []model.AttendanceRecord{
		recAt(5),
		{DaysBefore: nil},
		recAt(0),
	}
	c := Build(records)
	assert.Equal(t, 2, c[0])
}

func TestBuildEmpty(t *testing.T) {
	c := Build(nil)
	assert.Empty(t, c)
	assert.Equal(t, -1, MaxDay(c))
}

func TestAt(t *testing.T) {
	c := Build([]model.AttendanceRecord{recAt(5), recAt(2)})
	assert.Equal(t, 1, At(c, 5))
	assert.Equal(t, 2, At(c, 0))
	// Beyond the curve's reach means no registrations yet.
	assert.Equal(t, 0, At(c, 30))
	assert.Equal(t, 5, MaxDay(c))
}
