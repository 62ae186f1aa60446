package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/AH-BookingEngine/pkg/types"
)

func tsPtr(s string) *types.TimeString {
	ts := types.TimeString(s)
	return &ts
}

func TestDayAvailability_Validate(t *testing.T) {
	t.Run("inactive day needs no times", func(t *testing.T) {
		day := DayAvailability{Active: false}
		assert.NoError(t, day.Validate())
	})

	t.Run("valid day with break", func(t *testing.T) {
		day := DayAvailability{
			Active:     true,
			StartTime:  "09:00",
			EndTime:    "18:00",
			BreakStart: tsPtr("12:00"),
			BreakEnd:   tsPtr("13:00"),
		}
		assert.NoError(t, day.Validate())
	})

	t.Run("start must precede end", func(t *testing.T) {
		day := DayAvailability{Active: true, StartTime: "18:00", EndTime: "09:00"}
		assert.ErrorIs(t, day.Validate(), ErrInvalidRule)
	})

	t.Run("break must be complete", func(t *testing.T) {
		day := DayAvailability{
			Active:     true,
			StartTime:  "09:00",
			EndTime:    "18:00",
			BreakStart: tsPtr("12:00"),
		}
		assert.ErrorIs(t, day.Validate(), ErrInvalidRule)
	})

	t.Run("break must lie inside the window", func(t *testing.T) {
		day := DayAvailability{
			Active:     true,
			StartTime:  "09:00",
			EndTime:    "18:00",
			BreakStart: tsPtr("08:00"),
			BreakEnd:   tsPtr("10:00"),
		}
		assert.ErrorIs(t, day.Validate(), ErrInvalidRule)
	})
}

func TestDayAvailability_OpenWindows(t *testing.T) {
	t.Run("no break yields one window", func(t *testing.T) {
		day := DayAvailability{Active: true, StartTime: "09:00", EndTime: "18:00"}
		windows := day.OpenWindows()
		require.Len(t, windows, 1)
		assert.Equal(t, types.TimeString("09:00"), windows[0].Start)
		assert.Equal(t, types.TimeString("18:00"), windows[0].End)
	})

	t.Run("break splits the day in two", func(t *testing.T) {
		day := DayAvailability{
			Active:     true,
			StartTime:  "09:00",
			EndTime:    "18:00",
			BreakStart: tsPtr("12:00"),
			BreakEnd:   tsPtr("13:00"),
		}
		windows := day.OpenWindows()
		require.Len(t, windows, 2)
		assert.Equal(t, types.TimeString("09:00"), windows[0].Start)
		assert.Equal(t, types.TimeString("12:00"), windows[0].End)
		assert.Equal(t, types.TimeString("13:00"), windows[1].Start)
		assert.Equal(t, types.TimeString("18:00"), windows[1].End)
	})

	t.Run("break at the window edge drops the empty side", func(t *testing.T) {
		day := DayAvailability{
			Active:     true,
			StartTime:  "09:00",
			EndTime:    "18:00",
			BreakStart: tsPtr("09:00"),
			BreakEnd:   tsPtr("10:00"),
		}
		windows := day.OpenWindows()
		require.Len(t, windows, 1)
		assert.Equal(t, types.TimeString("10:00"), windows[0].Start)
	})

	t.Run("inactive day has no windows", func(t *testing.T) {
		day := DayAvailability{Active: false}
		assert.Empty(t, day.OpenWindows())
	})
}

func TestOverlaps(t *testing.T) {
	// Строгое неравенство: граничащие интервалы не пересекаются
	assert.True(t, Overlaps("11:20", "11:40", "11:30", "12:00"))
	assert.False(t, Overlaps("11:00", "11:30", "11:30", "12:00"))
	assert.False(t, Overlaps("12:00", "12:30", "11:30", "12:00"))
	assert.True(t, Overlaps("11:30", "12:00", "11:30", "12:00"))
	assert.True(t, Overlaps("11:00", "13:00", "11:30", "12:00"))
}

func TestOpenWindow_Contains(t *testing.T) {
	window := OpenWindow{Start: "09:00", End: "12:00"}

	assert.True(t, window.Contains("09:00", 60))
	assert.True(t, window.Contains("11:00", 60))
	// Слот заканчивается ровно на границе окна - помещается
	assert.True(t, window.Contains("11:30", 30))
	// Слот выходит за границу окна
	assert.False(t, window.Contains("11:30", 60))
	assert.False(t, window.Contains("08:30", 60))
}

func TestAvailabilityOverride_Validate(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("blocked day needs nothing else", func(t *testing.T) {
		o := AvailabilityOverride{ProfessionalID: 1, Date: date, Blocked: true}
		assert.NoError(t, o.Validate())
	})

	t.Run("non-blocked override requires replacement", func(t *testing.T) {
		o := AvailabilityOverride{ProfessionalID: 1, Date: date}
		assert.ErrorIs(t, o.Validate(), ErrInvalidRule)
	})

	t.Run("replacement is validated as a day", func(t *testing.T) {
		o := AvailabilityOverride{
			ProfessionalID: 1,
			Date:           date,
			Replacement:    &DayAvailability{Active: true, StartTime: "18:00", EndTime: "09:00"},
		}
		assert.ErrorIs(t, o.Validate(), ErrInvalidRule)
	})
}

func TestAvailabilityOverride_DayAvailability(t *testing.T) {
	blocked := AvailabilityOverride{Blocked: true, Replacement: &DayAvailability{Active: true}}
	assert.False(t, blocked.DayAvailability().Active)

	replaced := AvailabilityOverride{
		Replacement: &DayAvailability{Active: true, StartTime: "10:00", EndTime: "14:00"},
	}
	day := replaced.DayAvailability()
	assert.True(t, day.Active)
	assert.Equal(t, types.TimeString("10:00"), day.StartTime)
}
