//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"restore-scheduler/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindows(t *testing.T) {
	windows := schedule.Windows()

	require.Len(t, windows, 3)
	assert.Equal(t, schedule.Window{Start: "18:00", End: "19:00"}, windows[0])
	assert.Equal(t, schedule.Window{Start: "19:00", End: "20:00"}, windows[1])
	assert.Equal(t, schedule.Window{Start: "20:00", End: "21:00"}, windows[2])

	// Returned slice is a copy; mutating it must not leak into the calendar
	windows[0].Start = "00:00"
	assert.Equal(t, "18:00", schedule.FirstWindowStart())
}

func TestIsEligibleWeekday(t *testing.T) {
	cases := []struct {
		date     string
		eligible bool
	}{
		{"2026-01-05", true},  // Monday
		{"2026-01-06", true},  // Tuesday
		{"2026-01-07", true},  // Wednesday
		{"2026-01-08", false}, // Thursday
		{"2026-01-09", true},  // Friday
		{"2026-01-10", false}, // Saturday
		{"2026-01-11", false}, // Sunday
	}

	for _, tc := range cases {
		t.Run(tc.date, func(t *testing.T) {
			d, err := time.ParseInLocation(schedule.DateLayout, tc.date, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tc.eligible, schedule.IsEligibleWeekday(d))
		})
	}
}

func TestDayOf(t *testing.T) {
	instant := time.Date(2026, 1, 5, 23, 59, 59, 123, time.FixedZone("EAT", 3*3600))

	day := schedule.DayOf(instant)

	// 23:59 EAT is 20:59 UTC, still the same UTC calendar day
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), day)
}

func TestSearchStart(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("before first window starts today", func(t *testing.T) {
		now := monday.Add(10 * time.Hour)
		assert.Equal(t, monday, schedule.SearchStart(now))
	})

	t.Run("minute before boundary starts today", func(t *testing.T) {
		now := monday.Add(17*time.Hour + 59*time.Minute)
		assert.Equal(t, monday, schedule.SearchStart(now))
	})

	t.Run("at first window start moves to tomorrow", func(t *testing.T) {
		now := monday.Add(18 * time.Hour)
		assert.Equal(t, monday.AddDate(0, 0, 1), schedule.SearchStart(now))
	})

	t.Run("after first window start moves to tomorrow", func(t *testing.T) {
		now := monday.Add(22 * time.Hour)
		assert.Equal(t, monday.AddDate(0, 0, 1), schedule.SearchStart(now))
	})
}

func TestReconstructSlot(t *testing.T) {
	t.Run("valid slot", func(t *testing.T) {
		slot, err := schedule.ReconstructSlot("2026-01-05", "18:00", "19:00")
		require.NoError(t, err)

		assert.Equal(t, "2026-01-05", slot.DateString())
		assert.Equal(t, "18:00", slot.StartTime())
		assert.Equal(t, "19:00", slot.EndTime())
	})

	t.Run("invalid inputs", func(t *testing.T) {
		cases := []struct {
			name             string
			date, start, end string
			errIs            error
		}{
			{name: "malformed date", date: "05/01/2026", start: "18:00", end: "19:00", errIs: schedule.ErrInvalidSlotDate},
			{name: "malformed start", date: "2026-01-05", start: "6pm", end: "19:00", errIs: schedule.ErrInvalidSlotTime},
			{name: "malformed end", date: "2026-01-05", start: "18:00", end: "", errIs: schedule.ErrInvalidSlotTime},
			{name: "start equals end", date: "2026-01-05", start: "18:00", end: "18:00", errIs: schedule.ErrInvalidSlotTime},
			{name: "start after end", date: "2026-01-05", start: "19:00", end: "18:00", errIs: schedule.ErrInvalidSlotTime},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := schedule.ReconstructSlot(tc.date, tc.start, tc.end)
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})
}

func TestSlotOccupies(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	windows := schedule.Windows()

	base := schedule.NewSlot(monday, windows[0])

	assert.True(t, base.Occupies(schedule.NewSlot(monday, windows[0])))
	assert.False(t, base.Occupies(schedule.NewSlot(monday, windows[1])))
	assert.False(t, base.Occupies(schedule.NewSlot(monday.AddDate(0, 0, 1), windows[0])))
}
