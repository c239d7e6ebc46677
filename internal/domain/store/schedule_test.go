package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-01-05 is a Monday
func monday(hour, min int) time.Time {
	return time.Date(2026, 1, 5, hour, min, 0, 0, time.UTC)
}

func scheduleWith(days map[time.Weekday][]TimeInterval) WeeklySchedule {
	var ws WeeklySchedule
	for day, intervals := range days {
		ws[day] = DaySchedule{Enabled: true, Intervals: intervals}
	}
	return ws
}

func TestValidateWeeklySchedule(t *testing.T) {
	t.Run("accepts single window per day", func(t *testing.T) {
		ws := scheduleWith(map[time.Weekday][]TimeInterval{
			time.Monday: {{Open: "11:00", Close: "23:00"}},
		})

		assert.NoError(t, ValidateWeeklySchedule(ws))
	})

	t.Run("accepts lunch and dinner windows", func(t *testing.T) {
		ws := scheduleWith(map[time.Weekday][]TimeInterval{
			time.Saturday: {
				{Open: "11:00", Close: "14:30"},
				{Open: "18:00", Close: "23:00"},
			},
		})

		assert.NoError(t, ValidateWeeklySchedule(ws))
	})

	t.Run("accepts midnight-spanning last window", func(t *testing.T) {
		ws := scheduleWith(map[time.Weekday][]TimeInterval{
			time.Friday: {
				{Open: "11:00", Close: "14:00"},
				{Open: "18:00", Close: "02:00"},
			},
		})

		assert.NoError(t, ValidateWeeklySchedule(ws))
	})

	t.Run("accepts empty schedule", func(t *testing.T) {
		assert.NoError(t, ValidateWeeklySchedule(EmptyWeeklySchedule()))
	})

	t.Run("rejects enabled day without hours", func(t *testing.T) {
		var ws WeeklySchedule
		ws[int(time.Monday)] = DaySchedule{Enabled: true}

		err := ValidateWeeklySchedule(ws)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no opening hours")
	})

	t.Run("rejects more than two windows", func(t *testing.T) {
		ws := scheduleWith(map[time.Weekday][]TimeInterval{
			time.Monday: {
				{Open: "08:00", Close: "10:00"},
				{Open: "11:00", Close: "14:00"},
				{Open: "18:00", Close: "22:00"},
			},
		})

		err := ValidateWeeklySchedule(ws)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than two")
	})

	t.Run("rejects malformed clock values", func(t *testing.T) {
		for _, bad := range []string{"9:00", "25:00", "11:70", "11h00", ""} {
			ws := scheduleWith(map[time.Weekday][]TimeInterval{
				time.Monday: {{Open: bad, Close: "23:00"}},
			})
			assert.Error(t, ValidateWeeklySchedule(ws), "open %q should be rejected", bad)
		}
	})

	t.Run("rejects zero-length window", func(t *testing.T) {
		ws := scheduleWith(map[time.Weekday][]TimeInterval{
			time.Monday: {{Open: "11:00", Close: "11:00"}},
		})

		err := ValidateWeeklySchedule(ws)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "zero-length")
	})

	t.Run("rejects overlapping windows", func(t *testing.T) {
		ws := scheduleWith(map[time.Weekday][]TimeInterval{
			time.Monday: {
				{Open: "11:00", Close: "15:00"},
				{Open: "14:00", Close: "22:00"},
			},
		})

		err := ValidateWeeklySchedule(ws)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "overlapping")
	})

	t.Run("rejects midnight-spanning first window when a second exists", func(t *testing.T) {
		ws := scheduleWith(map[time.Weekday][]TimeInterval{
			time.Monday: {
				{Open: "22:00", Close: "02:00"},
				{Open: "08:00", Close: "11:00"},
			},
		})

		err := ValidateWeeklySchedule(ws)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "span midnight")
	})
}

func TestValidateBlockedDates(t *testing.T) {
	t.Run("accepts ISO dates", func(t *testing.T) {
		assert.NoError(t, ValidateBlockedDates([]string{"2026-12-25", "2026-01-01"}))
	})

	t.Run("rejects other formats", func(t *testing.T) {
		for _, bad := range []string{"25/12/2026", "2026-13-01", "2026-1-1", "natal"} {
			assert.Error(t, ValidateBlockedDates([]string{bad}), "date %q should be rejected", bad)
		}
	})
}

func TestIsOpen(t *testing.T) {
	lunchAndDinner := scheduleWith(map[time.Weekday][]TimeInterval{
		time.Monday: {
			{Open: "11:00", Close: "14:00"},
			{Open: "18:00", Close: "23:00"},
		},
	})

	t.Run("open inside a window", func(t *testing.T) {
		assert.True(t, IsOpen(lunchAndDinner, nil, monday(12, 30)))
		assert.True(t, IsOpen(lunchAndDinner, nil, monday(19, 0)))
	})

	t.Run("open exactly at opening time", func(t *testing.T) {
		assert.True(t, IsOpen(lunchAndDinner, nil, monday(11, 0)))
	})

	t.Run("closed exactly at closing time", func(t *testing.T) {
		assert.False(t, IsOpen(lunchAndDinner, nil, monday(14, 0)))
	})

	t.Run("closed between windows", func(t *testing.T) {
		assert.False(t, IsOpen(lunchAndDinner, nil, monday(15, 30)))
	})

	t.Run("closed before and after hours", func(t *testing.T) {
		assert.False(t, IsOpen(lunchAndDinner, nil, monday(9, 0)))
		assert.False(t, IsOpen(lunchAndDinner, nil, monday(23, 30)))
	})

	t.Run("closed on a disabled day", func(t *testing.T) {
		tuesday := monday(12, 30).AddDate(0, 0, 1)

		assert.False(t, IsOpen(lunchAndDinner, nil, tuesday))
	})

	t.Run("closed on a blocked date", func(t *testing.T) {
		assert.False(t, IsOpen(lunchAndDinner, []string{"2026-01-05"}, monday(12, 30)))
	})

	t.Run("blocked date elsewhere does not close", func(t *testing.T) {
		assert.True(t, IsOpen(lunchAndDinner, []string{"2026-01-12"}, monday(12, 30)))
	})

	overnight := scheduleWith(map[time.Weekday][]TimeInterval{
		time.Monday: {{Open: "18:00", Close: "02:00"}},
	})

	t.Run("midnight-spanning window open late evening", func(t *testing.T) {
		assert.True(t, IsOpen(overnight, nil, monday(23, 45)))
	})

	t.Run("midnight-spanning window open after midnight", func(t *testing.T) {
		tuesdayEarly := time.Date(2026, 1, 6, 1, 30, 0, 0, time.UTC)

		assert.True(t, IsOpen(overnight, nil, tuesdayEarly))
	})

	t.Run("midnight-spanning window closed after its close", func(t *testing.T) {
		tuesdayMorning := time.Date(2026, 1, 6, 2, 0, 0, 0, time.UTC)

		assert.False(t, IsOpen(overnight, nil, tuesdayMorning))
	})

	t.Run("blocked date suppresses the overnight tail", func(t *testing.T) {
		tuesdayEarly := time.Date(2026, 1, 6, 1, 30, 0, 0, time.UTC)

		assert.False(t, IsOpen(overnight, []string{"2026-01-05"}, tuesdayEarly))
		assert.False(t, IsOpen(overnight, []string{"2026-01-06"}, tuesdayEarly))
	})
}

func TestNextValidOrderTime(t *testing.T) {
	lunchAndDinner := scheduleWith(map[time.Weekday][]TimeInterval{
		time.Monday:  {{Open: "11:00", Close: "14:00"}, {Open: "18:00", Close: "23:00"}},
		time.Tuesday: {{Open: "11:00", Close: "14:00"}},
	})

	t.Run("returns from when already open", func(t *testing.T) {
		from := monday(12, 30)

		next, err := NextValidOrderTime(lunchAndDinner, nil, from)

		require.NoError(t, err)
		assert.Equal(t, from, next)
	})

	t.Run("returns same-day opening before hours", func(t *testing.T) {
		next, err := NextValidOrderTime(lunchAndDinner, nil, monday(8, 0))

		require.NoError(t, err)
		assert.Equal(t, monday(11, 0), next)
	})

	t.Run("skips to dinner window during the afternoon gap", func(t *testing.T) {
		next, err := NextValidOrderTime(lunchAndDinner, nil, monday(15, 0))

		require.NoError(t, err)
		assert.Equal(t, monday(18, 0), next)
	})

	t.Run("rolls to next enabled day after closing", func(t *testing.T) {
		next, err := NextValidOrderTime(lunchAndDinner, nil, monday(23, 30))

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 1, 6, 11, 0, 0, 0, time.UTC), next)
	})

	t.Run("skips disabled days", func(t *testing.T) {
		// Wednesday through Sunday are disabled; next opening is next Monday
		wednesday := time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)

		next, err := NextValidOrderTime(lunchAndDinner, nil, wednesday)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 1, 12, 11, 0, 0, 0, time.UTC), next)
	})

	t.Run("skips blocked dates", func(t *testing.T) {
		next, err := NextValidOrderTime(lunchAndDinner, []string{"2026-01-05"}, monday(8, 0))

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 1, 6, 11, 0, 0, 0, time.UTC), next)
	})

	t.Run("fails when every day is closed", func(t *testing.T) {
		_, err := NextValidOrderTime(EmptyWeeklySchedule(), nil, monday(8, 0))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no upcoming opening")
	})

	t.Run("fails when the horizon is fully blocked", func(t *testing.T) {
		onlyMondays := scheduleWith(map[time.Weekday][]TimeInterval{
			time.Monday: {{Open: "11:00", Close: "14:00"}},
		})
		blocked := make([]string, 0, 15)
		for i := 0; i <= maxScheduleLookaheadDays; i += 7 {
			blocked = append(blocked, monday(0, 0).AddDate(0, 0, i).Format(BlockedDateLayout))
		}

		_, err := NextValidOrderTime(onlyMondays, blocked, monday(8, 0))

		assert.Error(t, err)
	})
}
