package reminder_test

import (
	"testing"
	"time"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/domain/reminder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settings(interval int, quietStart, quietEnd string) domain.NotificationSettings {
	return domain.NotificationSettings{
		Enabled:         true,
		IntervalMinutes: interval,
		QuietHours:      domain.QuietHours{Start: quietStart, End: quietEnd},
	}
}

func fireTimes(s reminder.Schedule, loc *time.Location) []string {
	out := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, it.FireAt.In(loc).Format("01-02 15:04"))
	}
	return out
}

func TestCompute_SkipsOvernightQuietHours(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 20, 45, 0, 0, loc)
	last := time.Date(2024, 5, 1, 20, 30, 0, 0, loc)

	got := reminder.Compute(settings(90, "22:00", "08:00"), &last, now, loc, nil)

	assert.True(t, got.Enabled)
	assert.Equal(t, 90, got.IntervalMinutes)
	assert.Equal(t, []string{
		"05-02 08:00", "05-02 09:30", "05-02 11:00", "05-02 12:30", "05-02 14:00",
		"05-02 15:30", "05-02 17:00", "05-02 18:30", "05-02 20:00",
	}, fireTimes(got, loc))
	for _, it := range got.Items {
		assert.Equal(t, domain.ReminderLongTimeNoDrink, it.Type)
		assert.Equal(t, time.UTC, it.FireAt.Location())
	}
}

func TestCompute_Disabled(t *testing.T) {
	t.Parallel()

	s := settings(90, "22:00", "08:00")
	s.Enabled = false

	got := reminder.Compute(s, nil, time.Now(), time.UTC, nil)

	assert.False(t, got.Enabled)
	assert.Zero(t, got.IntervalMinutes)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestCompute_FirstReminder(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 30, 0, time.UTC)

	t.Run("no intake yet starts one interval from now", func(t *testing.T) {
		got := reminder.Compute(settings(60, "22:00", "08:00"), nil, now, time.UTC, nil)
		require.NotEmpty(t, got.Items)
		assert.Equal(t, now.Add(time.Hour), got.Items[0].FireAt)
	})

	t.Run("overdue intake fires a minute from now", func(t *testing.T) {
		last := now.Add(-5 * time.Hour)
		got := reminder.Compute(settings(60, "22:00", "08:00"), &last, now, time.UTC, nil)
		require.NotEmpty(t, got.Items)
		assert.Equal(t, now.Add(time.Minute), got.Items[0].FireAt)
		assert.Equal(t, now.Add(time.Minute+time.Hour), got.Items[1].FireAt)
	})

	t.Run("recent intake anchors the interval", func(t *testing.T) {
		last := now.Add(-20 * time.Minute)
		got := reminder.Compute(settings(60, "22:00", "08:00"), &last, now, time.UTC, nil)
		require.NotEmpty(t, got.Items)
		assert.Equal(t, last.Add(time.Hour), got.Items[0].FireAt)
	})
}

func TestCompute_MorningPartOfQuietWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC)

	got := reminder.Compute(settings(90, "22:00", "08:00"), nil, now, time.UTC, nil)

	require.NotEmpty(t, got.Items)
	assert.Equal(t, "05-01 08:00", fireTimes(got, time.UTC)[0])
	assert.Equal(t, "05-01 09:30", fireTimes(got, time.UTC)[1])
}

func TestCompute_DaytimeQuietWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)

	got := reminder.Compute(settings(60, "13:00", "14:30"), &now, now, time.UTC, nil)

	times := fireTimes(got, time.UTC)
	require.GreaterOrEqual(t, len(times), 4)
	assert.Equal(t, []string{"05-01 12:00", "05-01 14:30", "05-01 15:30", "05-01 16:30"}, times[:4])
	assert.NotContains(t, times, "05-01 13:00")
}

func TestCompute_QuietEndIsNotQuiet(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)

	got := reminder.Compute(settings(60, "22:00", "08:00"), &now, now, time.UTC, nil)

	require.NotEmpty(t, got.Items)
	assert.Equal(t, "05-01 08:00", fireTimes(got, time.UTC)[0])
	assert.Equal(t, "05-01 09:00", fireTimes(got, time.UTC)[1])
}

func TestCompute_EqualQuietBoundsMeansNoWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	got := reminder.Compute(settings(360, "00:00", "00:00"), &now, now, time.UTC, nil)

	// Horizon is inclusive: the fourth reminder lands exactly 24h out.
	assert.Equal(t, []string{"05-01 06:00", "05-01 12:00", "05-01 18:00", "05-02 00:00"}, fireTimes(got, time.UTC))
}

func TestCompute_CapsItems(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	got := reminder.Compute(settings(15, "22:00", "22:00"), &now, now, time.UTC, nil)
	assert.Len(t, got.Items, 64)

	small := &reminder.Params{MaxItems: 3, Horizon: 24 * time.Hour, MinLead: time.Minute}
	got = reminder.Compute(settings(15, "22:00", "22:00"), &now, now, time.UTC, small)
	assert.Len(t, got.Items, 3)
}

func TestCompute_Ordering(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Crosses the 2024-11-03 fall-back transition.
	now := time.Date(2024, 11, 2, 18, 0, 0, 0, loc)
	got := reminder.Compute(settings(45, "23:00", "07:00"), nil, now, loc, nil)

	require.NotEmpty(t, got.Items)
	horizon := now.Add(24 * time.Hour)
	for i, it := range got.Items {
		assert.False(t, it.FireAt.After(horizon))
		assert.True(t, it.FireAt.After(now))
		local := it.FireAt.In(loc)
		mins := local.Hour()*60 + local.Minute()
		assert.False(t, mins >= 23*60 || mins < 7*60, "reminder in quiet hours at %s", local)
		if i > 0 {
			assert.True(t, it.FireAt.After(got.Items[i-1].FireAt))
		}
	}

	again := reminder.Compute(settings(45, "23:00", "07:00"), nil, now, loc, nil)
	assert.Equal(t, got, again)
}

func TestCompute_QuietWindowOnSpringForward(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 02:00 EST does not exist; clocks jump to 03:00 EDT at 07:00Z.
	now := time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC) // 01:00 EST

	got := reminder.Compute(settings(40, "00:00", "02:00"), nil, now, loc, nil)

	require.NotEmpty(t, got.Items)
	assert.Equal(t, time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC), got.Items[0].FireAt)
	assert.Equal(t, "03:00", got.Items[0].FireAt.In(loc).Format("15:04"))
	assert.Equal(t, time.Date(2024, 3, 10, 7, 40, 0, 0, time.UTC), got.Items[1].FireAt)
}

func TestCompute_QuietWindowOnFallBack(t *testing.T) {
	t.Parallel()

	t.Run("window spanning the repeated hour", func(t *testing.T) {
		loc, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)

		// 02:00-03:00 runs twice on 2024-10-27; 00:02Z reads 02:02 CEST.
		now := time.Date(2024, 10, 27, 0, 0, 0, 0, time.UTC)
		last := time.Date(2024, 10, 26, 23, 47, 0, 0, time.UTC)

		got := reminder.Compute(settings(15, "02:00", "10:00"), &last, now, loc, nil)

		require.NotEmpty(t, got.Items)
		assert.Equal(t, time.Date(2024, 10, 27, 9, 0, 0, 0, time.UTC), got.Items[0].FireAt)
	})

	t.Run("window inside the repeated hour", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		// 01:00-02:00 runs as EDT (05:00Z-06:00Z) and again as EST (06:00Z-07:00Z).
		now := time.Date(2024, 11, 3, 5, 0, 0, 0, time.UTC)

		got := reminder.Compute(settings(15, "01:00", "01:30"), nil, now, loc, nil)

		require.GreaterOrEqual(t, len(got.Items), 4)
		assert.Equal(t, []time.Time{
			time.Date(2024, 11, 3, 5, 30, 0, 0, time.UTC),
			time.Date(2024, 11, 3, 5, 45, 0, 0, time.UTC),
			time.Date(2024, 11, 3, 6, 30, 0, 0, time.UTC),
			time.Date(2024, 11, 3, 6, 45, 0, 0, time.UTC),
		}, []time.Time{got.Items[0].FireAt, got.Items[1].FireAt, got.Items[2].FireAt, got.Items[3].FireAt})
	})
}

// TestCompute_NeverFiresInQuietHoursAcrossTransitions sweeps start times
// around every 2024 transition of zones with one-hour and half-hour shifts.
func TestCompute_NeverFiresInQuietHoursAcrossTransitions(t *testing.T) {
	t.Parallel()

	transitions := map[string][]string{
		"Europe/Berlin":       {"2024-03-31", "2024-10-27"},
		"America/New_York":    {"2024-03-10", "2024-11-03"},
		"Australia/Lord_Howe": {"2024-04-07", "2024-10-06"},
	}
	windows := [][2]string{
		{"00:00", "02:00"}, {"01:00", "01:30"}, {"02:00", "10:00"},
		{"02:30", "03:30"}, {"22:00", "02:30"}, {"01:45", "01:15"},
	}
	intervals := []int{15, 26, 90}

	clock := func(s string) int {
		c, err := domain.ParseClock(s)
		require.NoError(t, err)
		return c * 60
	}

	for zone, dates := range transitions {
		loc, err := time.LoadLocation(zone)
		require.NoError(t, err)

		for _, date := range dates {
			d, err := time.ParseInLocation("2006-01-02", date, loc)
			require.NoError(t, err)
			from := d.Add(-12 * time.Hour)

			for _, w := range windows {
				start, end := clock(w[0]), clock(w[1])
				for _, interval := range intervals {
					for step := 0; step < 48; step++ {
						now := from.Add(time.Duration(step*37) * time.Minute)
						got := reminder.Compute(settings(interval, w[0], w[1]), nil, now, loc, nil)

						prev := now
						for _, it := range got.Items {
							lt := it.FireAt.In(loc)
							secs := lt.Hour()*3600 + lt.Minute()*60 + lt.Second()
							inQuiet := secs >= start && secs < end
							if start > end {
								inQuiet = secs >= start || secs < end
							}
							if inQuiet || !it.FireAt.After(prev) {
								t.Fatalf("%s quiet %s-%s every %dm from %s: bad reminder at %s",
									zone, w[0], w[1], interval, now.Format(time.RFC3339), lt.Format(time.RFC3339))
							}
							prev = it.FireAt
						}
					}
				}
			}
		}
	}
}
