// Package reminder computes forward-looking "time to drink" reminders that
// respect a user's interval and quiet hours. Computation is pure and
// deterministic given the current time.
package reminder

import (
	"time"

	"github.com/damu-app/damu-api/internal/domain"
)

// Schedule is the result of a reminder computation.
type Schedule struct {
	Enabled         bool                  `json:"enabled"`
	IntervalMinutes int                   `json:"interval_minutes,omitempty"`
	Items           []domain.ReminderItem `json:"items"`
}

// Compute returns the reminders due within params.Horizon of now.
//
// The first reminder is one interval after lastIntake (or now when there has
// been no intake), but never sooner than params.MinLead from now. Reminders
// then repeat every interval. A reminder landing in the quiet window is
// pushed to the window's end, and the interval continues from there.
// Quiet hours are interpreted in loc on the reminder's own local day.
func Compute(settings domain.NotificationSettings, lastIntake *time.Time, now time.Time, loc *time.Location, params *Params) Schedule {
	if params == nil {
		params = NewDefaultParams()
	}
	if !settings.Enabled {
		return Schedule{Enabled: false, Items: []domain.ReminderItem{}}
	}

	sched := Schedule{
		Enabled:         true,
		IntervalMinutes: settings.IntervalMinutes,
		Items:           []domain.ReminderItem{},
	}
	if settings.IntervalMinutes <= 0 {
		return sched
	}
	interval := time.Duration(settings.IntervalMinutes) * time.Minute

	quiet, hasQuiet := parseQuiet(settings.QuietHours)

	anchor := now
	if lastIntake != nil {
		anchor = *lastIntake
	}
	next := anchor.Add(interval)
	if soonest := now.Add(params.MinLead); next.Before(soonest) {
		next = soonest
	}
	horizon := now.Add(params.Horizon)

	for len(sched.Items) < params.MaxItems && !next.After(horizon) {
		if hasQuiet {
			next = quiet.moveOut(next, loc)
		}
		if next.After(horizon) {
			break
		}
		sched.Items = append(sched.Items, domain.ReminderItem{
			Type:   domain.ReminderLongTimeNoDrink,
			FireAt: next.UTC(),
		})
		next = next.Add(interval)
	}

	return sched
}

// quietWindow holds quiet hours as minutes after local midnight.
type quietWindow struct {
	start, end int
}

// parseQuiet reports false when the window is empty or malformed.
func parseQuiet(q domain.QuietHours) (quietWindow, bool) {
	start, err := domain.ParseClock(q.Start)
	if err != nil {
		return quietWindow{}, false
	}
	end, err := domain.ParseClock(q.End)
	if err != nil || start == end {
		return quietWindow{}, false
	}
	return quietWindow{start: start, end: end}, true
}

// maxMoves bounds moveOut; a window end can only land in a transition once.
const maxMoves = 4

// moveOut returns t, or the first instant after t whose local wall clock is
// outside the window. Membership is half-open, [start, end), and compares
// the clock the user sees, so DST transition days need no special casing.
func (w quietWindow) moveOut(t time.Time, loc *time.Location) time.Time {
	for i := 0; i < maxMoves; i++ {
		lt := t.In(loc)
		clock := secondsOfDay(lt)
		if !w.contains(clock) {
			return t
		}

		y, m, d := lt.Date()
		if w.start > w.end && clock >= w.start*60 {
			// Evening part of a window that wraps midnight ends tomorrow.
			d++
		}
		next := wallInstant(loc, y, m, d, w.end)
		if !next.After(t) {
			// The end clock occurs twice and resolved to the earlier one.
			next = t.Add(atClock(time.UTC, y, m, d, w.end).Sub(naiveWall(lt)))
		}
		t = next
	}
	return t
}

func (w quietWindow) contains(clock int) bool {
	start, end := w.start*60, w.end*60
	if start < end {
		return clock >= start && clock < end
	}
	return clock >= start || clock < end
}

func secondsOfDay(lt time.Time) int {
	return lt.Hour()*3600 + lt.Minute()*60 + lt.Second()
}

// naiveWall returns lt's wall clock reading as a UTC instant.
func naiveWall(lt time.Time) time.Time {
	return time.Date(lt.Year(), lt.Month(), lt.Day(), lt.Hour(), lt.Minute(), lt.Second(), lt.Nanosecond(), time.UTC)
}

// wallInstant returns the first instant whose clock in loc reads at least
// minutes past midnight of the given date. When a transition skips that
// clock time the result is the transition itself.
func wallInstant(loc *time.Location, y int, m time.Month, d, minutes int) time.Time {
	t := atClock(loc, y, m, d, minutes)
	want := atClock(time.UTC, y, m, d, minutes)
	got := naiveWall(t.In(loc))

	switch {
	case got.Before(want):
		// Normalized back before the gap; the gap ends at our clock time.
		_, end := t.ZoneBounds()
		return end
	case got.After(want):
		// Normalized forward past the gap.
		start, _ := t.ZoneBounds()
		return start
	}
	return t
}

func atClock(loc *time.Location, y int, m time.Month, d, minutes int) time.Time {
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)
}
