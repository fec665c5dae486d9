// Package hydration aggregates intake events into local calendar-day totals
// and derives progress and period statistics from them. All functions are
// pure; callers fetch events for the relevant range first.
package hydration

import (
	"math"
	"sort"
	"time"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/domain/day"
)

// MaxDailyRange bounds the span of a daily totals query. Events are loaded
// raw before grouping, so the range stays a little over one year.
const MaxDailyRange = 400 * 24 * time.Hour

// GroupDaily buckets events by their local day in loc. Only days with at
// least one event appear; results are sorted by day key ascending.
func GroupDaily(events []domain.IntakeEvent, loc *time.Location) []domain.DailyTotal {
	byKey := make(map[string]*domain.DailyTotal)
	for _, e := range events {
		key := day.Key(loc, e.OccurredAt)
		dt, ok := byKey[key]
		if !ok {
			dt = &domain.DailyTotal{DayKey: key}
			byKey[key] = dt
		}
		dt.TotalMl += e.AmountMl
		dt.Count++
	}

	totals := make([]domain.DailyTotal, 0, len(byKey))
	for _, dt := range byKey {
		totals = append(totals, *dt)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].DayKey < totals[j].DayKey })
	return totals
}

// Sum returns the total volume of events.
func Sum(events []domain.IntakeEvent) int {
	total := 0
	for _, e := range events {
		total += e.AmountMl
	}
	return total
}

// Percent returns consumed as a rounded percentage of goal, clamped to
// [0, 100]. A goal of zero or less yields 0.
func Percent(consumed, goal int) int {
	if goal <= 0 {
		return 0
	}
	p := int(math.Round(float64(consumed) / float64(goal) * 100))
	return clamp(p, 0, 100)
}

// Ratio returns consumed/goal rounded to two decimals, or 0 without a goal.
// Unlike Percent it is not clamped.
func Ratio(consumed, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return roundTo(float64(consumed)/float64(goal), 2)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
