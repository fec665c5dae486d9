// Package day computes local calendar-day boundaries and day keys in IANA
// timezones. Every range it returns is half-open, [start, end), and is
// expressed in UTC. Arithmetic is done on civil dates, so a local day may be
// 23, 24 or 25 hours long across daylight-saving transitions.
package day

import (
	"fmt"
	"time"

	"github.com/damu-app/damu-api/internal/domain"
)

const (
	// KeyLayout formats a day key, e.g. 2024-03-10.
	KeyLayout = "2006-01-02"
	// MonthLayout formats a month key, e.g. 2024-03.
	MonthLayout = "2006-01"
)

// LoadZone resolves an IANA timezone identifier. Empty names and the
// host-dependent "Local" zone are rejected.
func LoadZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTimeZone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTimeZone, name)
	}
	return loc, nil
}

// Start returns the first instant of the local day containing t.
func Start(loc *time.Location, t time.Time) time.Time {
	y, m, d := t.In(loc).Date()
	return startOfDate(loc, y, m, d)
}

// End returns the first instant of the local day after the one containing t.
func End(loc *time.Location, t time.Time) time.Time {
	y, m, d := t.In(loc).Date()
	return startOfDate(loc, y, m, d+1)
}

// Key returns the YYYY-MM-DD key of the local day containing t.
func Key(loc *time.Location, t time.Time) string {
	return t.In(loc).Format(KeyLayout)
}

// ParseKey returns the first instant of the local day named by key.
func ParseKey(loc *time.Location, key string) (time.Time, error) {
	d, err := time.Parse(KeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDayKey, key)
	}
	return startOfDate(loc, d.Year(), d.Month(), d.Day()), nil
}

// Bounds returns the [start, end) range of the local day named by key.
func Bounds(loc *time.Location, key string) (time.Time, time.Time, error) {
	start, err := ParseKey(loc, key)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, End(loc, start), nil
}

// Window returns the range covering the n local days ending with today,
// inclusive. n below 1 is treated as 1.
func Window(loc *time.Location, now time.Time, n int) (time.Time, time.Time) {
	if n < 1 {
		n = 1
	}
	y, m, d := now.In(loc).Date()
	return startOfDate(loc, y, m, d-(n-1)), startOfDate(loc, y, m, d+1)
}

// MonthWindow returns the range of the local month named by a YYYY-MM key and
// the number of days in it.
func MonthWindow(loc *time.Location, month string) (time.Time, time.Time, int, error) {
	mt, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("%w: %q", domain.ErrInvalidMonth, month)
	}
	y, m := mt.Year(), mt.Month()
	return startOfDate(loc, y, m, 1), startOfDate(loc, y, m+1, 1), DaysInMonth(y, m), nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ShiftKey moves a day key by n calendar days.
func ShiftKey(key string, n int) (string, error) {
	d, err := time.Parse(KeyLayout, key)
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidDayKey, key)
	}
	return d.AddDate(0, 0, n).Format(KeyLayout), nil
}

// startOfDate returns local midnight of the given civil date in UTC. When a
// transition skips midnight the day begins at that transition.
func startOfDate(loc *time.Location, y int, m time.Month, d int) time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	wy, wm, wd := time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Date()

	if ty, tm, td := t.Date(); ty != wy || tm != wm || td != wd {
		// Normalized back into the previous day: the gap ends where our day starts.
		_, end := t.ZoneBounds()
		return end.UTC()
	}
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
		// Normalized forward past the gap.
		start, _ := t.ZoneBounds()
		return start.UTC()
	}
	return t.UTC()
}
