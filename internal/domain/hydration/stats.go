package hydration

import (
	"fmt"
	"time"

	"github.com/damu-app/damu-api/internal/domain"
)

// Period names a rolling stats window ending today.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// PeriodDays returns the number of local days covered by p.
func PeriodDays(p Period) (int, error) {
	switch p {
	case PeriodDay:
		return 1, nil
	case PeriodWeek:
		return 7, nil
	case PeriodMonth:
		return 30, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidPeriod, p)
	}
}

// DayStat is a per-day entry of a stats response.
type DayStat struct {
	Date       string  `json:"date"`
	TotalMl    int     `json:"total_intake"`
	GoalMl     int     `json:"goal"`
	Progress   float64 `json:"progress"`
	DrinkCount int     `json:"drink_count"`
}

// PeriodStats averages intake over a fixed number of days. Days without
// events count toward the divisor but are absent from Daily and Items.
type PeriodStats struct {
	Period          Period              `json:"period"`
	Days            int                 `json:"days"`
	GoalMl          int                 `json:"goal"`
	AvgMlPerDay     int                 `json:"avg_ml_per_day"`
	AvgPercent      int                 `json:"avg_percent"`
	AvgDrinksPerDay float64             `json:"avg_drinks_per_day"`
	Daily           []domain.DailyTotal `json:"daily"`
	Items           []DayStat           `json:"items"`
}

// Summarize builds PeriodStats from daily totals over days days.
func Summarize(period Period, days, goal int, daily []domain.DailyTotal) PeriodStats {
	if days < 1 {
		days = 1
	}
	if daily == nil {
		daily = []domain.DailyTotal{}
	}

	total, count := 0, 0
	items := make([]DayStat, 0, len(daily))
	for _, d := range daily {
		total += d.TotalMl
		count += d.Count
		items = append(items, DayStat{
			Date:       d.DayKey,
			TotalMl:    d.TotalMl,
			GoalMl:     goal,
			Progress:   Ratio(d.TotalMl, goal),
			DrinkCount: d.Count,
		})
	}

	avgMl := int(roundTo(float64(total)/float64(days), 0))
	return PeriodStats{
		Period:          period,
		Days:            days,
		GoalMl:          goal,
		AvgMlPerDay:     avgMl,
		AvgPercent:      Percent(avgMl, goal),
		AvgDrinksPerDay: roundTo(float64(count)/float64(days), 1),
		Daily:           daily,
		Items:           items,
	}
}

// LogItem is a single drink as shown in today's progress.
type LogItem struct {
	LocalTime string `json:"time"`
	AmountMl  int    `json:"amount_ml"`
}

// TodayProgress reports the current local day against the goal.
type TodayProgress struct {
	DayKey   string    `json:"date"`
	Consumed int       `json:"consumed_ml"`
	GoalMl   int       `json:"goal_ml"`
	Percent  int       `json:"percent"`
	Items    []LogItem `json:"items"`
}

// Progress builds TodayProgress from the events of one local day. Events
// are expected in chronological order.
func Progress(dayKey string, events []domain.IntakeEvent, goal int, loc *time.Location) TodayProgress {
	items := make([]LogItem, 0, len(events))
	for _, e := range events {
		items = append(items, LogItem{
			LocalTime: e.OccurredAt.In(loc).Format("15:04"),
			AmountMl:  e.AmountMl,
		})
	}
	consumed := Sum(events)
	return TodayProgress{
		DayKey:   dayKey,
		Consumed: consumed,
		GoalMl:   goal,
		Percent:  Percent(consumed, goal),
		Items:    items,
	}
}
