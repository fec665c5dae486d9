// Package streak implements the daily goal streak state machine.
package streak

import "github.com/damu-app/damu-api/internal/domain"

// ThreeDayMilestone is the streak length that earns the three-day badge.
const ThreeDayMilestone = 3

// Outcome is the result of applying one finished day to a streak.
type Outcome struct {
	Streak int
	Met    bool
	Badges []domain.BadgeType
}

// Advance applies one finished day to the current streak. The day counts as
// met only with a positive goal that consumed reached. A met day extends the
// streak by one and earns a full-day badge, plus the three-day badge on the
// transition to exactly three. Any other day resets the streak to zero.
func Advance(current, consumed, goal int) Outcome {
	if goal <= 0 || consumed < goal {
		return Outcome{Streak: 0}
	}

	if current < 0 {
		current = 0
	}
	next := current + 1
	badges := []domain.BadgeType{domain.BadgeFullDay}
	if next == ThreeDayMilestone {
		badges = append(badges, domain.BadgeThreeDayStreak)
	}
	return Outcome{Streak: next, Met: true, Badges: badges}
}
