package api

import (
	"time"

	"github.com/damu-app/damu-api/internal/domain"
)

// RecordIntakeRequest defines the payload for logging a drink.
// The accepted amount is narrower than what the domain allows.
type RecordIntakeRequest struct {
	AmountMl     int      `json:"amount_ml"               validate:"required,min=10,max=2000"`
	TemperatureC *float64 `json:"temperature_c,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// DailyTotalsResponse lists per-day totals for a requested range.
type DailyTotalsResponse struct {
	From time.Time           `json:"from"`
	To   time.Time           `json:"to"`
	Days []domain.DailyTotal `json:"days"`
}

// BadgeResponse is a badge as shown to its owner.
type BadgeResponse struct {
	Type     domain.BadgeType `json:"type"`
	DayKey   string           `json:"day_key"`
	EarnedAt time.Time        `json:"earned_at"`
}

// BadgeListResponse wraps the user's badges, newest first.
type BadgeListResponse struct {
	Badges []BadgeResponse `json:"badges"`
}

func badgeListToResponse(badges []domain.Badge) BadgeListResponse {
	out := make([]BadgeResponse, 0, len(badges))
	for _, b := range badges {
		out = append(out, BadgeResponse{
			Type:     b.Type,
			DayKey:   b.DayKey,
			EarnedAt: b.EarnedAt.UTC(),
		})
	}
	return BadgeListResponse{Badges: out}
}
