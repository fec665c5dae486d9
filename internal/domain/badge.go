package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BadgeType identifies an achievement.
type BadgeType string

const (
	// BadgeFullDay is awarded for every day on which the goal was met.
	BadgeFullDay BadgeType = "full_day"
	// BadgeThreeDayStreak is awarded when a streak reaches exactly three days.
	BadgeThreeDayStreak BadgeType = "three_day_streak"
)

var (
	ErrInvalidBadgeType = fmt.Errorf("%w: unknown badge type", ErrValidation)
	ErrEmptyDayKey      = errors.New("badge day key cannot be empty")
)

// IsValid reports whether t is a known badge type.
func (t BadgeType) IsValid() bool {
	switch t {
	case BadgeFullDay, BadgeThreeDayStreak:
		return true
	}
	return false
}

// Badge is an achievement earned for a specific local day. A user holds at
// most one badge per (Type, DayKey).
type Badge struct {
	UserID   uuid.UUID `json:"user_id"`
	Type     BadgeType `json:"type"`
	DayKey   string    `json:"day_key"`
	EarnedAt time.Time `json:"earned_at"`
}

// Validate checks if the Badge has valid data.
func (b *Badge) Validate() error {
	if b.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if !b.Type.IsValid() {
		return ErrInvalidBadgeType
	}
	if b.DayKey == "" {
		return ErrEmptyDayKey
	}
	return nil
}
