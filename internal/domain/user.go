package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bounds on user-configurable hydration settings.
const (
	MinDailyGoalMl = 300
	MaxDailyGoalMl = 20000

	MinReminderIntervalMinutes     = 15
	MaxReminderIntervalMinutes     = 360
	DefaultReminderIntervalMinutes = 90

	DefaultQuietStart = "22:00"
	DefaultQuietEnd   = "08:00"
)

// Common validation errors
var (
	ErrEmptyUserID       = errors.New("user ID cannot be empty")
	ErrInvalidGoal       = fmt.Errorf("%w: daily goal must be between %d and %d ml", ErrValidation, MinDailyGoalMl, MaxDailyGoalMl)
	ErrInvalidInterval   = fmt.Errorf("%w: reminder interval must be between %d and %d minutes", ErrValidation, MinReminderIntervalMinutes, MaxReminderIntervalMinutes)
	ErrInvalidClock      = fmt.Errorf("%w: time of day must be HH:mm", ErrValidation)
	ErrNegativeStreak    = fmt.Errorf("%w: streak cannot be negative", ErrValidation)
	ErrInvalidUserZoneID = fmt.Errorf("%w: %w", ErrValidation, ErrInvalidTimeZone)
)

// QuietHours is a daily window, in the user's local time, during which no
// reminders fire. Start after End means the window wraps midnight.
// Start equal to End means there is no quiet window.
type QuietHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NotificationSettings controls reminder computation for a user.
type NotificationSettings struct {
	Enabled         bool       `json:"enabled"`
	IntervalMinutes int        `json:"interval_minutes"`
	QuietHours      QuietHours `json:"quiet_hours"`
}

// DefaultNotificationSettings returns the settings applied to new users.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:         true,
		IntervalMinutes: DefaultReminderIntervalMinutes,
		QuietHours:      QuietHours{Start: DefaultQuietStart, End: DefaultQuietEnd},
	}
}

// Validate checks interval bounds and quiet-hour formats.
func (s NotificationSettings) Validate() error {
	if s.IntervalMinutes < MinReminderIntervalMinutes || s.IntervalMinutes > MaxReminderIntervalMinutes {
		return ErrInvalidInterval
	}
	if _, err := ParseClock(s.QuietHours.Start); err != nil {
		return err
	}
	if _, err := ParseClock(s.QuietHours.End); err != nil {
		return err
	}
	return nil
}

// User is the hydration profile of an account. Identity and credentials are
// owned by the external auth service; only the fields the core reads live here.
type User struct {
	ID                   uuid.UUID            `json:"id"`
	DailyGoalMl          *int                 `json:"daily_goal_ml,omitempty"`
	Timezone             *string              `json:"timezone,omitempty"`
	NotificationSettings NotificationSettings `json:"notification_settings"`
	Streak               int                  `json:"streak"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// NewUser creates a User with default notification settings and no goal or timezone.
func NewUser(id uuid.UUID) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		ID:                   id,
		NotificationSettings: DefaultNotificationSettings(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Goal returns the daily goal in ml, or 0 when unset.
func (u *User) Goal() int {
	if u.DailyGoalMl == nil {
		return 0
	}
	return *u.DailyGoalMl
}

// ZoneName returns the user's IANA timezone, or fallback when none is stored.
func (u *User) ZoneName(fallback string) string {
	if u.Timezone == nil || *u.Timezone == "" {
		return fallback
	}
	return *u.Timezone
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.DailyGoalMl != nil && (*u.DailyGoalMl < MinDailyGoalMl || *u.DailyGoalMl > MaxDailyGoalMl) {
		return ErrInvalidGoal
	}
	if u.Timezone != nil {
		name := *u.Timezone
		if _, err := time.LoadLocation(name); err != nil || name == "" || name == "Local" {
			return ErrInvalidUserZoneID
		}
	}
	if u.Streak < 0 {
		return ErrNegativeStreak
	}
	return u.NotificationSettings.Validate()
}

// ParseClock parses a "HH:mm" time of day into minutes after midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, ErrInvalidClock
	}
	h, err1 := parseDigits(hh)
	m, err2 := parseDigits(mm)
	if err1 != nil || err2 != nil || h > 23 || m > 59 {
		return 0, ErrInvalidClock
	}
	return h*60 + m, nil
}

func parseDigits(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidClock
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
