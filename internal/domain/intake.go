package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bounds on a single intake event.
const (
	MinIntakeMl = 1
	MaxIntakeMl = 5000

	MinTemperatureC = 0
	MaxTemperatureC = 100
)

var (
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be between %d and %d ml", ErrValidation, MinIntakeMl, MaxIntakeMl)
	ErrInvalidTemperature = fmt.Errorf("%w: temperature must be between %d and %d C", ErrValidation, MinTemperatureC, MaxTemperatureC)
	ErrMissingOccurredAt  = errors.New("intake timestamp cannot be zero")
)

// IntakeEvent records a single drink. Events are immutable once appended.
type IntakeEvent struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	AmountMl     int       `json:"amount_ml"`
	TemperatureC *float64  `json:"temperature_c,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewIntakeEvent creates a validated IntakeEvent with a fresh ID.
// occurredAt is normalized to UTC.
func NewIntakeEvent(userID uuid.UUID, amountMl int, temperatureC *float64, occurredAt time.Time) (*IntakeEvent, error) {
	e := &IntakeEvent{
		ID:           uuid.New(),
		UserID:       userID,
		AmountMl:     amountMl,
		TemperatureC: temperatureC,
		OccurredAt:   occurredAt.UTC(),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks if the IntakeEvent has valid data.
func (e *IntakeEvent) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if e.AmountMl < MinIntakeMl || e.AmountMl > MaxIntakeMl {
		return ErrInvalidAmount
	}
	if e.TemperatureC != nil && (*e.TemperatureC < MinTemperatureC || *e.TemperatureC > MaxTemperatureC) {
		return ErrInvalidTemperature
	}
	if e.OccurredAt.IsZero() {
		return ErrMissingOccurredAt
	}
	return nil
}

// DailyTotal is the intake sum and count for one local calendar day.
type DailyTotal struct {
	DayKey  string `json:"date"`
	TotalMl int    `json:"total_ml"`
	Count   int    `json:"count"`
}
