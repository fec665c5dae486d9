package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntakeEvent(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("UTC+5", 5*3600))
	temp := 18.5

	e, err := NewIntakeEvent(userID, 250, &temp, at)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, userID, e.UserID)
	assert.Equal(t, 250, e.AmountMl)
	assert.Equal(t, time.UTC, e.OccurredAt.Location())
	assert.True(t, e.OccurredAt.Equal(at))
}

func TestIntakeEventValidate(t *testing.T) {
	t.Parallel()

	hot := 100.5
	cold := -1.0
	now := time.Now()

	tests := []struct {
		name    string
		event   IntakeEvent
		wantErr error
	}{
		{"minimum amount", IntakeEvent{UserID: uuid.New(), AmountMl: 1, OccurredAt: now}, nil},
		{"maximum amount", IntakeEvent{UserID: uuid.New(), AmountMl: 5000, OccurredAt: now}, nil},
		{"zero amount", IntakeEvent{UserID: uuid.New(), AmountMl: 0, OccurredAt: now}, ErrInvalidAmount},
		{"amount too large", IntakeEvent{UserID: uuid.New(), AmountMl: 5001, OccurredAt: now}, ErrInvalidAmount},
		{"too hot", IntakeEvent{UserID: uuid.New(), AmountMl: 200, TemperatureC: &hot, OccurredAt: now}, ErrInvalidTemperature},
		{"below freezing", IntakeEvent{UserID: uuid.New(), AmountMl: 200, TemperatureC: &cold, OccurredAt: now}, ErrInvalidTemperature},
		{"missing user", IntakeEvent{AmountMl: 200, OccurredAt: now}, ErrEmptyUserID},
		{"missing timestamp", IntakeEvent{UserID: uuid.New(), AmountMl: 200}, ErrMissingOccurredAt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBadgeValidate(t *testing.T) {
	t.Parallel()

	b := Badge{UserID: uuid.New(), Type: BadgeFullDay, DayKey: "2024-05-01"}
	assert.NoError(t, b.Validate())

	b.Type = "first_sip"
	assert.ErrorIs(t, b.Validate(), ErrInvalidBadgeType)

	b.Type = BadgeThreeDayStreak
	b.DayKey = ""
	assert.ErrorIs(t, b.Validate(), ErrEmptyDayKey)
}

func TestBatchRunFinish(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 2, 0, 1, 0, 0, time.UTC)

	ok := BatchRun{Processed: 3, Skipped: 1}
	ok.Finish(at)
	assert.Equal(t, BatchRunCompleted, ok.Status)
	assert.Equal(t, at, ok.FinishedAt)

	failed := BatchRun{Processed: 2, Failed: 1}
	failed.Finish(at)
	assert.Equal(t, BatchRunPartial, failed.Status)
}
