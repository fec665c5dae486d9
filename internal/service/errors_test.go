package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		op       string
		err      error
		expected string
	}{
		{
			name:     "with underlying error",
			service:  "hydration",
			op:       "record_intake",
			err:      errors.New("database connection failed"),
			expected: "hydration service record_intake operation failed: database connection failed",
		},
		{
			name:     "without underlying error",
			service:  "streak",
			op:       "list_badges",
			err:      nil,
			expected: "streak service list_badges operation failed",
		},
		{
			name:     "with sentinel error",
			service:  "streak",
			op:       "run_daily_batch",
			err:      ErrBatchAborted,
			expected: "streak service run_daily_batch operation failed: streak batch aborted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceErr := &ServiceError{
				Service: tt.service,
				Op:      tt.op,
				Err:     tt.err,
			}

			assert.Equal(t, tt.expected, serviceErr.Error())
		})
	}
}

func TestServiceError_ErrorsIsAndAs(t *testing.T) {
	inner := NewServiceError("reminder", "compute_reminders", ErrBatchAborted)
	outer := NewServiceError("streak", "wrap", inner)

	assert.True(t, errors.Is(outer, ErrBatchAborted))

	var serviceErr *ServiceError
	assert.True(t, errors.As(outer, &serviceErr))
	assert.Equal(t, "streak", serviceErr.Service)
	assert.Equal(t, "wrap", serviceErr.Op)
	assert.Nil(t, NewServiceError("x", "y", nil).Unwrap())
}

func TestWrapError(t *testing.T) {
	dbErr := errors.New("connection reset")

	tests := []struct {
		name        string
		err         error
		passThrough bool
	}{
		{name: "user not found", err: store.ErrUserNotFound, passThrough: true},
		{name: "wrapped not found", err: fmt.Errorf("load: %w", store.ErrUserNotFound), passThrough: true},
		{name: "invalid timezone", err: domain.ErrInvalidTimeZone, passThrough: true},
		{name: "validation", err: domain.ErrInvalidAmount, passThrough: true},
		{name: "invalid period", err: domain.ErrInvalidPeriod, passThrough: true},
		{name: "already a service error", err: NewServiceError("a", "b", dbErr), passThrough: true},
		{name: "unexpected", err: dbErr, passThrough: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapError("hydration", "op", tt.err)
			if tt.passThrough {
				assert.Same(t, tt.err, got)
				return
			}
			var serviceErr *ServiceError
			assert.ErrorAs(t, got, &serviceErr)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.NoError(t, wrapError("hydration", "op", nil))
}
