package api

import (
	"context"
	"time"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/domain/hydration"
	"github.com/damu-app/damu-api/internal/domain/reminder"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockHydrationService mocks service.HydrationService
type MockHydrationService struct {
	mock.Mock
}

func (m *MockHydrationService) RecordIntake(
	ctx context.Context,
	userID uuid.UUID,
	amountMl int,
	temperatureC *float64,
	tz string,
) (*hydration.TodayProgress, error) {
	args := m.Called(ctx, userID, amountMl, temperatureC, tz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hydration.TodayProgress), args.Error(1)
}

func (m *MockHydrationService) TodayProgress(ctx context.Context, userID uuid.UUID, tz string) (*hydration.TodayProgress, error) {
	args := m.Called(ctx, userID, tz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hydration.TodayProgress), args.Error(1)
}

func (m *MockHydrationService) DailyTotals(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
	tz string,
) ([]domain.DailyTotal, error) {
	args := m.Called(ctx, userID, from, to, tz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyTotal), args.Error(1)
}

func (m *MockHydrationService) PeriodStats(
	ctx context.Context,
	userID uuid.UUID,
	tz string,
	period hydration.Period,
) (*hydration.PeriodStats, error) {
	args := m.Called(ctx, userID, tz, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hydration.PeriodStats), args.Error(1)
}

func (m *MockHydrationService) MonthStats(ctx context.Context, userID uuid.UUID, tz, month string) (*hydration.PeriodStats, error) {
	args := m.Called(ctx, userID, tz, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hydration.PeriodStats), args.Error(1)
}

// MockReminderService mocks service.ReminderService
type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) ComputeReminders(ctx context.Context, userID uuid.UUID, tz string) (*reminder.Schedule, error) {
	args := m.Called(ctx, userID, tz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reminder.Schedule), args.Error(1)
}

// MockStreakService mocks service.StreakService
type MockStreakService struct {
	mock.Mock
}

func (m *MockStreakService) RunDailyStreakBatch(ctx context.Context, dayKey, tz string) (*domain.BatchRun, error) {
	args := m.Called(ctx, dayKey, tz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchRun), args.Error(1)
}

func (m *MockStreakService) ListBadges(ctx context.Context, userID uuid.UUID) ([]domain.Badge, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Badge), args.Error(1)
}
