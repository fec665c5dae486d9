package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/damu-app/damu-api/internal/domain/reminder"
	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/damu-app/damu-api/internal/store"
	"github.com/google/uuid"
)

// ReminderService computes upcoming reminder times. Delivery is left to the
// caller.
type ReminderService interface {
	// ComputeReminders returns the reminders due within the next 24 hours,
	// anchored on the user's latest intake.
	ComputeReminders(ctx context.Context, userID uuid.UUID, tz string) (*reminder.Schedule, error)
}

type reminderServiceImpl struct {
	users   store.UserStore
	intakes store.IntakeStore
	params  *reminder.Params
	config  HydrationServiceConfig
	logger  *slog.Logger
}

// NewReminderService creates a new ReminderService. A nil params uses
// reminder.NewDefaultParams.
func NewReminderService(
	users store.UserStore,
	intakes store.IntakeStore,
	params *reminder.Params,
	config HydrationServiceConfig,
	logger *slog.Logger,
) (ReminderService, error) {
	if users == nil {
		return nil, NewServiceError("reminder", "create_service", fmt.Errorf("%w: users", ErrNilDependency))
	}
	if intakes == nil {
		return nil, NewServiceError("reminder", "create_service", fmt.Errorf("%w: intakes", ErrNilDependency))
	}
	if params == nil {
		params = reminder.NewDefaultParams()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reminderServiceImpl{
		users:   users,
		intakes: intakes,
		params:  params,
		config:  config,
		logger:  logger.With(slog.String("component", "reminder_service")),
	}, nil
}

// ComputeReminders implements ReminderService.ComputeReminders
func (s *reminderServiceImpl) ComputeReminders(ctx context.Context, userID uuid.UUID, tz string) (*reminder.Schedule, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapError("reminder", "compute_reminders", err)
	}
	loc, err := resolveZone(user, tz, s.config.DefaultTimezone)
	if err != nil {
		return nil, err
	}

	var last *time.Time
	latest, err := s.intakes.QueryLatest(ctx, userID)
	switch {
	case err == nil:
		last = &latest.OccurredAt
	case errors.Is(err, store.ErrIntakeNotFound):
		// No drinks yet; the schedule anchors on now.
	default:
		return nil, wrapError("reminder", "compute_reminders", err)
	}

	schedule := reminder.Compute(user.NotificationSettings, last, s.config.Now(), loc, s.params)

	logger.FromContextOrDefault(ctx, s.logger).Debug("reminders computed",
		slog.String("user_id", userID.String()),
		slog.Bool("enabled", schedule.Enabled),
		slog.Int("count", len(schedule.Items)))

	return &schedule, nil
}
