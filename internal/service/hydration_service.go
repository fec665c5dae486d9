package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/domain/day"
	"github.com/damu-app/damu-api/internal/domain/hydration"
	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/damu-app/damu-api/internal/store"
	"github.com/google/uuid"
)

// Recorder receives counters for application events. The metrics package
// provides the Prometheus implementation.
type Recorder interface {
	IntakeRecorded()
	BatchUser(outcome string)
	BadgeAwarded(t domain.BadgeType)
}

type noopRecorder struct{}

func (noopRecorder) IntakeRecorded()               {}
func (noopRecorder) BatchUser(string)              {}
func (noopRecorder) BadgeAwarded(domain.BadgeType) {}

// HydrationService aggregates a user's intake stream into calendar-day views.
// An empty tz argument means the user's stored timezone, or the configured
// default when the user has none.
type HydrationService interface {
	// RecordIntake appends one event stamped now and returns the updated
	// progress of the current local day.
	RecordIntake(ctx context.Context, userID uuid.UUID, amountMl int, temperatureC *float64, tz string) (*hydration.TodayProgress, error)

	// TodayProgress reports the current local day against the user's goal.
	TodayProgress(ctx context.Context, userID uuid.UUID, tz string) (*hydration.TodayProgress, error)

	// DailyTotals groups the events in [from, to) by local day.
	DailyTotals(ctx context.Context, userID uuid.UUID, from, to time.Time, tz string) ([]domain.DailyTotal, error)

	// PeriodStats averages the last N local days including today.
	PeriodStats(ctx context.Context, userID uuid.UUID, tz string, period hydration.Period) (*hydration.PeriodStats, error)

	// MonthStats averages a calendar month given as YYYY-MM. An empty month
	// means the current local month.
	MonthStats(ctx context.Context, userID uuid.UUID, tz, month string) (*hydration.PeriodStats, error)
}

// HydrationServiceConfig holds the settings shared by the hydration use cases.
type HydrationServiceConfig struct {
	// DefaultTimezone applies to users without a stored timezone.
	DefaultTimezone string
	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
}

type hydrationServiceImpl struct {
	users    store.UserStore
	intakes  store.IntakeStore
	recorder Recorder
	config   HydrationServiceConfig
	logger   *slog.Logger
}

// NewHydrationService creates a new HydrationService.
// It returns an error if any of the required dependencies are nil.
// A nil recorder disables counters.
func NewHydrationService(
	users store.UserStore,
	intakes store.IntakeStore,
	recorder Recorder,
	config HydrationServiceConfig,
	logger *slog.Logger,
) (HydrationService, error) {
	if users == nil {
		return nil, NewServiceError("hydration", "create_service", fmt.Errorf("%w: users", ErrNilDependency))
	}
	if intakes == nil {
		return nil, NewServiceError("hydration", "create_service", fmt.Errorf("%w: intakes", ErrNilDependency))
	}
	if _, err := day.LoadZone(config.DefaultTimezone); err != nil {
		return nil, NewServiceError("hydration", "create_service", err)
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &hydrationServiceImpl{
		users:    users,
		intakes:  intakes,
		recorder: recorder,
		config:   config,
		logger:   logger.With(slog.String("component", "hydration_service")),
	}, nil
}

// profile loads the user and resolves the zone the request is evaluated in.
func (s *hydrationServiceImpl) profile(ctx context.Context, userID uuid.UUID, tz string) (*domain.User, *time.Location, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	loc, err := resolveZone(user, tz, s.config.DefaultTimezone)
	if err != nil {
		return nil, nil, err
	}
	return user, loc, nil
}

// RecordIntake implements HydrationService.RecordIntake
func (s *hydrationServiceImpl) RecordIntake(
	ctx context.Context,
	userID uuid.UUID,
	amountMl int,
	temperatureC *float64,
	tz string,
) (*hydration.TodayProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, loc, err := s.profile(ctx, userID, tz)
	if err != nil {
		return nil, wrapError("hydration", "record_intake", err)
	}

	now := s.config.Now().UTC()
	event, err := domain.NewIntakeEvent(userID, amountMl, temperatureC, now)
	if err != nil {
		return nil, err
	}
	if err := s.intakes.Append(ctx, event); err != nil {
		log.Error("failed to append intake event",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, wrapError("hydration", "record_intake", err)
	}
	s.recorder.IntakeRecorded()

	log.Debug("intake recorded",
		slog.String("user_id", userID.String()),
		slog.String("event_id", event.ID.String()),
		slog.Int("amount_ml", amountMl))

	return s.progress(ctx, user, loc, now)
}

// TodayProgress implements HydrationService.TodayProgress
func (s *hydrationServiceImpl) TodayProgress(ctx context.Context, userID uuid.UUID, tz string) (*hydration.TodayProgress, error) {
	user, loc, err := s.profile(ctx, userID, tz)
	if err != nil {
		return nil, wrapError("hydration", "today_progress", err)
	}
	return s.progress(ctx, user, loc, s.config.Now())
}

func (s *hydrationServiceImpl) progress(ctx context.Context, user *domain.User, loc *time.Location, now time.Time) (*hydration.TodayProgress, error) {
	events, err := s.intakes.QueryRange(ctx, user.ID, day.Start(loc, now), day.End(loc, now))
	if err != nil {
		return nil, wrapError("hydration", "today_progress", err)
	}
	p := hydration.Progress(day.Key(loc, now), events, user.Goal(), loc)
	return &p, nil
}

// DailyTotals implements HydrationService.DailyTotals
func (s *hydrationServiceImpl) DailyTotals(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
	tz string,
) ([]domain.DailyTotal, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is before %s", domain.ErrInvalidRange,
			to.UTC().Format(time.RFC3339), from.UTC().Format(time.RFC3339))
	}
	if to.Sub(from) > hydration.MaxDailyRange {
		return nil, fmt.Errorf("%w: spans more than %d days", domain.ErrInvalidRange,
			int(hydration.MaxDailyRange/(24*time.Hour)))
	}

	_, loc, err := s.profile(ctx, userID, tz)
	if err != nil {
		return nil, wrapError("hydration", "daily_totals", err)
	}

	events, err := s.intakes.QueryRange(ctx, userID, from, to)
	if err != nil {
		return nil, wrapError("hydration", "daily_totals", err)
	}
	return hydration.GroupDaily(events, loc), nil
}

// PeriodStats implements HydrationService.PeriodStats
func (s *hydrationServiceImpl) PeriodStats(
	ctx context.Context,
	userID uuid.UUID,
	tz string,
	period hydration.Period,
) (*hydration.PeriodStats, error) {
	days, err := hydration.PeriodDays(period)
	if err != nil {
		return nil, err
	}

	user, loc, err := s.profile(ctx, userID, tz)
	if err != nil {
		return nil, wrapError("hydration", "period_stats", err)
	}

	from, to := day.Window(loc, s.config.Now(), days)
	return s.summarize(ctx, user, loc, period, days, from, to)
}

// MonthStats implements HydrationService.MonthStats
func (s *hydrationServiceImpl) MonthStats(
	ctx context.Context,
	userID uuid.UUID,
	tz, month string,
) (*hydration.PeriodStats, error) {
	user, loc, err := s.profile(ctx, userID, tz)
	if err != nil {
		return nil, wrapError("hydration", "month_stats", err)
	}

	if month == "" {
		month = s.config.Now().In(loc).Format(day.MonthLayout)
	}
	from, to, days, err := day.MonthWindow(loc, month)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, user, loc, hydration.PeriodMonth, days, from, to)
}

func (s *hydrationServiceImpl) summarize(
	ctx context.Context,
	user *domain.User,
	loc *time.Location,
	period hydration.Period,
	days int,
	from, to time.Time,
) (*hydration.PeriodStats, error) {
	events, err := s.intakes.QueryRange(ctx, user.ID, from, to)
	if err != nil {
		return nil, wrapError("hydration", "stats", err)
	}
	stats := hydration.Summarize(period, days, user.Goal(), hydration.GroupDaily(events, loc))
	return &stats, nil
}

// resolveZone picks the explicit tz, then the user's zone, then fallback.
func resolveZone(user *domain.User, tz, fallback string) (*time.Location, error) {
	name := tz
	if name == "" {
		name = user.ZoneName(fallback)
	}
	return day.LoadZone(name)
}
