package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/damu-app/damu-api/internal/domain/day"
	"github.com/damu-app/damu-api/internal/events"
	"github.com/damu-app/damu-api/internal/store"
	"github.com/robfig/cron/v3"
)

// TimezoneLister lists the timezones stored on user profiles.
type TimezoneLister interface {
	ListTimezones(ctx context.Context) ([]string, error)
}

// BatchRunReader reports the last day a timezone completed.
type BatchRunReader interface {
	LastCompleted(ctx context.Context, tz string) (string, error)
}

// StreakSchedulerConfig configures the StreakScheduler.
type StreakSchedulerConfig struct {
	// Schedule is a standard five-field cron expression, evaluated in UTC.
	Schedule string
	// DefaultTimezone is always scheduled; users without a zone belong to it.
	DefaultTimezone string
	// MaxCatchUpDays caps how many missed days one tick plans per timezone.
	MaxCatchUpDays int
	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
}

// StreakScheduler periodically emits one streak batch request per timezone
// for the finished local days that have not completed yet.
type StreakScheduler struct {
	cron    *cron.Cron
	zones   TimezoneLister
	runs    BatchRunReader
	emitter events.EventEmitter
	config  StreakSchedulerConfig
	logger  *slog.Logger
}

// NewStreakScheduler creates a scheduler. It returns an error when the
// cron expression or the default timezone is invalid.
func NewStreakScheduler(
	zones TimezoneLister,
	runs BatchRunReader,
	emitter events.EventEmitter,
	config StreakSchedulerConfig,
	logger *slog.Logger,
) (*StreakScheduler, error) {
	if zones == nil || runs == nil || emitter == nil {
		return nil, errors.New("streak scheduler dependencies cannot be nil")
	}
	if _, err := day.LoadZone(config.DefaultTimezone); err != nil {
		return nil, err
	}
	if config.MaxCatchUpDays < 1 {
		config.MaxCatchUpDays = 1
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "streak_scheduler"))

	s := &StreakScheduler{
		zones:   zones,
		runs:    runs,
		emitter: emitter,
		config:  config,
		logger:  logger,
	}
	s.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLogger{logger: logger}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger})),
	)
	if _, err := s.cron.AddFunc(config.Schedule, func() {
		if err := s.Tick(context.Background()); err != nil {
			logger.Error("streak scheduler tick failed", slog.String("error", err.Error()))
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid batch schedule %q: %w", config.Schedule, err)
	}
	return s, nil
}

// Start begins firing ticks in the background.
func (s *StreakScheduler) Start() {
	s.logger.Info("starting streak scheduler", slog.String("schedule", s.config.Schedule))
	s.cron.Start()
}

// Stop stops the scheduler. The returned context is done once a running
// tick has finished.
func (s *StreakScheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Tick plans every known timezone and emits one request per timezone with
// work to do. A failing timezone does not prevent the others.
func (s *StreakScheduler) Tick(ctx context.Context) error {
	zones, err := s.zones.ListTimezones(ctx)
	if err != nil {
		return fmt.Errorf("failed to list timezones: %w", err)
	}

	now := s.config.Now()
	var errs []error
	for _, tz := range withDefault(zones, s.config.DefaultTimezone) {
		days, err := s.PlanDays(ctx, tz, now)
		if err != nil {
			s.logger.Error("failed to plan streak batch",
				slog.String("timezone", tz),
				slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		if len(days) == 0 {
			continue
		}

		event, err := events.NewTaskRequestEvent(TaskTypeStreakBatch, StreakBatchPayload{Timezone: tz, Days: days})
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to build event for %s: %w", tz, err))
			continue
		}
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("failed to emit streak batch for %s: %w", tz, err))
			continue
		}
		s.logger.Info("streak batch requested",
			slog.String("timezone", tz),
			slog.String("from", days[0]),
			slog.String("to", days[len(days)-1]))
	}
	return errors.Join(errs...)
}

// PlanDays returns the finished local days of tz that still need a
// completed run, oldest first, starting the day after LastCompleted. At most
// MaxCatchUpDays days are returned per tick; a longer backlog drains over the
// following ticks so no day is ever skipped.
func (s *StreakScheduler) PlanDays(ctx context.Context, tz string, now time.Time) ([]string, error) {
	loc, err := day.LoadZone(tz)
	if err != nil {
		return nil, err
	}
	yesterday, err := day.ShiftKey(day.Key(loc, now), -1)
	if err != nil {
		return nil, err
	}

	last, err := s.runs.LastCompleted(ctx, tz)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// A timezone seen for the first time starts with yesterday.
		return []string{yesterday}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read last completed day: %w", err)
	}

	// Day keys order lexicographically.
	if last >= yesterday {
		return nil, nil
	}

	limit := max(s.config.MaxCatchUpDays, 1)
	var days []string
	for d := last; len(days) < limit; {
		if d, err = day.ShiftKey(d, 1); err != nil {
			return nil, err
		}
		if d > yesterday {
			break
		}
		days = append(days, d)
	}
	return days, nil
}

func withDefault(zones []string, def string) []string {
	seen := map[string]bool{def: true}
	out := []string{def}
	for _, z := range zones {
		if z == "" || seen[z] {
			continue
		}
		seen[z] = true
		out = append(out, z)
	}
	sort.Strings(out)
	return out
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
