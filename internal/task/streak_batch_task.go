package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/google/uuid"
)

// Errors returned when building a streak batch task
var (
	ErrEmptyTimezone = errors.New("streak batch timezone cannot be empty")
	ErrNoDays        = errors.New("streak batch needs at least one day")
)

// StreakBatchPayload names the timezone and the finished local days to apply,
// oldest first.
type StreakBatchPayload struct {
	Timezone string   `json:"timezone"`
	Days     []string `json:"days"`
}

// Validate checks the payload fields.
func (p StreakBatchPayload) Validate() error {
	if p.Timezone == "" {
		return ErrEmptyTimezone
	}
	if len(p.Days) == 0 {
		return ErrNoDays
	}
	return nil
}

// BatchProcessor applies one finished day to the streaks of a timezone.
type BatchProcessor interface {
	RunDailyStreakBatch(ctx context.Context, dayKey, tz string) (*domain.BatchRun, error)
}

// StreakBatchTask runs the daily streak batch for each of its days in order.
type StreakBatchTask struct {
	id        uuid.UUID
	payload   StreakBatchPayload
	raw       []byte
	status    TaskStatus
	processor BatchProcessor
	logger    *slog.Logger
}

// NewStreakBatchTask creates a pending StreakBatchTask.
func NewStreakBatchTask(payload StreakBatchPayload, processor BatchProcessor, logger *slog.Logger) (*StreakBatchTask, error) {
	return newStreakBatchTask(uuid.New(), TaskStatusPending, payload, processor, logger)
}

func newStreakBatchTask(
	id uuid.UUID,
	status TaskStatus,
	payload StreakBatchPayload,
	processor BatchProcessor,
	logger *slog.Logger,
) (*StreakBatchTask, error) {
	if processor == nil {
		return nil, errors.New("processor cannot be nil")
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StreakBatchTask{
		id:        id,
		payload:   payload,
		raw:       raw,
		status:    status,
		processor: processor,
		logger:    logger,
	}, nil
}

// ID returns the task's unique identifier
func (t *StreakBatchTask) ID() uuid.UUID { return t.id }

// Type returns the task type identifier
func (t *StreakBatchTask) Type() string { return TaskTypeStreakBatch }

// Payload returns the JSON encoded StreakBatchPayload
func (t *StreakBatchTask) Payload() []byte { return t.raw }

// Status returns the status the task was created or restored with
func (t *StreakBatchTask) Status() TaskStatus { return t.status }

// Execute runs the days of the payload oldest first and stops at the first
// partial day. Later days must not be applied to a user whose earlier day
// failed; the scheduler plans the partial day again on its next tick.
func (t *StreakBatchTask) Execute(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, t.logger).With(
		slog.String("timezone", t.payload.Timezone))

	for _, dayKey := range t.payload.Days {
		if err := ctx.Err(); err != nil {
			return err
		}

		run, err := t.processor.RunDailyStreakBatch(ctx, dayKey, t.payload.Timezone)
		if err != nil {
			return fmt.Errorf("streak batch for %s on %s: %w", t.payload.Timezone, dayKey, err)
		}
		if run.Status == domain.BatchRunPartial {
			log.Warn("streak batch day partially failed, stopping",
				slog.String("day_key", dayKey),
				slog.Int("failed", run.Failed))
			return fmt.Errorf("day %s: %d users failed", dayKey, run.Failed)
		}
	}
	return nil
}

// StreakBatchTaskFactory creates StreakBatchTask instances
type StreakBatchTaskFactory struct {
	processor BatchProcessor
	logger    *slog.Logger
}

// NewStreakBatchTaskFactory creates a new factory for StreakBatchTasks
func NewStreakBatchTaskFactory(processor BatchProcessor, logger *slog.Logger) *StreakBatchTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreakBatchTaskFactory{
		processor: processor,
		logger:    logger.With(slog.String("component", "streak_batch_task")),
	}
}

var _ TaskFactory = (*StreakBatchTaskFactory)(nil)

// TaskType implements TaskFactory.TaskType
func (f *StreakBatchTaskFactory) TaskType() string {
	return TaskTypeStreakBatch
}

// CreateTask creates a new StreakBatchTask
func (f *StreakBatchTaskFactory) CreateTask(payload StreakBatchPayload) (*StreakBatchTask, error) {
	return NewStreakBatchTask(payload, f.processor, f.logger)
}

// NewTask implements TaskFactory.NewTask
func (f *StreakBatchTaskFactory) NewTask(payload []byte) (Task, error) {
	var p StreakBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal streak batch payload: %w", err)
	}
	return f.CreateTask(p)
}

// Restore implements TaskFactory.Restore
func (f *StreakBatchTaskFactory) Restore(record TaskRecord) (Task, error) {
	var p StreakBatchPayload
	if err := json.Unmarshal(record.Payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal streak batch payload: %w", err)
	}
	return newStreakBatchTask(record.ID, record.Status, p, f.processor, f.logger)
}
