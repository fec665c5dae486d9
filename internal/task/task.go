package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a persisted task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskTypeStreakBatch applies finished local days to the streaks of one timezone.
const TaskTypeStreakBatch = "streak_batch"

// Task is a unit of background work. Payload must be enough for the
// matching TaskFactory to rebuild the task after a restart.
type Task interface {
	ID() uuid.UUID
	Type() string
	Payload() []byte
	Status() TaskStatus
	Execute(ctx context.Context) error
}

// TaskRecord is the persisted form of a task.
type TaskRecord struct {
	ID           uuid.UUID
	Type         string
	Payload      []byte
	Status       TaskStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TaskFactory builds executable tasks of a single type.
type TaskFactory interface {
	TaskType() string

	// NewTask creates a fresh pending task from a JSON payload.
	NewTask(payload []byte) (Task, error)

	// Restore rebuilds a persisted task, keeping its ID.
	Restore(record TaskRecord) (Task, error)
}

// TaskSource hands queued tasks to workers.
type TaskSource interface {
	Tasks() <-chan Task
}

// TaskStore persists task state so the runner can resume work after a restart.
type TaskStore interface {
	SaveTask(ctx context.Context, task Task) error
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error
	GetPendingTasks(ctx context.Context) ([]TaskRecord, error)

	// GetProcessingTasks lists processing tasks; a positive olderThan keeps
	// only those not updated within that duration.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]TaskRecord, error)
}
