package task

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const mockTaskType = "mock_task"

// MockTask is a simple implementation of the Task interface for testing
type MockTask struct {
	TaskID      uuid.UUID
	TaskType    string
	TaskPayload []byte
	TaskStatus  TaskStatus
	ExecuteFn   func(ctx context.Context) error
}

// NewMockTask creates a new MockTask with the given ID and type
func NewMockTask(id uuid.UUID, taskType string, payload []byte) *MockTask {
	return &MockTask{
		TaskID:      id,
		TaskType:    taskType,
		TaskPayload: payload,
		TaskStatus:  TaskStatusPending,
		ExecuteFn:   func(ctx context.Context) error { return nil },
	}
}

func (t *MockTask) ID() uuid.UUID                     { return t.TaskID }
func (t *MockTask) Type() string                      { return t.TaskType }
func (t *MockTask) Payload() []byte                   { return t.TaskPayload }
func (t *MockTask) Status() TaskStatus                { return t.TaskStatus }
func (t *MockTask) Execute(ctx context.Context) error { return t.ExecuteFn(ctx) }

// MockPayload is a sample payload structure used for testing
type MockPayload struct {
	Message string    `json:"message"`
	Created time.Time `json:"created"`
}

// CreateMockTaskWithPayload is a helper function to create a MockTask with a structured payload
func CreateMockTaskWithPayload(message string) *MockTask {
	payload := MockPayload{
		Message: message,
		Created: time.Now().UTC(),
	}

	data, _ := json.Marshal(payload)
	return NewMockTask(uuid.New(), mockTaskType, data)
}

// MockTaskFactory rebuilds MockTasks that all share one execute function
type MockTaskFactory struct {
	ExecuteFn func(ctx context.Context, id uuid.UUID) error
	RestoreFn func(record TaskRecord) (Task, error)
}

func (f *MockTaskFactory) TaskType() string { return mockTaskType }

func (f *MockTaskFactory) NewTask(payload []byte) (Task, error) {
	if !json.Valid(payload) {
		return nil, errors.New("invalid payload")
	}
	return f.build(uuid.New(), payload), nil
}

func (f *MockTaskFactory) Restore(record TaskRecord) (Task, error) {
	if f.RestoreFn != nil {
		return f.RestoreFn(record)
	}
	t := f.build(record.ID, record.Payload)
	t.TaskStatus = record.Status
	return t, nil
}

func (f *MockTaskFactory) build(id uuid.UUID, payload []byte) *MockTask {
	t := NewMockTask(id, mockTaskType, payload)
	if f.ExecuteFn != nil {
		t.ExecuteFn = func(ctx context.Context) error { return f.ExecuteFn(ctx, id) }
	}
	return t
}
