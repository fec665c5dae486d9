package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockTaskStore implements the TaskStore interface for testing
type MockTaskStore struct {
	mutex           sync.RWMutex
	records         map[uuid.UUID]*TaskRecord
	taskStatusTimes map[uuid.UUID]time.Time
	SaveFn          func(ctx context.Context, task Task) error
	UpdateStatusFn  func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error
}

// NewMockTaskStore creates a new MockTaskStore with default implementations
func NewMockTaskStore() *MockTaskStore {
	store := &MockTaskStore{
		records:         make(map[uuid.UUID]*TaskRecord),
		taskStatusTimes: make(map[uuid.UUID]time.Time),
	}

	store.SaveFn = func(ctx context.Context, task Task) error {
		store.mutex.Lock()
		defer store.mutex.Unlock()

		now := time.Now()
		store.records[task.ID()] = &TaskRecord{
			ID:        task.ID(),
			Type:      task.Type(),
			Payload:   task.Payload(),
			Status:    task.Status(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		store.taskStatusTimes[task.ID()] = now
		return nil
	}

	store.UpdateStatusFn = func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
		store.mutex.Lock()
		defer store.mutex.Unlock()

		rec, exists := store.records[taskID]
		if !exists {
			return nil // Simulate "not found" as a no-op for testing simplicity
		}

		rec.Status = status
		rec.ErrorMessage = errorMsg
		rec.UpdatedAt = time.Now()
		store.taskStatusTimes[taskID] = rec.UpdatedAt
		return nil
	}

	return store
}

// SaveTask persists a task to the mock store
func (s *MockTaskStore) SaveTask(ctx context.Context, task Task) error {
	return s.SaveFn(ctx, task)
}

// UpdateTaskStatus updates the status of a task in the mock store
func (s *MockTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	return s.UpdateStatusFn(ctx, taskID, status, errorMsg)
}

// GetPendingTasks retrieves all tasks with "pending" status
func (s *MockTaskStore) GetPendingTasks(ctx context.Context) ([]TaskRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var pending []TaskRecord
	for _, rec := range s.records {
		if rec.Status == TaskStatusPending {
			pending = append(pending, *rec)
		}
	}
	return pending, nil
}

// GetProcessingTasks retrieves tasks with "processing" status
func (s *MockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]TaskRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var processing []TaskRecord
	now := time.Now()
	for id, rec := range s.records {
		if rec.Status != TaskStatusProcessing {
			continue
		}
		statusTime, exists := s.taskStatusTimes[id]
		// Zero olderThan includes every processing task
		if olderThan == 0 || (exists && now.Sub(statusTime) > olderThan) {
			processing = append(processing, *rec)
		}
	}
	return processing, nil
}

// status returns the stored status of a task
func (s *MockTaskStore) status(id uuid.UUID) (TaskStatus, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return "", false
	}
	return rec.Status, true
}

// setStatusTime backdates the last status change of a task
func (s *MockTaskStore) setStatusTime(id uuid.UUID, at time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.taskStatusTimes[id] = at
}
