package service_test

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) UpdateStreak(ctx context.Context, id uuid.UUID, streak int) error {
	args := m.Called(ctx, id, streak)
	return args.Error(0)
}

func (m *MockUserStore) ListIDsByTimezone(ctx context.Context, tz string, includeUnset bool) ([]uuid.UUID, error) {
	args := m.Called(ctx, tz, includeUnset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserStore) ListTimezones(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// MockIntakeStore mocks the store.IntakeStore interface
type MockIntakeStore struct {
	mock.Mock
}

func (m *MockIntakeStore) Append(ctx context.Context, event *domain.IntakeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockIntakeStore) QueryRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.IntakeEvent, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IntakeEvent), args.Error(1)
}

func (m *MockIntakeStore) SumRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, int, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockIntakeStore) QueryLatest(ctx context.Context, userID uuid.UUID) (*domain.IntakeEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntakeEvent), args.Error(1)
}

func (m *MockIntakeStore) WithTx(tx *sql.Tx) store.IntakeStore {
	return m
}

// MockBadgeStore mocks the store.BadgeStore interface
type MockBadgeStore struct {
	mock.Mock
}

func (m *MockBadgeStore) CreateIfAbsent(ctx context.Context, badge *domain.Badge) (bool, error) {
	args := m.Called(ctx, badge)
	return args.Bool(0), args.Error(1)
}

func (m *MockBadgeStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Badge, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Badge), args.Error(1)
}

func (m *MockBadgeStore) WithTx(tx *sql.Tx) store.BadgeStore {
	return m
}

// MockLedgerStore mocks the store.StreakLedgerStore interface
type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) Claim(ctx context.Context, userID uuid.UUID, dayKey string) (bool, error) {
	args := m.Called(ctx, userID, dayKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerStore) WithTx(tx *sql.Tx) store.StreakLedgerStore {
	return m
}

// MockBatchRunStore mocks the store.BatchRunStore interface
type MockBatchRunStore struct {
	mock.Mock
}

func (m *MockBatchRunStore) Record(ctx context.Context, run *domain.BatchRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockBatchRunStore) LastCompleted(ctx context.Context, tz string) (string, error) {
	args := m.Called(ctx, tz)
	return args.String(0), args.Error(1)
}

// recordingRecorder counts Recorder calls.
type recordingRecorder struct {
	mu       sync.Mutex
	intakes  int
	outcomes map[string]int
	badges   map[domain.BadgeType]int
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{
		outcomes: map[string]int{},
		badges:   map[domain.BadgeType]int{},
	}
}

func (r *recordingRecorder) IntakeRecorded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intakes++
}

func (r *recordingRecorder) BatchUser(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome]++
}

func (r *recordingRecorder) BadgeAwarded(t domain.BadgeType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.badges[t]++
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
