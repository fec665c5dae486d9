package store

import (
	"errors"
	"fmt"
)

// Generic sentinels. Stores wrap them so callers can match with errors.Is
// regardless of which entity was involved.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicate         = errors.New("entity already exists")
	ErrInvalidEntity     = errors.New("invalid entity")
	ErrTransactionFailed = errors.New("transaction failed")
)

// Entity-specific sentinels.
var (
	// ErrUserNotFound is returned when no hydration profile exists for the user.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrIntakeNotFound is returned by QueryLatest when the user never logged an intake.
	ErrIntakeNotFound = fmt.Errorf("%w: intake event", ErrNotFound)

	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrIntakeExists is returned when an event ID is appended twice.
	ErrIntakeExists = fmt.Errorf("%w: intake event", ErrDuplicate)
)

// StoreError records which entity and operation a storage failure belongs to.
type StoreError struct {
	Entity    string
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err with the entity and operation it failed on.
func NewStoreError(entity, operation string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Err: err}
}
