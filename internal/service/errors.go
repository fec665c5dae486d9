package service

import (
	"errors"
	"fmt"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNilDependency is returned by constructors when a required collaborator is missing.
	ErrNilDependency = errors.New("required dependency is nil")

	// ErrBatchAborted indicates that a streak batch could not start, for
	// example because the users of the timezone could not be listed.
	// Per-user failures never produce this error.
	ErrBatchAborted = errors.New("streak batch aborted")
)

// ServiceError wraps an unexpected failure with the service and operation
// that produced it.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Err:     err,
	}
}

// wrapError returns expected conditions unchanged and wraps everything else
// in a ServiceError. A missing user stays store.ErrUserNotFound and domain
// validation failures keep their identity so the API can map them.
func wrapError(service, op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidTimeZone),
		errors.Is(err, domain.ErrInvalidDayKey),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, domain.ErrInvalidRange):
		return err
	}
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return err
	}
	return NewServiceError(service, op, err)
}
