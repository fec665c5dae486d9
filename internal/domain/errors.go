// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTimeZone is returned when a timezone identifier is empty or
	// cannot be resolved against the IANA database.
	ErrInvalidTimeZone = errors.New("invalid time zone")

	// ErrInvalidDayKey is returned when a calendar day key is not YYYY-MM-DD.
	ErrInvalidDayKey = errors.New("invalid day key")

	// ErrInvalidMonth is returned when a month key is not YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrInvalidPeriod is returned for a stats period other than day, week or month.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidRange is returned when a time range ends before it starts.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
