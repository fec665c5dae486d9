package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/damu-app/damu-api/internal/api/middleware"
	"github.com/damu-app/damu-api/internal/api/shared"
	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/store"
	"github.com/go-playground/validator/v10"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors

	switch {
	// Authentication errors
	case errors.Is(err, middleware.ErrInvalidToken),
		errors.Is(err, middleware.ErrExpiredToken),
		errors.Is(err, middleware.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidTimeZone),
		errors.Is(err, domain.ErrInvalidDayKey),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody),
		errors.As(err, &verrs):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verrs validator.ValidationErrors

	switch {
	case errors.Is(err, middleware.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, middleware.ErrInvalidToken),
		errors.Is(err, middleware.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrIntakeExists):
		return "Intake already recorded"

	case errors.Is(err, domain.ErrInvalidTimeZone):
		return "Invalid timezone"

	case errors.Is(err, domain.ErrInvalidMonth):
		return "Invalid month, expected YYYY-MM"

	case errors.Is(err, domain.ErrInvalidPeriod):
		return "Invalid period, expected day, week or month"

	case errors.Is(err, domain.ErrInvalidRange):
		return "Invalid time range"

	case errors.Is(err, domain.ErrInvalidDayKey):
		return "Invalid date, expected YYYY-MM-DD"

	case errors.Is(err, domain.ErrInvalidAmount):
		return "Invalid amount_ml"

	case errors.Is(err, domain.ErrInvalidTemperature):
		return "Invalid temperature_c"

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.As(err, &verrs):
		return SanitizeValidationError(err)

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a message naming the
// first failing field. Other errors get a generic message.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fieldName(fe.Field()), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "datetime":
		return "invalid date format"
	default:
		return "validation failed"
	}
}

// fieldName converts a Go field name like AmountMl to its JSON form amount_ml.
func fieldName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HandleAPIError maps err to a status code and safe message and writes the
// error response. fallbackMsg replaces the generic message for 500s.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMsg != "" {
		msg = fallbackMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, msg, err, opts...)
}
