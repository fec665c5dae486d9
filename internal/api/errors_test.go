package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damu-app/damu-api/internal/api/middleware"
	"github.com/damu-app/damu-api/internal/api/shared"
	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/service"
	"github.com/damu-app/damu-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationErr(t *testing.T) error {
	t.Helper()
	err := shared.ValidateRequest(&RecordIntakeRequest{AmountMl: 5})
	require.Error(t, err)
	return err
}

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"invalid token", middleware.ErrInvalidToken, http.StatusUnauthorized},
		{"wrapped expired token", fmt.Errorf("auth: %w", middleware.ErrExpiredToken), http.StatusUnauthorized},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"generic not found", store.ErrNotFound, http.StatusNotFound},
		{"duplicate intake", store.ErrIntakeExists, http.StatusConflict},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid timezone", domain.ErrInvalidTimeZone, http.StatusBadRequest},
		{"invalid month", fmt.Errorf("%w: %q", domain.ErrInvalidMonth, "2024-13"), http.StatusBadRequest},
		{"invalid period", domain.ErrInvalidPeriod, http.StatusBadRequest},
		{"invalid range", domain.ErrInvalidRange, http.StatusBadRequest},
		{"invalid day key", domain.ErrInvalidDayKey, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"empty body", shared.ErrEmptyBody, http.StatusBadRequest},
		{"validator errors", validationErr(t), http.StatusBadRequest},
		{
			"service error wrapping not found",
			service.NewServiceError("hydration", "TodayProgress", store.ErrUserNotFound),
			http.StatusNotFound,
		},
		{
			"service error wrapping unknown",
			service.NewServiceError("hydration", "TodayProgress", errors.New("connection reset")),
			http.StatusInternalServerError,
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"expired token", middleware.ErrExpiredToken, "Token expired"},
		{"wrong token type", middleware.ErrWrongTokenType, "Invalid token"},
		{"user not found", store.ErrUserNotFound, "User not found"},
		{"intake exists", store.ErrIntakeExists, "Intake already recorded"},
		{"invalid timezone", fmt.Errorf("load: %w", domain.ErrInvalidTimeZone), "Invalid timezone"},
		{"invalid month", domain.ErrInvalidMonth, "Invalid month, expected YYYY-MM"},
		{"invalid period", domain.ErrInvalidPeriod, "Invalid period, expected day, week or month"},
		{"invalid amount", domain.ErrInvalidAmount, "Invalid amount_ml"},
		{"invalid temperature", domain.ErrInvalidTemperature, "Invalid temperature_c"},
		{"other domain validation", domain.ErrInvalidGoal, "Validation error"},
		{"validator errors", validationErr(t), "Invalid amount_ml: too small"},
		{"internal details hidden", errors.New("pq: relation \"users\" does not exist"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	tooWarm := 150.0

	tests := []struct {
		name     string
		req      RecordIntakeRequest
		expected string
	}{
		{"missing amount", RecordIntakeRequest{}, "Invalid amount_ml: required field"},
		{"amount too large", RecordIntakeRequest{AmountMl: 2500}, "Invalid amount_ml: too large"},
		{"temperature too high", RecordIntakeRequest{AmountMl: 250, TemperatureC: &tooWarm}, "Invalid temperature_c: too large"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := shared.ValidateRequest(&tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.expected, SanitizeValidationError(err))
		})
	}

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("plain")))
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "amount_ml", fieldName("AmountMl"))
	assert.Equal(t, "temperature_c", fieldName("TemperatureC"))
	assert.Equal(t, "month", fieldName("Month"))
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		fallback    string
		wantStatus  int
		wantMessage string
	}{
		{"mapped error ignores fallback", store.ErrUserNotFound, "Failed", http.StatusNotFound, "User not found"},
		{"internal error uses fallback", errors.New("db down"), "Failed to get stats", http.StatusInternalServerError, "Failed to get stats"},
		{"internal error without fallback", errors.New("db down"), "", http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/water/stats", nil)
			req = req.WithContext(shared.SetTraceID(req.Context()))
			rec := httptest.NewRecorder()

			HandleAPIError(rec, req, tc.err, tc.fallback)

			assert.Equal(t, tc.wantStatus, rec.Code)
			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantMessage, body.Error)
			assert.Equal(t, shared.GetTraceID(req.Context()), body.TraceID)
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}
