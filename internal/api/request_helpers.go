package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/damu-app/damu-api/internal/api/shared"
	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/domain/day"
	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/google/uuid"
)

// TimezoneHeader lets clients send their IANA zone instead of ?tz=.
const TimezoneHeader = "X-Timezone"

// getUserIDFromContext extracts the authenticated user's UUID from the request context.
// The user ID is expected to be placed in the context by the authentication middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

// requireUserID returns the authenticated user or writes a 401 and reports false.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return userID, true
}

// requestTimezone returns the zone requested via ?tz= or the X-Timezone
// header, in that order. An empty result means the user's stored zone.
// A non-empty zone that cannot be loaded yields domain.ErrInvalidTimeZone.
func requestTimezone(r *http.Request) (string, error) {
	tz := strings.TrimSpace(r.URL.Query().Get("tz"))
	if tz == "" {
		tz = strings.TrimSpace(r.Header.Get(TimezoneHeader))
	}
	if tz == "" {
		return "", nil
	}
	if _, err := day.LoadZone(tz); err != nil {
		return "", err
	}
	return tz, nil
}

// parseTimeParam parses a required RFC 3339 query parameter.
func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", domain.ErrInvalidRange, name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC 3339", domain.ErrInvalidRange, name)
	}
	return t, nil
}
