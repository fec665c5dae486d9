package api

import (
	"log/slog"
	"net/http"

	"github.com/damu-app/damu-api/internal/api/shared"
	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/damu-app/damu-api/internal/service"
)

// BadgeHandler lists earned badges.
type BadgeHandler struct {
	streakService service.StreakService
	logger        *slog.Logger
}

// NewBadgeHandler creates a new BadgeHandler.
func NewBadgeHandler(streakService service.StreakService, logger *slog.Logger) *BadgeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BadgeHandler{
		streakService: streakService,
		logger:        logger.With(slog.String("component", "badge_handler")),
	}
}

// List handles GET /badges.
func (h *BadgeHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	badges, err := h.streakService.ListBadges(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list badges")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, badgeListToResponse(badges))
}
