package api

import (
	"log/slog"
	"net/http"

	"github.com/damu-app/damu-api/internal/api/shared"
	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/damu-app/damu-api/internal/service"
)

// ReminderHandler serves computed reminder schedules.
type ReminderHandler struct {
	reminderService service.ReminderService
	logger          *slog.Logger
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService service.ReminderService, logger *slog.Logger) *ReminderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderHandler{
		reminderService: reminderService,
		logger:          logger.With(slog.String("component", "reminder_handler")),
	}
}

// Recommendations handles GET /notifications/recommendations.
func (h *ReminderHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}
	tz, err := requestTimezone(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	schedule, err := h.reminderService.ComputeReminders(r.Context(), userID, tz)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute reminders")
		return
	}

	log.Debug("reminders computed",
		slog.Bool("enabled", schedule.Enabled),
		slog.Int("count", len(schedule.Items)))
	shared.RespondWithJSON(w, r, http.StatusOK, schedule)
}
