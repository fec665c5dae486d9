package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/damu-app/damu-api/internal/api/shared"
	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/domain/hydration"
	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/damu-app/damu-api/internal/service"
)

// HydrationHandler serves intake logging and the progress and stats views.
type HydrationHandler struct {
	hydrationService service.HydrationService
	logger           *slog.Logger
}

// NewHydrationHandler creates a new HydrationHandler.
func NewHydrationHandler(hydrationService service.HydrationService, logger *slog.Logger) *HydrationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HydrationHandler{
		hydrationService: hydrationService,
		logger:           logger.With(slog.String("component", "hydration_handler")),
	}
}

// RecordIntake handles POST /water/logs.
func (h *HydrationHandler) RecordIntake(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req RecordIntakeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if MapErrorToStatusCode(err) == http.StatusInternalServerError {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tz, err := requestTimezone(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	progress, err := h.hydrationService.RecordIntake(r.Context(), userID, req.AmountMl, req.TemperatureC, tz)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record intake")
		return
	}

	log.Debug("intake recorded",
		slog.Int("amount_ml", req.AmountMl),
		slog.String("date", progress.DayKey),
		slog.Int("consumed_ml", progress.Consumed))
	shared.RespondWithJSON(w, r, http.StatusCreated, progress)
}

// Today handles GET /water/today.
func (h *HydrationHandler) Today(w http.ResponseWriter, r *http.Request) {
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

	progress, err := h.hydrationService.TodayProgress(r.Context(), userID, tz)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get today's progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// Daily handles GET /water/daily?from=&to=.
func (h *HydrationHandler) Daily(w http.ResponseWriter, r *http.Request) {
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
	from, err := parseTimeParam(r, "from")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	totals, err := h.hydrationService.DailyTotals(r.Context(), userID, from, to, tz)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get daily totals")
		return
	}
	if totals == nil {
		totals = []domain.DailyTotal{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DailyTotalsResponse{
		From: from.UTC(),
		To:   to.UTC(),
		Days: totals,
	})
}

// Stats handles GET /water/stats?period=day|week|month. The period defaults to week.
func (h *HydrationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	period := hydration.Period(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("period"))))
	if period == "" {
		period = hydration.PeriodWeek
	}
	h.periodStats(w, r, period)
}

// Weekly handles GET /stats/weekly.
func (h *HydrationHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	h.periodStats(w, r, hydration.PeriodWeek)
}

func (h *HydrationHandler) periodStats(w http.ResponseWriter, r *http.Request, period hydration.Period) {
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

	stats, err := h.hydrationService.PeriodStats(r.Context(), userID, tz, period)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get stats")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// Monthly handles GET /stats/monthly[?month=YYYY-MM].
func (h *HydrationHandler) Monthly(w http.ResponseWriter, r *http.Request) {
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

	month := strings.TrimSpace(r.URL.Query().Get("month"))
	stats, err := h.hydrationService.MonthStats(r.Context(), userID, tz, month)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get monthly stats")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
