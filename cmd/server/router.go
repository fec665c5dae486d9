package main

import (
	"log/slog"
	"net/http"

	"github.com/damu-app/damu-api/internal/api"
	apiMiddleware "github.com/damu-app/damu-api/internal/api/middleware"
	"github.com/damu-app/damu-api/internal/platform/metrics"
	"github.com/damu-app/damu-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// routerDeps are the collaborators the HTTP layer needs.
type routerDeps struct {
	logger              *slog.Logger
	metrics             *metrics.Metrics
	tokenValidator      apiMiddleware.TokenValidator
	intakeRatePerMinute int
	hydration           service.HydrationService
	reminders           service.ReminderService
	streaks             service.StreakService
}

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	return newRouter(routerDeps{
		logger:              app.logger,
		metrics:             app.metrics,
		tokenValidator:      app.tokenValidator,
		intakeRatePerMinute: app.config.Hydration.IntakeRatePerMinute,
		hydration:           app.hydrationService,
		reminders:           app.reminderService,
		streaks:             app.streakService,
	})
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(deps.logger))
	r.Use(deps.metrics.Middleware)

	hydrationHandler := api.NewHydrationHandler(deps.hydration, deps.logger)
	reminderHandler := api.NewReminderHandler(deps.reminders, deps.logger)
	badgeHandler := api.NewBadgeHandler(deps.streaks, deps.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(deps.tokenValidator)
	intakeLimiter := apiMiddleware.NewUserRateLimiter(deps.intakeRatePerMinute)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.With(intakeLimiter.Limit).Post("/water/logs", hydrationHandler.RecordIntake)
		r.Get("/water/today", hydrationHandler.Today)
		r.Get("/water/daily", hydrationHandler.Daily)
		r.Get("/water/stats", hydrationHandler.Stats)

		r.Get("/stats/weekly", hydrationHandler.Weekly)
		r.Get("/stats/monthly", hydrationHandler.Monthly)

		r.Get("/notifications/recommendations", reminderHandler.Recommendations)

		r.Get("/badges", badgeHandler.List)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			deps.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})
	r.Method(http.MethodGet, "/metrics", deps.metrics.Handler())

	return r
}
