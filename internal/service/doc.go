// Package service contains the application use cases of the hydration core.
// It orchestrates the pure domain packages (day, hydration, streak and
// reminder) and the repository interfaces defined in internal/store.
//
// Services:
//   - HydrationService records intake and builds daily, period and month views.
//   - StreakService runs the daily streak batch and lists earned badges.
//   - ReminderService computes the upcoming reminder schedule.
//
// Services receive their dependencies through constructor injection and
// never depend on a concrete storage implementation. Expected conditions
// (a missing user, an invalid timezone, validation failures) are returned
// unchanged so the API layer can map them; anything else is wrapped in a
// ServiceError.
package service
