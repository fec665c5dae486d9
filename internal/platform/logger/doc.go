// Package logger configures the process-wide slog logger and carries
// request- and task-scoped loggers through context.Context.
//
// Setup installs a JSON handler at the configured level. WithLogger and
// FromContext attach and retrieve a logger enriched with fields such as
// trace_id or user_id; FromContextOrDefault lets components fall back to
// their own logger when none is present.
package logger
