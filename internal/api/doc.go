// Package api exposes the hydration, reminder and badge use cases over HTTP.
// Handlers translate requests into service calls and map service errors to
// status codes; authentication, tracing and rate limiting live in the
// middleware subpackage and response helpers in shared.
package api
