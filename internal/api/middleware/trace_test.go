package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damu-app/damu-api/internal/api/shared"
	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace_SetsTraceIDAndLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	})

	rec := httptest.NewRecorder()
	Trace(base)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/water/today", nil))

	require.Len(t, traceID, 32)
	out := buf.String()
	assert.Contains(t, out, "request started")
	assert.Contains(t, out, "inside handler")
	assert.Contains(t, out, "trace_id="+traceID)
}
