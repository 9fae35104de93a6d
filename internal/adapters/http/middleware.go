package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const callerIDKey contextKey = "caller_id"

// CallerIdentity lifts the X-User-ID header into the request context for
// audit logging. Authentication is terminated upstream; this service trusts
// the header the edge injects.
func CallerIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if callerID := r.Header.Get("X-User-ID"); callerID != "" {
			r = r.WithContext(context.WithValue(r.Context(), callerIDKey, callerID))
		}
		next.ServeHTTP(w, r)
	})
}

func callerID(ctx context.Context) string {
	if v, ok := ctx.Value(callerIDKey).(string); ok {
		return v
	}
	return ""
}

// RequestLogger emits one structured line per request.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "request handled",
				"module", "http",
				"layer", "adapter",
				"operation", "handle",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"caller_id", callerID(r.Context()),
			)
		})
	}
}
