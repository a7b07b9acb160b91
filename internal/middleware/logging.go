package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// LoggingMiddleware logs basic request info (request-id, method, path, status, duration).
func LoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get("X-Request-Id")
			if rid == "" {
				rid = middleware.GetReqID(r.Context())
			}
			start := time.Now()
			rec := &statusRecorder{
				ResponseWriter: w,
				Status:         http.StatusOK, // default until changed
			}
			next.ServeHTTP(rec, r)

			logger.Info().
				Str("request_id", rid).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.Status).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		}
		return http.HandlerFunc(fn)
	}
}
