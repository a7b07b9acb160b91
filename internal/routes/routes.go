package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	handlers "github.com/Kiran-230202/Otelier-Explorer/internal/http"
	mid "github.com/Kiran-230202/Otelier-Explorer/internal/middleware"
	"github.com/Kiran-230202/Otelier-Explorer/internal/obs"
)

func GetRoutes(h *handlers.Handler, metrics *obs.Metrics, logger zerolog.Logger, rateLimit int, rateWindow time.Duration) *chi.Mux {
	r := chi.NewRouter()
	// Useful built-in middlewares
	r.Use(middleware.RealIP)    // proper client IP extraction
	r.Use(middleware.RequestID) // sets request ID header
	r.Use(middleware.Recoverer) // built-in recoverer to avoid panics taking server down

	// our custom middlewares: metrics, logging & timeout
	r.Use(mid.MetricsMiddleware(metrics))
	r.Use(mid.LoggingMiddleware(logger))
	r.Use(mid.TimeoutMiddleware(15 * time.Second))
	r.Use(httprate.LimitByIP(rateLimit, rateWindow))

	// endpoints
	r.Route("/api", func(r chi.Router) {
		r.Post("/search", h.Search)
		r.Get("/results", h.Results)
		r.Post("/results/visible", h.LastItemVisible)
		r.Post("/selection/toggle", h.ToggleSelection)
		r.Get("/selection", h.Selection)
	})
	r.Get("/healthz", h.Healthz)
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	return r
}
