package app

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Kiran-230202/Otelier-Explorer/internal/amadeus"
	"github.com/Kiran-230202/Otelier-Explorer/internal/config"
	"github.com/Kiran-230202/Otelier-Explorer/internal/hotel"
	handlers "github.com/Kiran-230202/Otelier-Explorer/internal/http"
	"github.com/Kiran-230202/Otelier-Explorer/internal/mock"
	"github.com/Kiran-230202/Otelier-Explorer/internal/obs"
	"github.com/Kiran-230202/Otelier-Explorer/internal/routes"
	"github.com/Kiran-230202/Otelier-Explorer/internal/session"
)

type App struct {
	Router   http.Handler
	Sessions *session.Store
	Source   hotel.OfferSource
	Metrics  *obs.Metrics
	Logger   zerolog.Logger
}

// New wires the full pipeline: token cache, upstream client, offers cache,
// session store, handlers and router.
func New(cfg config.Config) (*App, error) {
	logger := NewLogger(cfg.LogLevel)

	customRegistry := prometheus.NewRegistry()
	metrics := obs.NewMetrics(customRegistry)

	source, err := BuildSource(cfg, metrics, logger)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(source, cfg.SessionTTL, logger)
	sessions.OnWindowExpand(metrics.IncWindowExpansions)
	h := handlers.NewHandler(sessions, metrics)
	router := routes.GetRoutes(h, metrics, logger, cfg.RateLimit, cfg.RateLimitWindow)

	return &App{
		Router:   router,
		Sessions: sessions,
		Source:   source,
		Metrics:  metrics,
		Logger:   logger,
	}, nil
}

// BuildSource assembles the offer source for the configured mode. Live mode
// stacks the TTL cache on top of the two-phase client; mock mode serves
// fabricated records.
func BuildSource(cfg config.Config, metrics *obs.Metrics, logger zerolog.Logger) (hotel.OfferSource, error) {
	if cfg.Mode == config.ModeMock {
		logger.Info().Msg("running with mock offer source")
		return mock.NewSource(time.Now().UnixNano()), nil
	}

	if err := cfg.ValidateLive(); err != nil {
		return nil, fmt.Errorf("live mode config: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.SearchTimeout}
	tokens := amadeus.NewTokenCache(httpClient, cfg.AmadeusBaseURL, cfg.ClientID, cfg.ClientSecret, logger)
	client := amadeus.NewClient(httpClient, cfg.AmadeusBaseURL, tokens, logger)
	if metrics != nil {
		tokens.OnRefresh(metrics.IncTokenRefreshes)
		client.OnPhase(metrics.ObserveUpstreamLatency)
	}

	cache := amadeus.NewOffersCache(cfg.OffersCacheTTL, client.FetchOffers)
	if metrics != nil {
		cache.OnHit(metrics.IncOffersCacheHits)
	}
	return cache, nil
}

func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
