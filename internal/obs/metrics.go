package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	SearchesTotal     prometheus.Counter
	SearchErrors      *prometheus.CounterVec
	TokenRefreshes    prometheus.Counter
	OffersCacheHits   prometheus.Counter
	WindowExpansions  prometheus.Counter
	SelectionToggles  prometheus.Counter
	UpstreamLatency   *prometheus.HistogramVec
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	Registry          *prometheus.Registry
}

// Create Prometheus collectors and register them
func NewMetrics(p *prometheus.Registry) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotel_searches_total",
			Help: "Total number of searches run",
		}),
		SearchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_search_errors_total",
			Help: "Failed searches by error kind",
		}, []string{"kind"},
		),
		TokenRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotel_token_refreshes_total",
			Help: "Credential exchanges against the upstream identity endpoint",
		}),
		OffersCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotel_offers_cache_hits_total",
			Help: "Offer lookups served from the cache",
		}),
		WindowExpansions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotel_window_expansions_total",
			Help: "Completed result-window expansions",
		}),
		SelectionToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hotel_selection_toggles_total",
			Help: "Selection toggle operations",
		}),
		UpstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hotel_upstream_phase_seconds",
				Help:    "Latency of the resolve and price upstream phases",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"phase"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		Registry: p,
	}

	// Register metrics with Prometheus
	p.MustRegister(
		m.SearchesTotal,
		m.SearchErrors,
		m.TokenRefreshes,
		m.OffersCacheHits,
		m.WindowExpansions,
		m.SelectionToggles,
		m.UpstreamLatency,
		m.HTTPRequestsTotal,
		m.HTTPDuration,
	)

	return m
}

func (m *Metrics) IncSearches()         { m.SearchesTotal.Inc() }
func (m *Metrics) IncTokenRefreshes()   { m.TokenRefreshes.Inc() }
func (m *Metrics) IncOffersCacheHits()  { m.OffersCacheHits.Inc() }
func (m *Metrics) IncWindowExpansions() { m.WindowExpansions.Inc() }
func (m *Metrics) IncSelectionToggles() { m.SelectionToggles.Inc() }

func (m *Metrics) IncSearchErrors(kind string) {
	m.SearchErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveUpstreamLatency(phase string, seconds float64) {
	m.UpstreamLatency.WithLabelValues(phase).Observe(seconds)
}

func (m *Metrics) ObserveHTTPRequestDuration(method string, path string, status string, seconds float64) {
	m.HTTPDuration.WithLabelValues(method, path, status).Observe(seconds)
}

func (m *Metrics) IncHTTPRequestsTotal(method string, path string, status string) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
