// Package telemetry exports Prometheus metrics for the decision service.
package telemetry

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cropwise"

// Fallback reason labels. Free-form classifier errors are collapsed so the
// label set stays bounded.
const (
	FallbackModelNotLoaded  = "model_not_loaded"
	FallbackClassifierError = "classifier_error"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	Recommendations *prometheus.CounterVec
	Fallbacks       *prometheus.CounterVec
	ModelLoaded     prometheus.Gauge
	WeatherLookups  *prometheus.CounterVec
	Analyses        *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// Provider owns a private registry and the metrics registered on it.
type Provider struct {
	registry *prometheus.Registry
	Metrics  *Metrics
}

// New creates a Provider with Go runtime and process collectors registered.
func New() *Provider {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	m := &Metrics{}
	m.initDecisionMetrics(factory)
	m.initCollaboratorMetrics(factory)
	m.initHTTPMetrics(factory)

	return &Provider{registry: reg, Metrics: m}
}

func (m *Metrics) initDecisionMetrics(factory promauto.Factory) {
	m.Recommendations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Recommendations generated by source and action",
	}, []string{"source", "action"})

	m.Fallbacks = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallbacks_total",
		Help:      "Recommendations resolved by the rule table instead of the model",
	}, []string{"reason"})

	m.ModelLoaded = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "model_loaded",
		Help:      "1 when a trained classifier backs the engine",
	})
}

func (m *Metrics) initCollaboratorMetrics(factory promauto.Factory) {
	m.WeatherLookups = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "weather_lookups_total",
		Help:      "Weather snapshot lookups by outcome",
	}, []string{"result"})

	m.Analyses = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_analyses_total",
		Help:      "Image analyses by outcome",
	}, []string{"result"})
}

func (m *Metrics) initHTTPMetrics(factory promauto.Factory) {
	m.HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method and status code",
	}, []string{"method", "code"})

	m.HTTPDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method"})
}

// Handler returns the /metrics endpoint for this provider's registry.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// WatchDatabase exports connection pool statistics for db under the
// go_sql_* metric family.
func (p *Provider) WatchDatabase(db *sql.DB) {
	p.registry.MustRegister(collectors.NewDBStatsCollector(db, namespace))
}

// Gatherer exposes the registry for tests and custom exporters.
func (p *Provider) Gatherer() prometheus.Gatherer {
	return p.registry
}

// RecordRecommendation counts one generated recommendation. A non-empty
// fallbackReason also counts a fallback; modelLoaded distinguishes a missing
// model from a failed one.
func (p *Provider) RecordRecommendation(source, action, fallbackReason string, modelLoaded bool) {
	p.Metrics.Recommendations.WithLabelValues(source, action).Inc()
	if fallbackReason == "" {
		return
	}
	reason := FallbackClassifierError
	if !modelLoaded {
		reason = FallbackModelNotLoaded
	}
	p.Metrics.Fallbacks.WithLabelValues(reason).Inc()
}

// SetModelLoaded records whether a model bundle is active.
func (p *Provider) SetModelLoaded(loaded bool) {
	if loaded {
		p.Metrics.ModelLoaded.Set(1)
		return
	}
	p.Metrics.ModelLoaded.Set(0)
}

// RecordWeatherLookup counts one snapshot lookup by result label.
func (p *Provider) RecordWeatherLookup(result string) {
	p.Metrics.WeatherLookups.WithLabelValues(result).Inc()
}

// RecordAnalysis counts one image analysis by result label.
func (p *Provider) RecordAnalysis(result string) {
	p.Metrics.Analyses.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency.
func (p *Provider) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rec, r)

			p.Metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.code)).Inc()
			p.Metrics.HTTPDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
