package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
)

// Metrics holds all Prometheus metrics for the simulator API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration    *prometheus.HistogramVec
	externalErrors     *prometheus.CounterVec
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	tokensUsed         *prometheus.CounterVec
	simulationsTotal   *prometheus.CounterVec
	extractionRequests *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taxsim_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxsim_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxsim_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxsim_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		tokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxsim_llm_tokens_total",
				Help: "Total LLM tokens consumed by document extraction.",
			},
			[]string{"type"},
		),
		simulationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxsim_simulations_total",
				Help: "Total simulations run, labeled by the winning regime.",
			},
			[]string{"best"},
		),
		extractionRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxsim_extraction_requests_total",
				Help: "Total document extraction requests by source.",
			},
			[]string{"source"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordTokens records prompt and completion token usage.
func (m *Metrics) RecordTokens(prompt, completion int) {
	m.tokensUsed.WithLabelValues("prompt").Add(float64(prompt))
	m.tokensUsed.WithLabelValues("completion").Add(float64(completion))
}

// IncrSimulation counts one simulation run, labeled by the regime the
// selector picked as cheapest.
func (m *Metrics) IncrSimulation(best domain.Regime) {
	m.simulationsTotal.WithLabelValues(string(best)).Inc()
}

// IncrExtraction counts one extraction request by source ("gemini",
// "agent", "xlsx", "xls", "csv").
func (m *Metrics) IncrExtraction(source string) {
	m.extractionRequests.WithLabelValues(source).Inc()
}

// Snapshot returns current counter values for the devtools endpoint.
func (m *Metrics) Snapshot() *domain.DevMetricsSnapshot {
	simulations := sumCounterValues(m.simulationsTotal,
		string(domain.RegimeSimples), string(domain.RegimePresumido), string(domain.RegimeReal))
	extractions := sumCounterValues(m.extractionRequests,
		"gemini", "agent", "xlsx", "xls", "csv")
	tokens := sumCounterValues(m.tokensUsed, "prompt", "completion")
	hits := sumCounterValues(m.cacheHits, "presets", "simulations", "sample_ledger")
	misses := sumCounterValues(m.cacheMisses, "presets", "simulations", "sample_ledger")
	errors := sumCounterValues(m.externalErrors, "supabase", "gemini", "agent", "gotenberg")

	return &domain.DevMetricsSnapshot{
		SimulationsTotal:   simulations,
		ExtractionRequests: extractions,
		ExtractionTokens:   tokens,
		CacheHits:          hits,
		CacheMisses:        misses,
		ExternalErrors:     errors,
	}
}

// sumCounterValues adds up the current values of a CounterVec over a
// known label set. Prometheus counters expose cumulative values.
func sumCounterValues(cv *prometheus.CounterVec, labels ...string) float64 {
	var total float64
	for _, label := range labels {
		counter := cv.WithLabelValues(label)
		m := &dto.Metric{}
		if err := counter.(prometheus.Metric).Write(m); err != nil {
			continue
		}
		if m.Counter != nil && m.Counter.Value != nil {
			total += *m.Counter.Value
		}
	}
	return total
}
