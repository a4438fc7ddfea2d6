package providers

import (
	"time"

	"f2g/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncConversions(result string)
	AddRecordsConverted(converted, skipped int)
	IncRejected(reason string)
	SetStoredKeys(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	conversions         *prometheus.CounterVec
	records             *prometheus.CounterVec
	rejected            *prometheus.CounterVec
	storedKeys          prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncConversions(result string) {
	m.conversions.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) AddRecordsConverted(converted, skipped int) {
	m.records.WithLabelValues("converted").Add(float64(converted))
	m.records.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *MetricsProvider) IncRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *MetricsProvider) SetStoredKeys(count int) {
	m.storedKeys.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "f2g_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "f2g_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "f2g_cache_hits_total",
			Help: "Total number of download cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "f2g_cache_misses_total",
			Help: "Total number of download cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "f2g_persistence_duration_seconds",
			Help:    "Duration of store snapshot operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		conversions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "f2g_conversions_total",
			Help: "Conversion requests by result",
		}, []string{"result"}),

		records: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "f2g_records_total",
			Help: "Weight records converted or skipped",
		}, []string{"outcome"}),

		rejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "f2g_rejected_total",
			Help: "Requests rejected by usage or rate limits",
		}, []string{"reason"}),

		storedKeys: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "f2g_store_keys",
			Help: "Number of live keys in the session store",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncConversions(_ string)                          {}
func (n *noopMetrics) AddRecordsConverted(_, _ int)                     {}
func (n *noopMetrics) IncRejected(_ string)                             {}
func (n *noopMetrics) SetStoredKeys(_ int)                              {}
