package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	viewsvc "github.com/ddvlanck/tree-index-1/internal/services/views"
)

const namespace = "treeindex"

// Metrics holds every collector the server exports.
type Metrics struct {
	// Views
	ViewsTotal   *prometheus.CounterVec
	ViewDuration *prometheus.HistogramVec
	PagesTotal   *prometheus.CounterVec
	PageEvents   *prometheus.HistogramVec

	// HTTP
	RequestsTotal *prometheus.CounterVec

	// Storage
	StorageReadDuration   prometheus.Histogram
	StorageReadBytes      prometheus.Counter
	StorageCommitDuration prometheus.Histogram
	StorageCommitBytes    prometheus.Counter
}

// New creates the collectors without registering them.
func New() *Metrics {
	return &Metrics{
		ViewsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "views",
				Name:      "total",
				Help:      "Views served by view and outcome",
			},
			[]string{"view", "outcome"},
		),
		ViewDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "views",
				Name:      "duration_seconds",
				Help:      "View latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"view"},
		),
		PagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pages",
				Name:      "total",
				Help:      "Pages cut by view and completion (more, exhausted, hard_capped)",
			},
			[]string{"view", "completion"},
		),
		PageEvents: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pages",
				Name:      "events",
				Help:      "Events per page",
				Buckets:   []float64{0, 1, 10, 50, 100, 250, 500, 1000, 2000},
			},
			[]string{"view"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method and status code",
			},
			[]string{"method", "code"},
		),
		StorageReadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "read_duration_seconds",
				Help:      "Point read latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		StorageReadBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "read_bytes_total",
				Help:      "Bytes returned by point reads",
			},
		),
		StorageCommitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "commit_duration_seconds",
				Help:      "Batch commit latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		StorageCommitBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "commit_bytes_total",
				Help:      "Bytes written by batch commits",
			},
		),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ViewsTotal, m.ViewDuration, m.PagesTotal, m.PageEvents,
		m.RequestsTotal,
		m.StorageReadDuration, m.StorageReadBytes, m.StorageCommitDuration, m.StorageCommitBytes,
	}
}

// ObserveView implements viewsvc.Recorder.
func (m *Metrics) ObserveView(view, outcome string, elapsed time.Duration) {
	m.ViewsTotal.WithLabelValues(view, outcome).Inc()
	m.ViewDuration.WithLabelValues(view).Observe(elapsed.Seconds())
}

// ObservePage implements viewsvc.Recorder.
func (m *Metrics) ObservePage(view string, events int, completion viewsvc.Completion) {
	m.PagesTotal.WithLabelValues(view, completion.String()).Inc()
	m.PageEvents.WithLabelValues(view).Observe(float64(events))
}

// ObserveRequest counts one HTTP response.
func (m *Metrics) ObserveRequest(method string, code int) {
	m.RequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// ObserveRead implements pebblestore.MetricsHook.
func (m *Metrics) ObserveRead(elapsed time.Duration, bytes int) {
	m.StorageReadDuration.Observe(elapsed.Seconds())
	m.StorageReadBytes.Add(float64(bytes))
}

// ObserveBatchCommit implements pebblestore.MetricsHook.
func (m *Metrics) ObserveBatchCommit(elapsed time.Duration, bytes int) {
	m.StorageCommitDuration.Observe(elapsed.Seconds())
	m.StorageCommitBytes.Add(float64(bytes))
}

// Registry owns a private Prometheus registry with the server metrics and
// the Go runtime collectors.
type Registry struct {
	reg     *prometheus.Registry
	Metrics *Metrics
}

// NewRegistry creates and registers every collector.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	m := New()
	reg.MustRegister(m.collectors()...)
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{reg: reg, Metrics: m}
}

// Prometheus returns the underlying registry.
func (r *Registry) Prometheus() *prometheus.Registry { return r.reg }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
