package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	eventsSent      *prometheus.CounterVec
	eventsDropped   *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	slideViews      *prometheus.CounterVec
	workerJobs      *prometheus.CounterVec
	queueDepth      prometheus.Gauge
	bufferDepth     prometheus.Gauge
	chartRender     *prometheus.HistogramVec
	chartCache      *prometheus.CounterVec
	activeFollowers prometheus.Gauge
}

// New registers the recorder's collectors on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers on reg; tests pass a fresh prometheus.NewRegistry().
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		eventsSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitchdeck_events_sent_total",
				Help: "Total number of deck events sent to backend",
			},
			[]string{"backend", "kind"},
		),
		eventsDropped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitchdeck_events_dropped_total",
				Help: "Deck events dropped before reaching the backend",
			},
			[]string{"reason"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitchdeck_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pitchdeck_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		slideViews: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitchdeck_slide_views_total",
				Help: "Slides shown to viewers",
			},
			[]string{"slide"},
		),
		workerJobs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitchdeck_worker_jobs_total",
				Help: "Roadmap worker jobs by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		queueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "pitchdeck_worker_queue_depth",
			Help: "Requests waiting for a roadmap worker",
		}),
		bufferDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "pitchdeck_event_buffer_depth",
			Help: "Deck events waiting in the pipeline retry buffer",
		}),
		chartRender: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pitchdeck_chart_render_seconds",
				Help:    "SVG chart render time",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"type"},
		),
		chartCache: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitchdeck_chart_cache_total",
				Help: "Chart SVG cache lookups",
			},
			[]string{"result"},
		),
		activeFollowers: f.NewGauge(prometheus.GaugeOpts{
			Name: "pitchdeck_session_followers",
			Help: "Websocket clients following a presenter session",
		}),
	}
}

// RecordEventSent records an event delivered to a backend.
func (r *Recorder) RecordEventSent(backend, kind string) {
	r.eventsSent.WithLabelValues(backend, kind).Inc()
}

func (r *Recorder) RecordEventDropped(reason string) {
	r.eventsDropped.WithLabelValues(reason).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordSlideView(slideID string) {
	r.slideViews.WithLabelValues(slideID).Inc()
}

func (r *Recorder) RecordWorkerJob(action, outcome string) {
	r.workerJobs.WithLabelValues(action, outcome).Inc()
}

func (r *Recorder) RecordQueueDepth(depth int) {
	r.queueDepth.Set(float64(depth))
}

func (r *Recorder) RecordBufferDepth(depth int) {
	r.bufferDepth.Set(float64(depth))
}

// RecordChartRender observes render time; cache hits are counted without a sample.
func (r *Recorder) RecordChartRender(chartType string, seconds float64, cached bool) {
	if cached {
		r.chartCache.WithLabelValues("hit").Inc()
		return
	}
	r.chartCache.WithLabelValues("miss").Inc()
	r.chartRender.WithLabelValues(chartType).Observe(seconds)
}

func (r *Recorder) RecordActiveFollowers(n int) {
	r.activeFollowers.Set(float64(n))
}

// Nop discards everything; used where metrics are disabled and in tests.
type Nop struct{}

func (Nop) RecordEventSent(string, string) {}
func (Nop) RecordEventDropped(string) {}
func (Nop) RecordError(string) {}
func (Nop) RecordLatency(string, float64) {}
func (Nop) RecordSlideView(string) {}
func (Nop) RecordWorkerJob(string, string) {}
func (Nop) RecordQueueDepth(int) {}
func (Nop) RecordBufferDepth(int) {}
func (Nop) RecordChartRender(string, float64, bool) {}
func (Nop) RecordActiveFollowers(int) {}
