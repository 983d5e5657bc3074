// Package metrics provides Prometheus metrics for the draft reveal service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by callers.
const (
	OutcomeApplied = "applied"
	OutcomeIgnored = "ignored"

	TierDramatic = "dramatic"
	TierStandard = "standard"

	FocusScrolled = "scrolled"
	FocusRetried  = "retried"
	FocusGaveUp   = "gave_up"
)

var cueLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100}

// Manager manages all Prometheus metrics for the reveal service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Session lifecycle
	sessionsGenerated prometheus.Counter
	resets            prometheus.Counter
	sessionSize       prometheus.Gauge
	revealCursor      prometheus.Gauge

	// State machine
	transitions     *prometheus.CounterVec
	reveals         *prometheus.CounterVec
	countdownTicks  prometheus.Counter
	celebrations    prometheus.Counter
	pendingTimers   prometheus.Gauge
	entropyFallback prometheus.Counter

	// Focus coordinator
	focusRequests *prometheus.CounterVec

	// Cue delivery
	cuesDispatched *prometheus.CounterVec
	cuesDropped    prometheus.Counter
	cueLatency     prometheus.Histogram
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge

	// Presentation transport
	streamClients   prometheus.Gauge
	inputsDuplicate prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "draftreveal",
		subsystem:        "session",
		histogramBuckets: cueLatencyBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.sessionsGenerated = m.counter("generated_total", "Total number of reveal sessions generated")
	m.resets = m.counter("resets_total", "Total number of applied resets (each one reshuffles the roster)")
	m.sessionSize = m.gauge("participants", "Number of participants in the current session")
	m.revealCursor = m.gauge("cursor", "Current playback cursor (-1 before start)")

	m.transitions = m.counterVec("transitions_total",
		"Sequencer transitions by name and outcome (applied or ignored by a guard)",
		"transition", "outcome")
	m.reveals = m.counterVec("reveals_total", "Cards flipped by tier (dramatic is positions 1-3)", "tier")
	m.countdownTicks = m.counter("countdown_ticks_total", "Countdown ticks emitted")
	m.celebrations = m.counter("celebrations_total", "Champion celebrations started")
	m.pendingTimers = m.gauge("pending_timers", "Timers currently scheduled by the sequencer")
	m.entropyFallback = m.counter("entropy_fallback_total",
		"Shuffle draws served by the fallback pseudo-random source")

	m.focusRequests = m.counterVec("focus_requests_total", "Focus requests by result", "result")

	m.cuesDispatched = m.counterVec("cues_dispatched_total", "Effect cues delivered to sinks", "cue")
	m.cuesDropped = m.counter("cues_dropped_total", "Effect cues dropped because the queue was full")
	m.cueLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "cue_delivery_latency_milliseconds",
		Help:        "Time between a cue being triggered and its delivery to the sink",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
	m.queueSize = m.gauge("cue_queue_size", "Current depth of the cue queue")
	m.queueCapacity = m.gauge("cue_queue_capacity", "Capacity of the cue queue")

	m.streamClients = m.gauge("stream_clients", "Connected presentation stream clients")
	m.inputsDuplicate = m.counter("inputs_duplicate_total", "User inputs rejected by request id deduplication")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "error_type")
}

// RecordSessionGenerated counts a new session and records its size.
func RecordSessionGenerated(participants int) {
	globalManager.sessionsGenerated.Inc()
	globalManager.sessionSize.Set(float64(participants))
	globalManager.revealCursor.Set(-1)
}

// RecordReset counts an applied reset.
func RecordReset() {
	globalManager.resets.Inc()
	globalManager.revealCursor.Set(-1)
}

// UpdateCursor records the playback cursor.
func UpdateCursor(cursor int) {
	globalManager.revealCursor.Set(float64(cursor))
}

// RecordTransition counts a transition attempt with its outcome.
func RecordTransition(transition, outcome string) {
	globalManager.transitions.WithLabelValues(transition, outcome).Inc()
}

// RecordReveal counts a flipped card.
func RecordReveal(tier string) {
	globalManager.reveals.WithLabelValues(tier).Inc()
}

// RecordCountdownTick counts an emitted countdown tick.
func RecordCountdownTick() {
	globalManager.countdownTicks.Inc()
}

// RecordCelebration counts a started champion celebration.
func RecordCelebration() {
	globalManager.celebrations.Inc()
}

// UpdatePendingTimers records the number of live sequencer timers.
func UpdatePendingTimers(count int) {
	globalManager.pendingTimers.Set(float64(count))
}

// RecordEntropyFallback counts a shuffle draw taken from the fallback source.
func RecordEntropyFallback() {
	globalManager.entropyFallback.Inc()
}

// RecordFocusRequest counts a focus outcome.
func RecordFocusRequest(result string) {
	globalManager.focusRequests.WithLabelValues(result).Inc()
}

// RecordCueDispatched counts a delivered cue and its delivery latency.
func RecordCueDispatched(cue string, latencyMs float64) {
	globalManager.cuesDispatched.WithLabelValues(cue).Inc()
	globalManager.cueLatency.Observe(latencyMs)
}

// RecordCueDropped counts a cue dropped by a full queue.
func RecordCueDropped() {
	globalManager.cuesDropped.Inc()
}

// UpdateQueueSize records the cue queue depth.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity records the cue queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateStreamClients records the number of connected stream clients.
func UpdateStreamClients(count int) {
	globalManager.streamClients.Set(float64(count))
}

// RecordDuplicateInput counts an input rejected by deduplication.
func RecordDuplicateInput() {
	globalManager.inputsDuplicate.Inc()
}

// RecordHTTPRequest records HTTP request metrics.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordError records an error by component and type.
func RecordError(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
