package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Draw Metrics
var (
	DrawTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDrawTransitions,
			Help: HelpTextDrawTransitions,
		},
		[]string{LabelFrom, LabelTo},
	)

	Settlements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSettlements,
			Help: HelpTextSettlements,
		},
		[]string{LabelOutcome},
	)

	RandomnessAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRandomnessAttempts,
			Help: HelpTextRandomnessAttempts,
		},
		[]string{LabelResult},
	)

	RandomnessDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameRandomnessDuration,
			Help:    HelpTextRandomnessDuration,
			Buckets: UpstreamLatencyBuckets,
		},
	)

	VerificationSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameVerificationSubmits,
			Help: HelpTextVerificationSubmits,
		},
		[]string{LabelResult},
	)

	VerificationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameVerificationOutcomes,
			Help: HelpTextVerificationOutcomes,
		},
		[]string{LabelStatus},
	)

	VerificationSweepSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameVerificationSweepSize,
			Help: HelpTextVerificationSweepSize,
		},
		[]string{LabelPhase},
	)
)
