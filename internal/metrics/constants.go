package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Draw metric names
const (
	MetricNameDrawTransitions       = "draw_transitions_total"
	MetricNameSettlements           = "draw_settlements_total"
	MetricNameRandomnessAttempts    = "randomness_attempts_total"
	MetricNameRandomnessDuration    = "randomness_request_duration_seconds"
	MetricNameVerificationSubmits   = "verification_submissions_total"
	MetricNameVerificationOutcomes  = "verification_outcomes_total"
	MetricNameVerificationSweepSize = "verification_sweep_results"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Draw metric help text
const (
	HelpTextDrawTransitions       = "Total number of draw status transitions"
	HelpTextSettlements           = "Total number of settlement attempts by outcome"
	HelpTextRandomnessAttempts    = "Total number of randomness source calls by result"
	HelpTextRandomnessDuration    = "Randomness source call latency in seconds"
	HelpTextVerificationSubmits   = "Total number of verification submissions by result"
	HelpTextVerificationOutcomes  = "Total number of terminal verification outcomes"
	HelpTextVerificationSweepSize = "Results picked up by the last verification sweep"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelFrom    = "from"
	LabelTo      = "to"
	LabelOutcome = "outcome"
	LabelResult  = "result"
	LabelPhase   = "phase"
)

// Settlement outcome label values
const (
	OutcomeSettled               = "settled"
	OutcomeAlreadySettled        = "already_settled"
	OutcomeLostRace              = "lost_race"
	OutcomeRandomnessUnavailable = "randomness_unavailable"
	OutcomeRejected              = "rejected"
)

// Call result label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Sweep phases
const (
	PhaseSubmit    = "submit"
	PhaseReconcile = "reconcile"
)

// UnmatchedRoute labels requests chi could not route
const UnmatchedRoute = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// UpstreamLatencyBuckets covers calls to the randomness service
var UpstreamLatencyBuckets = []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadDecodeFailed = "Event payload could not be decoded"
	LogMsgMetricsRecorded          = "Metrics recorded for event"
)
