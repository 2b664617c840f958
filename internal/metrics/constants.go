package metrics

// Metric namespace
const Namespace = "habitat_tracker"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Upstream metric names
const (
	MetricNameRPCRequestsTotal   = "rpc_requests_total"
	MetricNameRPCRequestDuration = "rpc_request_duration_seconds"
	MetricNameRateLimitWait      = "rate_limit_wait_seconds"
)

// Query metric names
const (
	MetricNameQueriesTotal          = "queries_total"
	MetricNameQueryDuration         = "query_duration_seconds"
	MetricNameDegradedLookups       = "degraded_lookups_total"
	MetricNameStaleResultsDropped   = "stale_results_dropped_total"
	MetricNameTimestampsClamped     = "timestamps_clamped_total"
	MetricNameActiveSessions        = "active_sessions"
	MetricNameStakesAggregatedTotal = "stakes_aggregated_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Upstream metric help text
const (
	HelpTextRPCRequestsTotal   = "Total number of upstream calls by method and outcome"
	HelpTextRPCRequestDuration = "Upstream call latency in seconds"
	HelpTextRateLimitWait      = "Time spent waiting for a rate limit token in seconds"
)

// Query metric help text
const (
	HelpTextQueriesTotal          = "Total number of report queries by kind and outcome"
	HelpTextQueryDuration         = "Report query latency in seconds"
	HelpTextDegradedLookups       = "Secondary lookups that fell back to a default"
	HelpTextStaleResultsDropped   = "Query results dropped because a newer query replaced them"
	HelpTextTimestampsClamped     = "Timestamps clamped to the maximum representable instant"
	HelpTextActiveSessions        = "Current number of query sessions"
	HelpTextStakesAggregatedTotal = "Locked stake records aggregated into reports"
)

// Label names
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelProvider = "provider"
	LabelKind     = "kind"
	LabelOutcome  = "outcome"
	LabelLookup   = "lookup"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Histogram buckets
var (
	HTTPLatencyBuckets     = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
	UpstreamLatencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
)
