package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsTotal,
			Help:      HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestDuration,
			Help:      HelpTextHTTPRequestDuration,
			Buckets:   HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsInFlight,
			Help:      HelpTextHTTPRequestsInFlight,
		},
	)
)

// Upstream Metrics
var (
	RPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameRPCRequestsTotal,
			Help:      HelpTextRPCRequestsTotal,
		},
		[]string{LabelMethod, LabelOutcome},
	)

	RPCRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameRPCRequestDuration,
			Help:      HelpTextRPCRequestDuration,
			Buckets:   UpstreamLatencyBuckets,
		},
		[]string{LabelMethod},
	)

	RateLimitWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameRateLimitWait,
			Help:      HelpTextRateLimitWait,
			Buckets:   UpstreamLatencyBuckets,
		},
		[]string{LabelProvider},
	)
)

// Query Metrics
var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameQueriesTotal,
			Help:      HelpTextQueriesTotal,
		},
		[]string{LabelKind, LabelOutcome},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameQueryDuration,
			Help:      HelpTextQueryDuration,
			Buckets:   UpstreamLatencyBuckets,
		},
		[]string{LabelKind},
	)

	DegradedLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameDegradedLookups,
			Help:      HelpTextDegradedLookups,
		},
		[]string{LabelLookup},
	)

	StaleResultsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameStaleResultsDropped,
			Help:      HelpTextStaleResultsDropped,
		},
	)

	TimestampsClamped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameTimestampsClamped,
			Help:      HelpTextTimestampsClamped,
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameActiveSessions,
			Help:      HelpTextActiveSessions,
		},
	)

	StakesAggregatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameStakesAggregatedTotal,
			Help:      HelpTextStakesAggregatedTotal,
		},
	)
)

// Outcome returns the outcome label for an error
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
