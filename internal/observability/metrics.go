package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce               sync.Once
	analyticsRequestsTotal     *prometheus.CounterVec
	analyticsLatencySeconds    *prometheus.HistogramVec
	analyticsErrorsTotal       *prometheus.CounterVec
	quizSourceFailuresTotal    *prometheus.CounterVec
	participationsAggregated   prometheus.Counter
	aggregationDurationSeconds *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used by the analytics API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		analyticsRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_requests_total",
			Help: "Total number of analytics API requests served.",
		}, []string{"method", "route", "status"})

		analyticsLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "analytics_latency_seconds",
			Help:    "Latency distribution for analytics API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		analyticsErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_errors_total",
			Help: "Total number of error responses returned by analytics endpoints.",
		}, []string{"method", "route", "status"})

		quizSourceFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_source_fetch_failures_total",
			Help: "Upstream quiz backend fetches that failed, by operation.",
		}, []string{"operation"})

		participationsAggregated = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "participations_aggregated_total",
			Help: "Participations folded into analytics aggregates.",
		})

		aggregationDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Time spent loading and aggregating participations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"view"})

		prometheus.MustRegister(
			analyticsRequestsTotal,
			analyticsLatencySeconds,
			analyticsErrorsTotal,
			quizSourceFailuresTotal,
			participationsAggregated,
			aggregationDurationSeconds,
		)
	})
}

// AnalyticsRequests exposes the counter for analytics requests.
func AnalyticsRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return analyticsRequestsTotal
}

// AnalyticsLatency exposes the latency histogram for analytics requests.
func AnalyticsLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return analyticsLatencySeconds
}

// AnalyticsErrors exposes the counter for analytics error responses.
func AnalyticsErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return analyticsErrorsTotal
}

// QuizSourceFailures exposes the upstream failure counter.
func QuizSourceFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return quizSourceFailuresTotal
}

// ParticipationsAggregated exposes the aggregated participation counter.
func ParticipationsAggregated() prometheus.Counter {
	RegisterMetrics()
	return participationsAggregated
}

// AggregationDuration exposes the aggregation timing histogram.
func AggregationDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return aggregationDurationSeconds
}
