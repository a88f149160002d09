package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	rateLimitedTotal      *prometheus.CounterVec
	activityWrittenTotal  *prometheus.CounterVec
	activityFailuresTotal *prometheus.CounterVec
	contactSubmissions    *prometheus.CounterVec
	feedRequestsTotal     *prometheus.CounterVec
	feedLatencySeconds    prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_http_requests_total",
			Help: "API requests served, split by public site and admin console.",
		}, []string{"surface", "method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "site_http_latency_seconds",
			Help:    "API request latency, split by public site and admin console.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"surface", "method", "route"})

		rateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_rate_limited_total",
			Help: "Requests rejected by a rate limiter.",
		}, []string{"limiter"})

		activityWrittenTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_logs_written_total",
			Help: "Total number of activity log records persisted.",
		}, []string{"action", "actor_type"})

		activityFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_log_failures_total",
			Help: "Total number of activity log writes rejected or failed.",
		}, []string{"reason"})

		contactSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submissions by outcome.",
		}, []string{"result"})

		feedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_feed_requests_total",
			Help: "Recent activity feed requests by cache outcome.",
		}, []string{"result"})

		feedLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "activity_feed_latency_seconds",
			Help:    "Latency of recent activity feed lookups.",
			Buckets: prometheus.DefBuckets,
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			rateLimitedTotal,
			activityWrittenTotal,
			activityFailuresTotal,
			contactSubmissions,
			feedRequestsTotal,
			feedLatencySeconds,
		)
	})
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}

func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// RateLimited counts rejections per limiter name.
func RateLimited() *prometheus.CounterVec {
	RegisterMetrics()
	return rateLimitedTotal
}

// ActivityLogsWritten counts persisted audit records by action and actor type.
func ActivityLogsWritten() *prometheus.CounterVec {
	RegisterMetrics()
	return activityWrittenTotal
}

// ActivityLogFailures counts audit writes that did not reach the store.
func ActivityLogFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return activityFailuresTotal
}

// ContactSubmissions counts contact form outcomes.
func ContactSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return contactSubmissions
}

// ActivityFeedRequests counts feed lookups by cache outcome.
func ActivityFeedRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return feedRequestsTotal
}

// ActivityFeedLatency observes feed lookup latency.
func ActivityFeedLatency() prometheus.Histogram {
	RegisterMetrics()
	return feedLatencySeconds
}
