package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medtrack",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "medtrack",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	reportsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "medtrack",
		Name:      "reports_created_total",
		Help:      "Reports created.",
	})
	quotaDenials = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "medtrack",
		Name:      "report_quota_denials_total",
		Help:      "Report creations refused because the free limit was reached.",
	})
	billingLookupFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "medtrack",
		Name:      "billing_lookup_failures_total",
		Help:      "Payment provider lookups that failed and were treated as no subscription.",
	})
	artifactFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medtrack",
		Name:      "report_artifact_failures_total",
		Help:      "Best-effort report side tasks that failed, by stage.",
	}, []string{"stage"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, reportsCreated, quotaDenials, billingLookupFailures, artifactFailures)
}

// RecordRequest observes one finished HTTP request. route is the mux pattern,
// not the raw path, to keep label cardinality bounded.
func RecordRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func RecordReportCreated() {
	reportsCreated.Inc()
}

func RecordQuotaDenied() {
	quotaDenials.Inc()
}

func RecordBillingLookupFailure() {
	billingLookupFailures.Inc()
}

// RecordArtifactFailure counts a failed render, upload or notify step.
func RecordArtifactFailure(stage string) {
	artifactFailures.WithLabelValues(stage).Inc()
}
