// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapify_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swapify_http_request_duration_seconds",
		Help:    "HTTP request latency by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	SearchResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swapify_search_results",
		Help:    "Listings returned per search, by kind (search, nearby).",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	}, []string{"kind"})

	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapify_auth_events_total",
		Help: "Authentication events by kind and outcome.",
	}, []string{"event", "outcome"})

	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapify_uploads_total",
		Help: "Uploaded files by media driver and outcome.",
	}, []string{"driver", "outcome"})
)

// Auth records an authentication event.
func Auth(event string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	AuthEvents.WithLabelValues(event, outcome).Inc()
}
