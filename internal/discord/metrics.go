package discord

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "discord_rest",
			Name:      "upstream_requests_total",
			Help:      "Discord REST requests by HTTP method and status class",
		},
		[]string{"method", "status"},
	)

	upstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "discord_rest",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of Discord REST requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func observeRequest(method, status string, start time.Time) {
	upstreamRequests.WithLabelValues(method, status).Inc()
	upstreamDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// statusClass collapses a status code into "2xx", "4xx" and so on so path
// identifiers never become label values.
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return strconv.Itoa(code)
	}
	return strconv.Itoa(code/100) + "xx"
}
