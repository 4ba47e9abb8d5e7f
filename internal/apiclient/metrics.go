package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mentorship_api_requests_total",
		Help: "API calls issued by the client, by method and response status.",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mentorship_api_request_duration_seconds",
		Help:    "Latency of API calls issued by the client.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mentorship_api_session_refresh_total",
		Help: "Session refresh attempts by result.",
	}, []string{"result"})
)
