package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OTPIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "otp_issued_total",
			Help: "Total number of verification codes issued",
		},
	)

	// result: verified, mismatch, expired, attempts_exceeded, not_found
	OTPVerifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verification_total",
			Help: "Total number of OTP verification attempts by result",
		},
		[]string{"result"},
	)

	// result: assigned, completed, declined
	AssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "request_assignments_total",
			Help: "Total number of volunteer assignment attempts by result",
		},
		[]string{"result"},
	)
)
