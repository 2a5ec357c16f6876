// Package metrics exposes the service's Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts all HTTP requests.
	RequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_service_requests_total",
		Help: "The total number of requests",
	})

	// ResponsesTotal counts responses by status code.
	ResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_responses_total",
		Help: "The total number of responses by status code",
	}, []string{"status"})

	// RequestDuration observes request handling time.
	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "auth_service_request_duration_seconds",
		Help:    "The request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// RequestDurationByPath observes handling time by method and route.
	RequestDurationByPath = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "auth_service_request_duration_by_path_seconds",
		Help:    "The request duration in seconds by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// AuthenticatedRequestsTotal counts requests that passed the gate.
	AuthenticatedRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_service_authenticated_requests_total",
		Help: "The total number of authenticated requests",
	})

	// SignInAttemptsTotal counts signin attempts by outcome
	// (success, invalid_credentials, deactivated).
	SignInAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_signin_attempts_total",
		Help: "The total number of signin attempts by outcome",
	}, []string{"status"})

	// RegistrationsTotal counts successful signups.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_service_registrations_total",
		Help: "The total number of registered accounts",
	})

	// TokenRefreshesTotal counts refresh-rotation attempts by outcome.
	TokenRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_token_refreshes_total",
		Help: "The total number of refresh token rotations by outcome",
	}, []string{"status"})

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_service_rate_limited_total",
		Help: "The total number of rate limited requests",
	})
)
