// Package metrics registers the prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests received.",
		},
		[]string{"method", "path", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "code"},
	)

	PaymentsInitiated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_payments_initiated_total",
			Help: "Payments created in pending state, by method.",
		},
		[]string{"method"},
	)

	// PaymentsFinished counts terminal transitions: completed, expired, cancelled.
	PaymentsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_payments_finished_total",
			Help: "Payments that reached a terminal state, by method and status.",
		},
		[]string{"method", "status"},
	)

	CommissionMinorUnits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "settlement_commission_minor_units_total",
			Help: "Commission retained by the platform, in minor currency units.",
		},
	)

	CASConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_cas_conflicts_total",
			Help: "Compare-and-swap collisions observed, by entity.",
		},
		[]string{"entity"},
	)
)
