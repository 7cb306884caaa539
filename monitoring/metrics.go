package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

var (
	TestResultsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fms_test_results_created_total",
			Help: "Total FMS test results created",
		},
	)

	// StatsReconcileFailures считает мягкие сбои сверки статистики:
	// по этому счётчику операторы замечают дрейф производных полей.
	StatsReconcileFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fms_stats_reconcile_failures_total",
			Help: "Total failed client statistics reconciliations",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(TestResultsCreated)
	prometheus.MustRegister(StatsReconcileFailures)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
