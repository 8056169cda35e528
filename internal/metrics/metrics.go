package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EstimatesTotal counts estimates by service type. result is priced or unpriced.
	EstimatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courier",
		Name:      "estimate_total",
		Help:      "Price estimates computed",
	}, []string{"service_type", "result"})

	// RelaySubmissionsTotal counts relay calls. flow is request or order; status is ok or error.
	RelaySubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courier",
		Name:      "relay_submissions_total",
		Help:      "Submissions forwarded to the order relay",
	}, []string{"flow", "status"})

	// RequestDuration tracks handler latency by response status.
	RequestDuration = promauto.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:  "courier",
		Subsystem:  "http",
		Name:       "request_duration_seconds",
		Help:       "HTTP request latency",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"status"})
)

// ObserveRequest records one handled request.
func ObserveRequest(d time.Duration, status int) {
	RequestDuration.WithLabelValues(strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveEstimate counts one estimate. serviceType must come from a fixed set.
func ObserveEstimate(serviceType string, priced bool) {
	result := "unpriced"
	if priced {
		result = "priced"
	}
	EstimatesTotal.WithLabelValues(serviceType, result).Inc()
}

// ObserveRelay counts one relay call for flow.
func ObserveRelay(flow string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	RelaySubmissionsTotal.WithLabelValues(flow, status).Inc()
}
