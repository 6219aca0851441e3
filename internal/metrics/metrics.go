package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stayboard_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	ReportRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stayboard_report_requests_total",
		Help: "Report computations by report kind and outcome",
	}, []string{"report", "outcome"})

	ReportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stayboard_report_duration_seconds",
		Help:    "Engine fetch+aggregate duration per report kind",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})

	DataQualityWarningsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stayboard_data_quality_warnings_total",
		Help: "Reservation records flagged during normalization/allocation",
	})

	BriefingRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stayboard_briefing_runs_total",
		Help: "Daily briefing generation outcomes",
	}, []string{"outcome"})

	PricingProxyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stayboard_pricing_proxy_requests_total",
		Help: "Calls proxied to the booking-channel price API",
	}, []string{"op", "outcome"})
)
