package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Plan metrics
	ItemsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cadence_plan_items_total",
			Help: "Plan items for the current date by source and status",
		},
		[]string{"source", "status"},
	)

	// Reconciler metrics
	RegenerationCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cadence_regeneration_cycles_total",
			Help: "Total number of plan regeneration cycles",
		},
	)

	RegenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cadence_regeneration_duration_seconds",
			Help:    "Plan regeneration cycle duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_reconcile_mutations_total",
			Help: "Reconciliation mutations applied by kind",
		},
		[]string{"kind"},
	)

	// Calibrator metrics
	CalibrationCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cadence_calibration_cycles_total",
			Help: "Total number of notification calibration cycles",
		},
	)

	CalibrationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cadence_calibration_duration_seconds",
			Help:    "Calibration cycle duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RemindersEmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cadence_reminders_emitted_total",
			Help: "Total number of reminder emissions",
		},
	)

	// Action metrics
	ActionsApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_actions_applied_total",
			Help: "Item status transitions applied by action",
		},
		[]string{"action"},
	)

	ActionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_actions_rejected_total",
			Help: "Item actions dropped by a failed status precondition",
		},
		[]string{"action"},
	)

	// Scheduler metrics
	JobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_job_runs_total",
			Help: "Periodic job runs by job name",
		},
		[]string{"job"},
	)

	JobRunsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_job_runs_dropped_total",
			Help: "Periodic job runs dropped because a prior instance was still running",
		},
		[]string{"job"},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_api_requests_total",
			Help: "Total number of API requests by path and status",
		},
		[]string{"path", "status"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(ItemsTotal)
	prometheus.MustRegister(RegenerationCyclesTotal)
	prometheus.MustRegister(RegenerationDuration)
	prometheus.MustRegister(MutationsTotal)
	prometheus.MustRegister(CalibrationCyclesTotal)
	prometheus.MustRegister(CalibrationDuration)
	prometheus.MustRegister(RemindersEmitted)
	prometheus.MustRegister(ActionsApplied)
	prometheus.MustRegister(ActionsRejected)
	prometheus.MustRegister(JobRunsTotal)
	prometheus.MustRegister(JobRunsDropped)
	prometheus.MustRegister(APIRequestsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
