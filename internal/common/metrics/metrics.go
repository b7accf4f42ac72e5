// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	ValidationResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_validation_results_total",
			Help: "Slot validation outcomes by error type (ok, lost_slots, value_errors, both_error, ...)",
		},
		[]string{"error_type"},
	)

	TemplateMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "template_match_results_total",
			Help: "Template matching outcomes (matched vs no_match)",
		},
		[]string{"result"},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Catalog snapshot swaps by result",
		},
		[]string{"result"},
	)
)
