// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation outcomes.
const (
	OutcomeMatched   = "matched"
	OutcomeNoMatches = "no_matches"
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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_result_size",
			Help:    "Number of ranked countries returned per recommendation",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50, 100, 200},
		},
	)

	DatasetCountries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_countries_loaded",
			Help: "Number of country records in the loaded catalog",
		},
	)

	EnrichmentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_requests_total",
			Help: "Economy API requests by api and status",
		},
		[]string{"api", "status"},
	)
)

// ObserveRecommendation records one recommendation run.
func ObserveRecommendation(resultCount int) {
	outcome := OutcomeMatched
	if resultCount == 0 {
		outcome = OutcomeNoMatches
	}
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationResultSize.Observe(float64(resultCount))
}
