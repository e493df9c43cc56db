// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"country-match-workers/internal/common/config"
	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/common/metrics"
	"country-match-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobWorkerOpener is the part of zbc.Client needed to open job workers.
type JobWorkerOpener interface {
	NewJobWorker() worker.JobWorkerBuilderStep1
}

var _ JobWorkerOpener = zbc.Client(nil)

// StartWorker opens a job worker for taskType. It returns nil when the worker
// is disabled in configuration.
func StartWorker(
	client JobWorkerOpener,
	taskType string,
	wcfg config.WorkerConfig,
	handler worker.JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}

// Instrument wraps a job handler with job metrics. The outcome is taken from
// the job command the handler sends successfully; a job whose command never
// reaches the gateway records only its duration. Failure counts by error code
// are recorded by the error handler.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()

		tracked := &outcomeClient{JobClient: client}
		defer func() {
			active.Dec()
			elapsed := time.Since(start)
			ctx := context.Background()

			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			obs.RecordJobDuration(ctx, taskType, elapsed)

			if tracked.status == "" {
				return
			}
			if tracked.status == observability.StatusCompleted {
				metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			}
			obs.RecordJobProcessed(ctx, taskType, tracked.status)
		}()

		handler(tracked, job)
	}
}
