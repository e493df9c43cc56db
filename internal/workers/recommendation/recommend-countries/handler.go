// internal/workers/recommendation/recommend-countries/handler.go
package recommendcountries

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"country-match-workers/internal/common/errors"
	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/common/metrics"
	"country-match-workers/internal/common/observability"
	"country-match-workers/internal/dataset"
	"country-match-workers/internal/recommender"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "recommend-countries"
)

var ErrCatalogNotLoaded = stderrors.New("country catalog not loaded")

type Handler struct {
	config       *Config
	engine       *recommender.Engine
	catalog      *dataset.Catalog
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(
	config *Config,
	engine *recommender.Engine,
	catalog *dataset.Catalog,
	obs *observability.Observability,
	log logger.Logger,
) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		catalog:      catalog,
		obs:          obs,
		errorHandler: errors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, errors.NewParseError(err))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.catalog == nil {
		return nil, errors.NewRecommendationFailedError(ErrCatalogNotLoaded)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewRecommendationFailedError(err)
	}

	prefs := input.Preferences
	if prefs.Count() == 0 && len(input.Answers) > 0 {
		prefs = recommender.MapStringAnswers(input.Answers)
	}

	start := time.Now()
	countries := h.catalog.All()
	results := h.engine.Recommend(countries, prefs)
	elapsed := time.Since(start)

	total := len(results)
	if limit := h.limit(input.MaxResults); limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	metrics.ObserveRecommendation(total)
	h.obs.RecordCountriesScored(ctx, len(countries))

	fields := map[string]interface{}{
		"evaluated":   len(countries),
		"matches":     total,
		"returned":    len(results),
		"preferences": prefs.Count(),
		"durationMs":  elapsed.Milliseconds(),
	}
	if h.config.SlowThreshold > 0 && elapsed > h.config.SlowThreshold {
		h.logger.Warn("slow recommendation", fields)
	} else {
		h.logger.Info("recommendation computed", fields)
	}

	return &Output{
		RecommendationID: uuid.New().String(),
		Results:          results,
		TotalMatches:     total,
		Evaluated:        len(countries),
		NoMatches:        total == 0,
	}, nil
}

func (h *Handler) limit(requested int) int {
	limit := h.config.MaxResults
	if requested > 0 && (limit == 0 || requested < limit) {
		limit = requested
	}
	return limit
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}
