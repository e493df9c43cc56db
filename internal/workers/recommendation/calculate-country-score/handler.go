// internal/workers/recommendation/calculate-country-score/handler.go
package calculatecountryscore

import (
	"context"
	"encoding/json"
	"strings"

	"country-match-workers/internal/common/errors"
	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/common/observability"
	"country-match-workers/internal/dataset"
	"country-match-workers/internal/models"
	"country-match-workers/internal/recommender"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-country-score"
)

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
	country, err := h.resolveCountry(input)
	if err != nil {
		return nil, err
	}

	ev := h.engine.Evaluate(country, input.Preferences)
	h.obs.RecordCountriesScored(ctx, 1)

	h.logger.Debug("country scored", map[string]interface{}{
		"country":  country.Name,
		"score":    ev.Score,
		"evidence": ev.Evidence,
	})

	details := ev.Details
	if details == nil {
		details = []models.DimensionMatch{}
	}
	return &Output{
		Country:      country.Name,
		Score:        ev.Score,
		Evidence:     ev.Evidence,
		Qualified:    ev.Score > 0,
		MatchDetails: details,
	}, nil
}

func (h *Handler) resolveCountry(input *Input) (models.Country, error) {
	if input == nil {
		return models.Country{}, errors.NewCountryNotFoundError("")
	}
	if input.CountryData != nil && strings.TrimSpace(input.CountryData.Name) != "" {
		return *input.CountryData, nil
	}
	if h.catalog == nil {
		return models.Country{}, errors.NewCountryNotFoundError(input.Country)
	}
	country, ok := h.catalog.Find(input.Country)
	if !ok {
		return models.Country{}, errors.NewCountryNotFoundError(input.Country)
	}
	return country, nil
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
