// internal/workers/recommendation/build-recommendation-response/handler.go
package buildrecommendationresponse

import (
	"context"
	"encoding/json"
	"sort"

	"country-match-workers/internal/common/errors"
	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/models"
	"country-match-workers/internal/presentation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "build-recommendation-response"
)

type Handler struct {
	config       *Config
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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
	results := normalizeRanks(input.Results)
	cards := presentation.BuildCards(results)

	out := &Output{
		RecommendationID: input.RecommendationID,
		Cards:            cards,
		Count:            len(cards),
		Summary:          presentation.RenderText(cards, h.config.SummaryCards),
	}
	if len(cards) == 0 {
		out.NoMatches = true
		out.Message = presentation.NoMatchesMessage
	}

	h.logger.Info("recommendation response built", map[string]interface{}{
		"recommendationId": input.RecommendationID,
		"cards":            len(cards),
		"noMatches":        out.NoMatches,
	})
	return out, nil
}

// normalizeRanks orders results by rank and fills ranks that arrive unset,
// so hand-built variables render in a stable order.
func normalizeRanks(in []models.ScoredCountry) []models.ScoredCountry {
	results := make([]models.ScoredCountry, len(in))
	copy(results, in)

	ranked := true
	for _, r := range results {
		if r.Rank <= 0 {
			ranked = false
			break
		}
	}
	if ranked {
		sort.SliceStable(results, func(i, j int) bool { return results[i].Rank < results[j].Rank })
		return results
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
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
