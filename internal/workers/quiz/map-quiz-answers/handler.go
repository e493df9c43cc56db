// internal/workers/quiz/map-quiz-answers/handler.go
package mapquizanswers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strconv"

	"country-match-workers/internal/common/errors"
	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/common/validation"
	"country-match-workers/internal/quiz"
	"country-match-workers/internal/recommender"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "map-quiz-answers"
)

type Handler struct {
	config       *Config
	store        quiz.Store
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler. store may be nil when sessions are disabled.
func NewHandler(config *Config, store quiz.Store, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
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
	if input == nil {
		return nil, errors.NewInvalidQuizAnswersError("input cannot be nil")
	}

	answers := input.Answers
	if len(answers) == 0 {
		if input.SessionID == "" {
			return nil, errors.NewInvalidQuizAnswersError("either answers or sessionId is required")
		}
		loaded, err := h.loadSessionAnswers(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
		answers = loaded
	}

	result, err := validation.QuizAnswers.Validate(answers)
	if err != nil {
		return nil, errors.NewInvalidQuizAnswersError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewInvalidQuizAnswersError(result.Summary())
	}

	unrecognized := h.unrecognized(answers)
	prefs := recommender.MapStringAnswers(answers)
	complete := prefs.Count() == len(quiz.Catalog)

	if h.config.RequireComplete && !complete {
		return nil, errors.NewInvalidQuizAnswersError(
			fmt.Sprintf("%d of %d questions answered", prefs.Count(), len(quiz.Catalog)))
	}

	if len(unrecognized) > 0 {
		h.logger.Warn("answers outside the option list will score as neutral", map[string]interface{}{
			"questions": unrecognized,
		})
	}

	h.logger.Info("quiz answers mapped", map[string]interface{}{
		"sessionId": input.SessionID,
		"answered":  prefs.Count(),
		"complete":  complete,
	})

	return &Output{
		Preferences:          prefs,
		AnsweredCount:        prefs.Count(),
		Complete:             complete,
		UnrecognizedAnswers:  unrecognized,
		QuestionTableVersion: recommender.QuestionTableVersion,
	}, nil
}

func (h *Handler) loadSessionAnswers(ctx context.Context, sessionID string) (map[string]string, error) {
	if h.store == nil {
		return nil, errors.NewSessionStoreFailedError(stderrors.New("quiz session store is disabled"))
	}

	session, err := h.store.Load(ctx, sessionID)
	if stderrors.Is(err, quiz.ErrSessionNotFound) {
		return nil, errors.NewSessionNotFoundError(sessionID)
	}
	if err != nil {
		return nil, errors.NewSessionStoreFailedError(err)
	}

	answers := make(map[string]string, len(session.Answers))
	for id, value := range session.Answers {
		answers[strconv.Itoa(id)] = value
	}
	return answers, nil
}

// unrecognized lists catalog question ids whose answer is not one of the options.
func (h *Handler) unrecognized(answers map[string]string) []string {
	var out []string
	for key, value := range answers {
		id, ok := recommender.ParseQuestionID(key)
		if !ok {
			continue
		}
		if _, ok := quiz.QuestionByID(id); !ok || value == "" {
			continue
		}
		if !quiz.ValidAnswer(id, value) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
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
