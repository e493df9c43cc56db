// internal/workers/communication/send-recommendations/handler.go
package sendrecommendations

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"country-match-workers/internal/common/errors"
	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/common/validation"
	"country-match-workers/internal/presentation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-recommendations"
)

var (
	ErrInvalidEmail = stderrors.New("invalid email address")
	ErrInvalidPhone = stderrors.New("invalid phone number")
)

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendText(ctx context.Context, to, subject, body string) (string, error)
}

// SMSSender is satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config       *Config
	email        EmailSender
	sms          SMSSender
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler accepts nil senders; the matching channel is then reported as disabled.
func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		email:        email,
		sms:          sms,
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

type delivery struct {
	channel   string
	status    string
	messageID string
	err       error
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	email := h.sendEmail(ctx, input)
	sms := h.sendSMS(ctx, input)

	out := &Output{
		NotificationID: uuid.New().String(),
		EmailStatus:    email.status,
		SMSStatus:      sms.status,
		EmailMessageID: email.messageID,
		SMSMessageID:   sms.messageID,
	}

	var failures []delivery
	sent := 0
	for _, d := range []delivery{email, sms} {
		switch d.status {
		case StatusSent:
			sent++
		case StatusFailed:
			failures = append(failures, d)
		}
	}

	switch {
	case sent > 0:
		out.Status = StatusSent
		out.SentAt = time.Now().UTC().Format(time.RFC3339)
	case len(failures) > 0:
		out.Status = StatusFailed
	default:
		out.Status = StatusDisabled
	}

	// Only transport failures are worth retrying.
	var transport []delivery
	for _, d := range failures {
		if !stderrors.Is(d.err, ErrInvalidEmail) && !stderrors.Is(d.err, ErrInvalidPhone) {
			transport = append(transport, d)
		}
	}
	if sent == 0 && len(transport) > 0 {
		channels := make([]string, 0, len(transport))
		for _, d := range transport {
			channels = append(channels, d.channel)
		}
		return nil, errors.NewNotificationSendFailedError(strings.Join(channels, ","), transport[0].err)
	}

	h.logger.Info("recommendations delivered", map[string]interface{}{
		"recommendationId": input.RecommendationID,
		"notificationId":   out.NotificationID,
		"status":           out.Status,
		"emailStatus":      out.EmailStatus,
		"smsStatus":        out.SMSStatus,
	})
	return out, nil
}

func (h *Handler) sendEmail(ctx context.Context, input *Input) delivery {
	d := delivery{channel: "email", status: StatusDisabled}
	to := strings.TrimSpace(input.Email)
	if to == "" || h.email == nil || !h.config.EmailEnabled {
		return d
	}
	if !validation.ValidateEmail(to) {
		d.status, d.err = StatusFailed, fmt.Errorf("%w: %s", ErrInvalidEmail, to)
		h.logger.Warn("skipping email delivery", map[string]interface{}{"error": d.err})
		return d
	}

	body := presentation.RenderText(input.Cards, h.config.MaxCards)
	id, err := h.email.SendText(ctx, to, h.config.Subject, body)
	if err != nil {
		d.status, d.err = StatusFailed, err
		h.logger.Error("email delivery failed", map[string]interface{}{"error": err})
		return d
	}
	d.status, d.messageID = StatusSent, id
	return d
}

func (h *Handler) sendSMS(ctx context.Context, input *Input) delivery {
	d := delivery{channel: "sms", status: StatusDisabled}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" || h.sms == nil || !h.config.SMSEnabled {
		return d
	}
	if !validation.ValidatePhone(phone) {
		d.status, d.err = StatusFailed, fmt.Errorf("%w: %s", ErrInvalidPhone, phone)
		h.logger.Warn("skipping sms delivery", map[string]interface{}{"error": d.err})
		return d
	}

	id, err := h.sms.SendSMS(ctx, phone, presentation.RenderSMS(input.Cards, h.config.MaxCards))
	if err != nil {
		d.status, d.err = StatusFailed, err
		h.logger.Error("sms delivery failed", map[string]interface{}{"error": err})
		return d
	}
	d.status, d.messageID = StatusSent, id
	return d
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
