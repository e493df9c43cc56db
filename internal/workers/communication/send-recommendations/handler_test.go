package sendrecommendations

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	awsclient "country-match-workers/internal/common/aws"
	"country-match-workers/internal/common/camunda/camundatest"
	"country-match-workers/internal/common/errors"
	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/presentation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Sender Implementation
// ==========================

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendText(ctx context.Context, to, subject, body string) (string, error) {
	args := m.Called(ctx, to, subject, body)
	return args.String(0), args.Error(1)
}

type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) SendSMS(ctx context.Context, phone, message string) (string, error) {
	args := m.Called(ctx, phone, message)
	return args.String(0), args.Error(1)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		EmailEnabled: true,
		SMSEnabled:   true,
		Subject:      "Your country recommendations",
		MaxCards:     2,
	}
}

func testCards() []presentation.Card {
	return []presentation.Card{
		{Name: "Denmark", Rank: 1, Score: 8.5, ScoreLabel: "Excellent", MatchPercent: 85},
		{Name: "Chile", Rank: 2, Score: 6.2, ScoreLabel: "Good", MatchPercent: 62},
		{Name: "Peru", Rank: 3, Score: 4.1, ScoreLabel: "Fair", MatchPercent: 41},
	}
}

func testInput() *Input {
	return &Input{
		RecommendationID: "rec-1",
		Email:            "traveler@example.com",
		Phone:            "+4512345678",
		Cards:            testCards(),
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_BothChannels(t *testing.T) {
	email := new(MockEmailSender)
	sms := new(MockSMSSender)
	email.On("SendText", mock.Anything, "traveler@example.com", "Your country recommendations",
		mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "#1 Denmark") && strings.Contains(body, "#2 Chile") && !strings.Contains(body, "Peru")
		})).Return("ses-1", nil)
	sms.On("SendSMS", mock.Anything, "+4512345678", "Top matches: 1. Denmark (85%), 2. Chile (62%)").Return("sns-1", nil)

	h := NewHandler(createTestConfig(), email, sms, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), testInput())
	require.NoError(t, err)

	_, err = uuid.Parse(out.NotificationID)
	assert.NoError(t, err)
	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, StatusSent, out.EmailStatus)
	assert.Equal(t, StatusSent, out.SMSStatus)
	assert.Equal(t, "ses-1", out.EmailMessageID)
	assert.Equal(t, "sns-1", out.SMSMessageID)
	_, err = time.Parse(time.RFC3339, out.SentAt)
	assert.NoError(t, err)

	email.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestHandler_Execute_ChannelStates(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config, *Input)
		withEmail  bool
		withSMS    bool
		wantStatus string
		wantEmail  string
		wantSMS    string
	}{
		{
			name:       "email disabled by config",
			mutate:     func(c *Config, _ *Input) { c.EmailEnabled = false },
			withSMS:    true,
			wantStatus: StatusSent,
			wantEmail:  StatusDisabled,
			wantSMS:    StatusSent,
		},
		{
			name:       "no phone given",
			mutate:     func(_ *Config, in *Input) { in.Phone = "" },
			withEmail:  true,
			wantStatus: StatusSent,
			wantEmail:  StatusSent,
			wantSMS:    StatusDisabled,
		},
		{
			name:       "nothing to deliver",
			mutate:     func(_ *Config, in *Input) { in.Email, in.Phone = "", "" },
			wantStatus: StatusDisabled,
			wantEmail:  StatusDisabled,
			wantSMS:    StatusDisabled,
		},
		{
			name:       "invalid addresses are not retried",
			mutate:     func(_ *Config, in *Input) { in.Email, in.Phone = "not-an-email", "12345" },
			wantStatus: StatusFailed,
			wantEmail:  StatusFailed,
			wantSMS:    StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, input := createTestConfig(), testInput()
			tt.mutate(cfg, input)

			email := new(MockEmailSender)
			sms := new(MockSMSSender)
			if tt.withEmail {
				email.On("SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ses-1", nil)
			}
			if tt.withSMS {
				sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return("sns-1", nil)
			}

			h := NewHandler(cfg, email, sms, logger.NewNoOpLogger())
			out, err := h.Execute(context.Background(), input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantEmail, out.EmailStatus)
			assert.Equal(t, tt.wantSMS, out.SMSStatus)
			if !tt.withEmail {
				email.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			if !tt.withSMS {
				sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHandler_Execute_NilSendersAreDisabled(t *testing.T) {
	h := NewHandler(createTestConfig(), nil, nil, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)
	assert.Empty(t, out.SentAt)
}

func TestHandler_Execute_PartialFailure(t *testing.T) {
	email := new(MockEmailSender)
	sms := new(MockSMSSender)
	email.On("SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", stderrors.New("throttled"))
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return("sns-1", nil)

	h := NewHandler(createTestConfig(), email, sms, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, StatusFailed, out.EmailStatus)
	assert.Equal(t, StatusSent, out.SMSStatus)
}

func TestHandler_Execute_AllChannelsFail(t *testing.T) {
	email := new(MockEmailSender)
	sms := new(MockSMSSender)
	cause := stderrors.New("network down")
	email.On("SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", cause)
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return("", stderrors.New("throttled"))

	h := NewHandler(createTestConfig(), email, sms, logger.NewNoOpLogger())
	_, err := h.Execute(context.Background(), testInput())

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "email,sms")
	assert.ErrorIs(t, err, cause)
}

func TestHandler_Execute_NoMatchesMessage(t *testing.T) {
	email := new(MockEmailSender)
	email.On("SendText", mock.Anything, mock.Anything, mock.Anything, presentation.NoMatchesMessage).Return("ses-1", nil)

	h := NewHandler(createTestConfig(), email, nil, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), &Input{Email: "traveler@example.com"})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, out.EmailStatus)
	email.AssertExpectations(t)
}

type fakeSES struct {
	input *ses.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	return &ses.SendEmailOutput{MessageId: aws.String("ses-42")}, nil
}

func TestHandler_Execute_WithSESClient(t *testing.T) {
	api := &fakeSES{}
	h := NewHandler(createTestConfig(), awsclient.NewSESClientWithAPI(api, "noreply@example.com"), nil, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, "ses-42", out.EmailMessageID)
	require.NotNil(t, api.input)
	assert.Equal(t, "noreply@example.com", aws.ToString(api.input.Source))
	assert.Equal(t, []string{"traveler@example.com"}, api.input.Destination.ToAddresses)
	assert.Contains(t, aws.ToString(api.input.Message.Body.Text.Data), "Denmark")
}

// ==========================
// Job Handling Tests
// ==========================

func TestHandler_Handle(t *testing.T) {
	t.Run("completes with statuses", func(t *testing.T) {
		sms := new(MockSMSSender)
		sms.On("SendSMS", mock.Anything, "+4512345678", mock.Anything).Return("sns-1", nil)
		h := NewHandler(createTestConfig(), nil, sms, logger.NewNoOpLogger())
		client := camundatest.NewJobClient()

		h.Handle(client, camundatest.NewJob(TaskType, 1, 3, map[string]interface{}{
			"recommendationId": "rec-1",
			"phone":            "+4512345678",
			"cards":            testCards(),
		}))

		var out Output
		ok, err := client.DecodeCompleted(&out)
		require.True(t, ok)
		require.NoError(t, err)
		assert.Equal(t, StatusSent, out.SMSStatus)
		assert.Equal(t, StatusDisabled, out.EmailStatus)
	})

	t.Run("delivery failure is retried", func(t *testing.T) {
		email := new(MockEmailSender)
		email.On("SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", stderrors.New("throttled"))
		h := NewHandler(createTestConfig(), email, nil, logger.NewNoOpLogger())
		client := camundatest.NewJobClient()

		h.Handle(client, camundatest.NewJob(TaskType, 2, 5, map[string]interface{}{"email": "traveler@example.com"}))

		failed := client.Failed()
		require.Len(t, failed, 1)
		assert.Equal(t, int32(3), failed[0].Retries)
		assert.Empty(t, client.Completed())
	})
}
