// internal/workers/communication/send-recommendations/models.go
package sendrecommendations

import "country-match-workers/internal/presentation"

// Channel delivery states.
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

type Input struct {
	RecommendationID string              `json:"recommendationId"`
	Email            string              `json:"email,omitempty"`
	Phone            string              `json:"phone,omitempty"`
	Cards            []presentation.Card `json:"cards"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	EmailStatus    string `json:"emailStatus"`
	SMSStatus      string `json:"smsStatus"`
	EmailMessageID string `json:"emailMessageId,omitempty"`
	SMSMessageID   string `json:"smsMessageId,omitempty"`
	SentAt         string `json:"sentAt,omitempty"`
}
