// internal/workers/quiz/map-quiz-answers/models.go
package mapquizanswers

import "country-match-workers/internal/models"

// Input carries answers keyed by decimal question id. When Answers is empty the
// answers are read from the stored quiz session.
type Input struct {
	SessionID string            `json:"sessionId,omitempty"`
	Answers   map[string]string `json:"answers,omitempty"`
}

type Output struct {
	Preferences          models.Preferences `json:"preferences"`
	AnsweredCount        int                `json:"answeredCount"`
	Complete             bool               `json:"complete"`
	UnrecognizedAnswers  []string           `json:"unrecognizedAnswers,omitempty"`
	QuestionTableVersion string             `json:"questionTableVersion"`
}
