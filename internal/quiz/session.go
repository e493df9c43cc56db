// internal/quiz/session.go
package quiz

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrInvalidOption   = errors.New("invalid option")
)

// Session tracks one user's progress through the catalog.
type Session struct {
	ID        string         `json:"id"`
	Current   int            `json:"current"`
	Answers   map[int]string `json:"answers"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewSession starts at the first question. An empty id gets a new UUID.
func NewSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Answers:   make(map[int]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) CurrentQuestion() Question {
	return Catalog[s.Current]
}

// SetAnswer records value for question id after checking it against the options.
func (s *Session) SetAnswer(id int, value string) error {
	if _, ok := QuestionByID(id); !ok {
		return ErrUnknownQuestion
	}
	if !ValidAnswer(id, value) {
		return ErrInvalidOption
	}
	if s.Answers == nil {
		s.Answers = make(map[int]string)
	}
	s.Answers[id] = strings.ToLower(strings.TrimSpace(value))
	s.touch()
	return nil
}

// Next advances one question and reports whether it moved.
func (s *Session) Next() bool {
	if s.IsLast() {
		return false
	}
	s.Current++
	s.touch()
	return true
}

// Previous steps back one question and reports whether it moved.
func (s *Session) Previous() bool {
	if s.IsFirst() {
		return false
	}
	s.Current--
	s.touch()
	return true
}

func (s *Session) IsFirst() bool {
	return s.Current == 0
}

func (s *Session) IsLast() bool {
	return s.Current == len(Catalog)-1
}

// Progress is the position of the current question as a percentage.
func (s *Session) Progress() float64 {
	return float64(s.Current+1) / float64(len(Catalog)) * 100
}

// Complete reports whether every catalog question has an answer.
func (s *Session) Complete() bool {
	for _, q := range Catalog {
		if _, ok := s.Answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

func (s *Session) Reset() {
	s.Current = 0
	s.Answers = make(map[int]string)
	s.touch()
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
