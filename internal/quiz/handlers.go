// internal/quiz/handlers.go
package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"country-match-workers/internal/common/logger"

	"github.com/go-chi/chi/v5"
)

const maxAnswerBody = 4 << 10

// SessionView is the client-facing state of a session. Answers are keyed by
// decimal question id, the form map-quiz-answers reads.
type SessionView struct {
	ID            string            `json:"id"`
	Question      Question          `json:"question"`
	Position      int               `json:"position"`
	Total         int               `json:"total"`
	Progress      float64           `json:"progress"`
	IsFirst       bool              `json:"isFirst"`
	IsLast        bool              `json:"isLast"`
	Answers       map[string]string `json:"answers"`
	AnsweredCount int               `json:"answeredCount"`
	Complete      bool              `json:"complete"`
}

func NewSessionView(s *Session) SessionView {
	answers := make(map[string]string, len(s.Answers))
	for id, v := range s.Answers {
		answers[strconv.Itoa(id)] = v
	}
	return SessionView{
		ID:            s.ID,
		Question:      s.CurrentQuestion(),
		Position:      s.Current + 1,
		Total:         len(Catalog),
		Progress:      s.Progress(),
		IsFirst:       s.IsFirst(),
		IsLast:        s.IsLast(),
		Answers:       answers,
		AnsweredCount: len(s.Answers),
		Complete:      s.Complete(),
	}
}

type answerRequest struct {
	Value string `json:"value"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handlers serves the quiz over HTTP on top of a session Store.
type Handlers struct {
	store  Store
	logger logger.Logger
}

func NewHandlers(store Store, log logger.Logger) *Handlers {
	return &Handlers{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "quiz-api"}),
	}
}

// Routes returns the quiz router, meant to be mounted under /quiz.
func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/questions", h.ListQuestions)
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)
		r.Put("/answers/{qid}", h.SetAnswer)
		r.Post("/next", h.Next)
		r.Post("/previous", h.Previous)
		r.Post("/reset", h.Reset)
	})
	return r
}

// ListQuestions handles GET /questions
func (h *Handlers) ListQuestions(w http.ResponseWriter, _ *http.Request) {
	questions := append([]Question(nil), Catalog...)
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	writeJSON(w, http.StatusOK, questions)
}

// CreateSession handles POST /sessions
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := NewSession("")
	if err := h.store.Save(r.Context(), s); err != nil {
		h.storeError(w, "create", s.ID, err)
		return
	}
	h.logger.Info("quiz session created", map[string]interface{}{"sessionId": s.ID})
	writeJSON(w, http.StatusCreated, NewSessionView(s))
}

// GetSession handles GET /sessions/{id}
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewSessionView(s))
}

// DeleteSession handles DELETE /sessions/{id}
func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.storeError(w, "delete", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetAnswer handles PUT /sessions/{id}/answers/{qid}. Answering the current
// question moves the session to the next one.
func (h *Handlers) SetAnswer(w http.ResponseWriter, r *http.Request) {
	qid, err := strconv.Atoi(chi.URLParam(r, "qid"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_QUESTION_ID", "question id must be an integer")
		return
	}

	var req answerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnswerBody)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "body must be {\"value\": \"...\"}")
		return
	}

	s, ok := h.load(w, r)
	if !ok {
		return
	}

	switch err := s.SetAnswer(qid, req.Value); {
	case errors.Is(err, ErrUnknownQuestion):
		respondError(w, http.StatusNotFound, "UNKNOWN_QUESTION", "no question with id "+strconv.Itoa(qid))
		return
	case errors.Is(err, ErrInvalidOption):
		respondError(w, http.StatusBadRequest, "INVALID_OPTION", "value is not an option of question "+strconv.Itoa(qid))
		return
	}
	if s.CurrentQuestion().ID == qid {
		s.Next()
	}

	h.save(w, r, s)
}

// Next handles POST /sessions/{id}/next
func (h *Handlers) Next(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, (*Session).Next)
}

// Previous handles POST /sessions/{id}/previous
func (h *Handlers) Previous(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, (*Session).Previous)
}

// Reset handles POST /sessions/{id}/reset
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	s.Reset()
	h.save(w, r, s)
}

func (h *Handlers) move(w http.ResponseWriter, r *http.Request, step func(*Session) bool) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	if !step(s) {
		writeJSON(w, http.StatusOK, NewSessionView(s))
		return
	}
	h.save(w, r, s)
}

func (h *Handlers) load(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "id")
	s, err := h.store.Load(r.Context(), id)
	if errors.Is(err, ErrSessionNotFound) {
		respondError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "quiz session not found")
		return nil, false
	}
	if err != nil {
		h.storeError(w, "load", id, err)
		return nil, false
	}
	return s, true
}

func (h *Handlers) save(w http.ResponseWriter, r *http.Request, s *Session) {
	if err := h.store.Save(r.Context(), s); err != nil {
		h.storeError(w, "save", s.ID, err)
		return
	}
	writeJSON(w, http.StatusOK, NewSessionView(s))
}

func (h *Handlers) storeError(w http.ResponseWriter, op, id string, err error) {
	h.logger.Error("quiz session store failed", map[string]interface{}{
		"op":        op,
		"sessionId": id,
		"error":     err,
	})
	respondError(w, http.StatusServiceUnavailable, "SESSION_STORE_FAILED", "quiz session store unavailable")
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
