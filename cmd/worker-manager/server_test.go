package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/quiz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthServer_Health(t *testing.T) {
	s := newHealthServer("1.2.3", logger.NewNoOpLogger())

	rec, body := get(t, s.routes(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}

func TestHealthServer_Ready(t *testing.T) {
	s := newHealthServer("dev", logger.NewNoOpLogger())
	redisErr := error(nil)
	s.addCheck("catalog", func(context.Context) error { return nil })
	s.addCheck("redis", func(context.Context) error { return redisErr })

	rec, body := get(t, s.routes(), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])

	redisErr = stderrors.New("redis ping failed: connection refused")
	rec, body = get(t, s.routes(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body["status"])
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "ok", checks["catalog"])
	assert.Contains(t, checks["redis"], "connection refused")
}

func TestHealthServer_Metrics(t *testing.T) {
	s := newHealthServer("dev", logger.NewNoOpLogger())

	rec, _ := get(t, s.routes(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# TYPE")
}

func TestHealthServer_MountsQuizRoutes(t *testing.T) {
	s := newHealthServer("dev", logger.NewNoOpLogger())
	s.mount("/quiz", quiz.NewHandlers(nil, logger.NewNoOpLogger()).Routes())

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quiz/questions", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var questions []quiz.Question
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &questions))
	assert.Len(t, questions, len(quiz.Catalog))
}
