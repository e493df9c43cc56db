// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"country-match-workers/internal/common/aws"
	"country-match-workers/internal/common/camunda/camundatest"
	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/dataset"
	"country-match-workers/internal/presentation"
	"country-match-workers/internal/quiz"
	"country-match-workers/internal/recommender"

	sr "country-match-workers/internal/workers/communication/send-recommendations"
	mqa "country-match-workers/internal/workers/quiz/map-quiz-answers"
	brr "country-match-workers/internal/workers/recommendation/build-recommendation-response"
	ccs "country-match-workers/internal/workers/recommendation/calculate-country-score"
	rc "country-match-workers/internal/workers/recommendation/recommend-countries"

	"github.com/alicebob/miniredis/v2"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const datasetPath = "../../data/countries.json"

// ==========================
// Test Environment
// ==========================

type fakeSES struct{ sent []*ses.SendEmailInput }

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.sent = append(f.sent, in)
	return &ses.SendEmailOutput{MessageId: awssdk.String("ses-e2e")}, nil
}

type fakeSNS struct{ sent []*sns.PublishInput }

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.sent = append(f.sent, in)
	return &sns.PublishOutput{MessageId: awssdk.String("sns-e2e")}, nil
}

type testEnvironment struct {
	redis    *miniredis.Miniredis
	sessions *quiz.RedisStore
	ses      *fakeSES
	sns      *fakeSNS
	handlers map[string]worker.JobHandler
}

func setupEnvironment(t *testing.T) *testEnvironment {
	t.Helper()
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	source := dataset.NewCachedSource(dataset.NewFileSource(datasetPath), rdb, dataset.DefaultCacheKey, time.Hour, log)
	catalog, err := dataset.LoadCatalog(ctx, source, log)
	require.NoError(t, err)
	require.Greater(t, catalog.Len(), 0)

	engine, err := recommender.NewEngine(recommender.DefaultConfig())
	require.NoError(t, err)

	env := &testEnvironment{
		redis:    mr,
		sessions: quiz.NewRedisStore(rdb, quiz.DefaultKeyPrefix, time.Hour),
		ses:      &fakeSES{},
		sns:      &fakeSNS{},
	}

	sendCfg := sr.LoadConfig(nil)
	sendCfg.EmailEnabled, sendCfg.SMSEnabled = true, true

	env.handlers = map[string]worker.JobHandler{
		mqa.TaskType: mqa.NewHandler(mqa.LoadConfig(nil), env.sessions, log).Handle,
		ccs.TaskType: ccs.NewHandler(ccs.LoadConfig(nil), engine, catalog, nil, log).Handle,
		rc.TaskType:  rc.NewHandler(rc.LoadConfig(nil), engine, catalog, nil, log).Handle,
		brr.TaskType: brr.NewHandler(brr.LoadConfig(nil), log).Handle,
		sr.TaskType: sr.NewHandler(sendCfg,
			aws.NewSESClientWithAPI(env.ses, "noreply@example.com"),
			aws.NewSNSClientWithAPI(env.sns), log).Handle,
	}
	return env
}

// run executes one service task with the process variables and merges the
// completed job's variables back into them, as the broker would.
func (env *testEnvironment) run(t *testing.T, taskType string, vars map[string]interface{}) map[string]interface{} {
	t.Helper()
	client := camundatest.NewJobClient()
	env.handlers[taskType](client, camundatest.NewJob(taskType, time.Now().UnixNano(), 3, vars))

	require.Empty(t, client.Thrown(), "%s threw a BPMN error", taskType)
	require.Empty(t, client.Failed(), "%s failed", taskType)
	completed := client.Completed()
	require.Len(t, completed, 1, "%s did not complete", taskType)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(completed[0].Variables), &out))

	merged := make(map[string]interface{}, len(vars)+len(out))
	for k, v := range vars {
		merged[k] = v
	}
	for k, v := range out {
		merged[k] = v
	}
	return merged
}

// ==========================
// Pipeline Tests
// ==========================

func TestRecommendationPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	env := setupEnvironment(t)

	vars := map[string]interface{}{
		"answers": map[string]string{
			"1": "high", "2": "medium", "3": "high", "4": "high", "5": "high", "6": "temperate",
		},
		"email": "traveler@example.com",
		"phone": "+4512345678",
	}

	vars = env.run(t, mqa.TaskType, vars)
	assert.Equal(t, true, vars["complete"])

	vars = env.run(t, rc.TaskType, vars)
	results := vars["results"].([]interface{})
	require.NotEmpty(t, results)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "Netherlands", first["name"])
	assert.Equal(t, 10.0, first["score"])

	prev := 11.0
	for i, r := range results {
		row := r.(map[string]interface{})
		assert.Equal(t, float64(i+1), row["rank"])
		assert.LessOrEqual(t, row["score"].(float64), prev)
		prev = row["score"].(float64)
	}

	vars = env.run(t, brr.TaskType, vars)
	assert.Equal(t, false, vars["noMatches"])
	cards := vars["cards"].([]interface{})
	assert.Len(t, cards, len(results))
	assert.Equal(t, float64(100), cards[0].(map[string]interface{})["matchPercent"])

	vars = env.run(t, sr.TaskType, vars)
	assert.Equal(t, sr.StatusSent, vars["status"])
	assert.Equal(t, "ses-e2e", vars["emailMessageId"])
	assert.Equal(t, "sns-e2e", vars["smsMessageId"])

	require.Len(t, env.ses.sent, 1)
	assert.Contains(t, awssdk.ToString(env.ses.sent[0].Message.Body.Text.Data), "#1 Netherlands - 100% match (Excellent)")
	require.Len(t, env.sns.sent, 1)
	assert.Contains(t, awssdk.ToString(env.sns.sent[0].Message), "1. Netherlands (100%)")

	// The dataset was cached on first load.
	assert.True(t, env.redis.Exists(dataset.DefaultCacheKey))
}

func TestRecommendationPipeline_FromStoredSession(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	env := setupEnvironment(t)

	session := quiz.NewSession("")
	for id, value := range map[int]string{1: "low", 2: "low", 3: "medium", 4: "medium", 6: "tropical"} {
		require.NoError(t, session.SetAnswer(id, value))
	}
	require.NoError(t, env.sessions.Save(context.Background(), session))

	vars := env.run(t, mqa.TaskType, map[string]interface{}{"sessionId": session.ID})
	assert.Equal(t, false, vars["complete"])
	assert.Equal(t, float64(5), vars["answeredCount"])

	vars = env.run(t, rc.TaskType, vars)
	require.NotEmpty(t, vars["results"])

	vars = env.run(t, brr.TaskType, vars)
	assert.Equal(t, false, vars["noMatches"])
}

func TestRecommendationPipeline_FromQuizAPI(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	env := setupEnvironment(t)
	server := httptest.NewServer(quiz.NewHandlers(env.sessions, logger.NewTestLogger(t)).Routes())
	defer server.Close()

	var view quiz.SessionView
	resp, err := http.Post(server.URL+"/sessions", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	resp.Body.Close()

	answers := []string{"high", "medium", "high", "high", "high", "temperate"}
	for i, value := range answers {
		body := strings.NewReader(fmt.Sprintf(`{"value": %q}`, value))
		req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/sessions/%s/answers/%d", server.URL, view.ID, i+1), body)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
		resp.Body.Close()
	}
	require.True(t, view.Complete)

	vars := env.run(t, mqa.TaskType, map[string]interface{}{"sessionId": view.ID})
	assert.Equal(t, true, vars["complete"])

	vars = env.run(t, rc.TaskType, vars)
	results := vars["results"].([]interface{})
	require.NotEmpty(t, results)
	assert.Equal(t, "Netherlands", results[0].(map[string]interface{})["name"])

	// Reset clears the stored answers.
	resp, err = http.Post(server.URL+"/sessions/"+view.ID+"/reset", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	vars = env.run(t, mqa.TaskType, map[string]interface{}{"sessionId": view.ID})
	assert.Equal(t, false, vars["complete"])
	assert.Equal(t, float64(0), vars["answeredCount"])
}

func TestRecommendationPipeline_NoMatches(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	env := setupEnvironment(t)

	// Two answered dimensions cannot reach the evidence minimum.
	vars := env.run(t, mqa.TaskType, map[string]interface{}{
		"answers": map[string]string{"1": "high", "2": "low"},
		"email":   "traveler@example.com",
	})

	vars = env.run(t, rc.TaskType, vars)
	assert.Equal(t, true, vars["noMatches"])

	vars = env.run(t, brr.TaskType, vars)
	assert.Equal(t, true, vars["noMatches"])
	assert.Equal(t, presentation.NoMatchesMessage, vars["message"])

	vars = env.run(t, sr.TaskType, vars)
	assert.Equal(t, sr.StatusSent, vars["emailStatus"])
	require.Len(t, env.ses.sent, 1)
	assert.Equal(t, presentation.NoMatchesMessage, awssdk.ToString(env.ses.sent[0].Message.Body.Text.Data))
}

func TestCountryScoreTask(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	env := setupEnvironment(t)

	vars := env.run(t, ccs.TaskType, map[string]interface{}{
		"country": "CHE",
		"preferences": map[string]string{
			"education": "high", "cost": "low", "jobs": "high", "safety": "high",
		},
	})

	assert.Equal(t, "Switzerland", vars["country"])
	assert.Equal(t, true, vars["qualified"])
	assert.Equal(t, float64(4), vars["evidence"])
	// Cost 10 is outside the low fair band: (2.5 + 0.5 + 2 + 1.5) / 0.85
	assert.InDelta(t, 7.6, vars["score"].(float64), 1e-9)
}
