// cmd/worker-manager/main.go
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"country-match-workers/internal/common/aws"
	"country-match-workers/internal/common/camunda"
	"country-match-workers/internal/common/config"
	"country-match-workers/internal/common/database"
	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/common/observability"
	"country-match-workers/internal/dataset"
	"country-match-workers/internal/quiz"
	"country-match-workers/internal/recommender"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	sr "country-match-workers/internal/workers/communication/send-recommendations"
	mqa "country-match-workers/internal/workers/quiz/map-quiz-answers"
	brr "country-match-workers/internal/workers/recommendation/build-recommendation-response"
	ccs "country-match-workers/internal/workers/recommendation/calculate-country-score"
	rc "country-match-workers/internal/workers/recommendation/recommend-countries"
)

// startupRetry bounds how long the manager waits for each dependency.
var startupRetry = &camunda.RetryConfig{
	MaxRetries: 10,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker manager: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"dataset":     cfg.Dataset.Source,
	})

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := newHealthServer(cfg.App.Version, log)

	// --- Redis (dataset cache and quiz sessions) ---
	var rdb *database.RedisClient
	if cfg.NeedsRedis() {
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		if err := camunda.Retry(ctx, startupRetry, "redis ping", log, rdb.Ping); err != nil {
			return err
		}
		health.addCheck("redis", rdb.Ping)
		log.Info("redis connected", map[string]interface{}{"address": cfg.Database.Redis.Address})
	}

	// --- Country dataset ---
	source, closeSource, err := openSource(ctx, cfg, health, log)
	if err != nil {
		return err
	}
	defer closeSource()

	if cfg.Dataset.Cache.Enabled && rdb != nil {
		source = dataset.NewCachedSource(source, rdb.Client, cfg.Dataset.Cache.Key,
			time.Duration(cfg.Dataset.Cache.TTLSeconds)*time.Second, log)
	}

	var catalog *dataset.Catalog
	err = camunda.Retry(ctx, startupRetry, "dataset load", log, func(ctx context.Context) error {
		loadCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Dataset.LoadTimeout))
		defer cancel()
		loaded, loadErr := dataset.LoadCatalog(loadCtx, source, log)
		if loadErr != nil {
			return loadErr
		}
		catalog = loaded
		return nil
	})
	if err != nil {
		return err
	}
	health.addCheck("catalog", func(context.Context) error {
		if catalog.Len() == 0 {
			return stderrors.New("country catalog is empty")
		}
		return nil
	})

	// --- Scoring engine ---
	engineCfg, err := cfg.Scoring.ToRecommenderConfig()
	if err != nil {
		return fmt.Errorf("scoring config: %w", err)
	}
	engine, err := recommender.NewEngine(engineCfg)
	if err != nil {
		return fmt.Errorf("scoring engine: %w", err)
	}

	// --- Quiz sessions ---
	var sessions quiz.Store
	if cfg.Quiz.SessionStore == "redis" && rdb != nil {
		store := quiz.NewRedisStore(rdb.Client, cfg.Quiz.KeyPrefix,
			time.Duration(cfg.Quiz.SessionTTLSeconds)*time.Second)
		sessions = store
		health.mount("/quiz", quiz.NewHandlers(store, log).Routes())
	}

	// --- Notification channels ---
	email, sms, err := openSenders(ctx, cfg)
	if err != nil {
		return err
	}

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig:            startupRetry,
	}, log)
	if err != nil {
		return err
	}
	defer zeebe.Close()
	health.addCheck("zeebe", zeebe.HealthCheck)
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- Workers ---
	handlers := []struct {
		taskType string
		handle   worker.JobHandler
	}{
		{mqa.TaskType, mqa.NewHandler(mqa.LoadConfig(cfg), sessions, log).Handle},
		{ccs.TaskType, ccs.NewHandler(ccs.LoadConfig(cfg), engine, catalog, obs, log).Handle},
		{rc.TaskType, rc.NewHandler(rc.LoadConfig(cfg), engine, catalog, obs, log).Handle},
		{brr.TaskType, brr.NewHandler(brr.LoadConfig(cfg), log).Handle},
		{sr.TaskType, sr.NewHandler(sr.LoadConfig(cfg), email, sms, log).Handle},
	}

	var workers []worker.JobWorker
	for _, h := range handlers {
		w := camunda.StartWorker(zeebe.GetClient(), h.taskType, config.GetWorkerConfig(cfg, h.taskType), h.handle, obs, log)
		if w != nil {
			workers = append(workers, w)
		}
	}
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & metrics server ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           health.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Error("health server failed", map[string]interface{}{"error": err})
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	for _, w := range workers {
		w.Close()
	}
	for _, w := range workers {
		w.AwaitClose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("health server shutdown failed", map[string]interface{}{"error": err})
	}

	log.Info("worker manager stopped", nil)
	return nil
}

// openSource builds the configured country dataset source and registers its
// readiness check. The returned func releases the backing connection.
func openSource(ctx context.Context, cfg *config.Config, health *healthServer, log logger.Logger) (dataset.Source, func(), error) {
	switch cfg.Dataset.Source {
	case config.DatasetSourcePostgres:
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := camunda.Retry(ctx, startupRetry, "postgres ping", log, pg.Ping); err != nil {
			pg.Close()
			return nil, nil, err
		}
		src, err := dataset.NewPostgresSource(pg.DB, cfg.Dataset.Table)
		if err != nil {
			pg.Close()
			return nil, nil, err
		}
		health.addCheck("postgres", pg.Ping)
		return src, func() { pg.Close() }, nil

	case config.DatasetSourceElasticsearch:
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
		if err != nil {
			return nil, nil, err
		}
		if err := camunda.Retry(ctx, startupRetry, "elasticsearch ping", log, es.Ping); err != nil {
			return nil, nil, err
		}
		health.addCheck("elasticsearch", es.Ping)
		return dataset.NewElasticsearchSource(es.Client, cfg.Dataset.Index), func() {}, nil

	default:
		return dataset.NewFileSource(cfg.Dataset.Path), func() {}, nil
	}
}

// openSenders returns nil senders for disabled channels.
func openSenders(ctx context.Context, cfg *config.Config) (sr.EmailSender, sr.SMSSender, error) {
	n := cfg.Notifications
	if !n.Email.Enabled && !n.SMS.Enabled {
		return nil, nil, nil
	}

	awsCfg, err := aws.LoadConfig(ctx, n.AWS.Region)
	if err != nil {
		return nil, nil, err
	}

	var (
		email sr.EmailSender
		sms   sr.SMSSender
	)
	if n.Email.Enabled {
		email = aws.NewSESClient(awsCfg, n.Email.FromEmail)
	}
	if n.SMS.Enabled {
		sms = aws.NewSNSClient(awsCfg)
	}
	return email, sms, nil
}
