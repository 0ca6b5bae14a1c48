package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"padoca/internal/analytics"
	"padoca/internal/analytics/cache"
	"padoca/internal/analytics/handler"
	"padoca/internal/analytics/metrics"
	"padoca/internal/confirmation"
	"padoca/internal/eventstore"
	"padoca/internal/ingest"
	"padoca/internal/platform/config"
	"padoca/internal/platform/httpserver"
	"padoca/internal/platform/logger"
	"padoca/internal/platform/postgres"
	platformredis "padoca/internal/platform/redis"
	"padoca/internal/reschedule"
	httptransport "padoca/internal/transport/http"
	"padoca/internal/turnover"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.Database.URL)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	var events eventstore.Store
	var reschedules reschedule.Store
	if db != nil {
		events = eventstore.NewPostgresStore(db)
		reschedules = reschedule.NewPostgresStore(db)
	} else {
		log.Warn("no database configured, using in-memory stores")
		events = eventstore.NewMemoryStore()
		reschedules = reschedule.NewMemoryStore()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	var snapshotCache cache.SnapshotCache
	if redisClient != nil {
		defer redisClient.Close()
		snapshotCache = cache.NewRedisCache(redisClient.Client, cfg.Analytics.CacheTTL)
	} else {
		log.Warn("no redis configured, using in-process snapshot cache")
		snapshotCache = cache.NewMemoryCache(cfg.Analytics.CacheTTL)
	}

	recorder, err := reschedule.NewRecorder(reschedules, reschedule.WithLogger(log))
	if err != nil {
		log.Error("failed to build reschedule recorder", "error", err)
		os.Exit(1)
	}

	service, err := analytics.New(events, reschedules, recorder,
		analytics.WithLogger(log),
		analytics.WithMetrics(metrics.New()),
		analytics.WithCache(snapshotCache),
		analytics.WithWindow(turnover.Window{Days: cfg.Analytics.WindowDays, Weeks: cfg.Analytics.WindowWeeks}),
		analytics.WithScoreParams(confirmation.Params{
			WindowDays:           cfg.Analytics.WindowDays,
			ReschedulePenalty:    cfg.Analytics.ReschedulePenalty,
			MaxReschedulePenalty: cfg.Analytics.MaxReschedulePenalty,
			VolatilityWeight:     cfg.Analytics.VolatilityWeight,
			MaxVolatilityPenalty: cfg.Analytics.MaxVolatilityPenalty,
			TrendStep:            cfg.Analytics.TrendStep,
			MaxTrend:             cfg.Analytics.MaxTrend,
		}),
		analytics.WithWorkerLimit(cfg.Analytics.WorkerLimit),
	)
	if err != nil {
		log.Error("failed to build analytics service", "error", err)
		os.Exit(1)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(cfg.Kafka.Brokers) > 0 {
		consumer, err := ingest.New(ingest.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			Group:   cfg.Kafka.Group,
		}, service, ingest.WithLogger(log))
		if err != nil {
			log.Error("failed to build ingest consumer", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()

		if err := consumer.EnsureTopic(rootCtx, 3); err != nil {
			log.Error("failed to ensure kafka topic", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := consumer.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("ingest consumer stopped", "error", err)
			}
		}()
	} else {
		log.Warn("no kafka brokers configured, skipping delivery-event ingestion")
	}

	router := httptransport.NewRouter(handler.New(service, log))
	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting padoca analytics", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-rootCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
