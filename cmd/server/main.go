package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"varhub/internal/annotation/handler"
	annotationmetrics "varhub/internal/annotation/metrics"
	"varhub/internal/annotation/resolver"
	"varhub/internal/annotation/service"
	"varhub/internal/annotation/sources"
	"varhub/internal/annotation/store"
	"varhub/internal/platform/circuit"
	"varhub/internal/platform/config"
	"varhub/internal/platform/httpserver"
	"varhub/internal/platform/logger"
	"varhub/internal/platform/metrics"
	"varhub/internal/platform/middleware"
	"varhub/internal/platform/pacer"
	platformredis "varhub/internal/platform/redis"
	httptransport "varhub/internal/transport/http"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal annotation packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.RedisAddr)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// One pacer shared by all clients; breakers are per source so one
	// registry going down does not trip the others.
	callPacer := pacer.New(pacer.DefaultInterval)
	newBreaker := func() *circuit.Breaker {
		return circuit.NewBreaker(5, 3, 30*time.Second)
	}

	var (
		studyCache  sources.StudyCache
		resultCache service.ResultCache
	)
	if redisClient != nil {
		redisStore := store.NewRedisStore(redisClient.Client, cfg.CacheTTL)
		studyCache = redisStore
		resultCache = redisStore
	} else {
		memoryStore := store.NewMemoryStore(cfg.CacheTTL)
		studyCache = memoryStore
		resultCache = memoryStore
	}

	tumorClient, err := sources.NewTumorRegistryClient(cfg.GDCBaseURL, callPacer, newBreaker(), log)
	if err != nil {
		log.Error("tumor registry client init failed", "error", err)
		os.Exit(1)
	}
	populationClient, err := sources.NewPopulationClient(cfg.EnsemblBaseURL, callPacer, newBreaker(), log)
	if err != nil {
		log.Error("population client init failed", "error", err)
		os.Exit(1)
	}
	crossStudyClient, err := sources.NewCrossStudyClient(cfg.CBioBaseURL, cfg.CBioToken, callPacer, newBreaker(), studyCache, log)
	if err != nil {
		log.Error("cross-study client init failed", "error", err)
		os.Exit(1)
	}

	svc, err := service.New(
		tumorClient,
		populationClient,
		crossStudyClient,
		resolver.New(),
		service.WithLogger(log),
		service.WithResultCache(resultCache),
		service.WithMetrics(annotationmetrics.New()),
		service.WithTracer(otel.Tracer("varhub/annotation")),
	)
	if err != nil {
		log.Error("annotation service init failed", "error", err)
		os.Exit(1)
	}

	var jwtValidator middleware.JWTValidator
	if cfg.JWTSigningKey != "" {
		jwtValidator = middleware.NewHMACValidator(cfg.JWTSigningKey)
	}

	annotationHandler := handler.New(svc, log, metrics.New(), jwtValidator)

	var health httptransport.HealthChecker
	if redisClient != nil {
		health = redisClient
	}
	router := httptransport.NewRouter(annotationHandler, health)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting varhub", "addr", cfg.Addr, "redis", cfg.RedisAddr != "")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
