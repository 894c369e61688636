package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-scheduler-api/api/swagger"
	"github.com/noah-isme/course-scheduler-api/internal/extractor"
	"github.com/noah-isme/course-scheduler-api/internal/handler"
	internalmiddleware "github.com/noah-isme/course-scheduler-api/internal/middleware"
	"github.com/noah-isme/course-scheduler-api/internal/repository"
	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	"github.com/noah-isme/course-scheduler-api/pkg/cache"
	"github.com/noah-isme/course-scheduler-api/pkg/config"
	"github.com/noah-isme/course-scheduler-api/pkg/database"
	"github.com/noah-isme/course-scheduler-api/pkg/jobs"
	"github.com/noah-isme/course-scheduler-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-scheduler-api/pkg/middleware/requestid"
)

const shutdownTimeout = 15 * time.Second

// @title Course Scheduler API
// @version 1.0.0
// @description Generates conflict-free course schedules with lecture and TA sessions.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{}

	var (
		recorder *service.RunRecorder
		runQueue *jobs.Queue
		runs     *repository.ScheduleRunRepository
	)
	if cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close()
		checks["database"] = db.PingContext

		runs = repository.NewScheduleRunRepository(db)
		worker := service.NewRunWorker(runs, metricsSvc, logr)
		runQueue = jobs.NewQueue("schedule-runs", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.RunLog.Workers,
			BufferSize: cfg.RunLog.BufferSize,
			MaxRetries: cfg.RunLog.Retries,
			Logger:     logr,
		})
		runQueue.Start(context.Background())
		recorder = service.NewRunRecorder(runQueue, logr)
	} else {
		logr.Info("database disabled, schedule runs will not be recorded")
	}

	var cacheRepo service.CacheRepository
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		redisRepo := repository.NewCacheRepository(client, logr)
		defer redisRepo.Close() //nolint:errcheck
		checks["redis"] = redisRepo.Ping
		cacheRepo = redisRepo
	} else {
		cacheRepo = repository.NewLocalCacheRepository(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}
	scheduleCache := service.NewScheduleCache(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	scheduleSvc := service.NewScheduleService(
		scheduler.NewEngine(scheduler.Options{MaxCandidates: cfg.Scheduler.MaxCandidates}),
		extractor.NewRuleExtractor(logr),
		scheduleCache,
		recorder,
		metricsSvc,
		validator.New(),
		logr,
		service.ScheduleServiceConfig{Timeout: cfg.Scheduler.Timeout},
	)

	// The run lister must stay an untyped nil when no database is configured.
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, nil)
	if runs != nil {
		scheduleHandler = handler.NewScheduleHandler(scheduleSvc, runs)
	}
	exportHandler := handler.NewScheduleExportHandler(scheduleSvc, service.NewExportService())
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	probes := []string{"/health", "/ready", "/metrics"}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, probes...))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc, probes...))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/schedule", scheduleHandler.Generate)
	api.POST("/schedule/export", exportHandler.Export)
	api.GET("/schedule/runs", scheduleHandler.ListRuns)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	if runQueue != nil {
		if err := runQueue.Stop(shutdownCtx); err != nil {
			logr.Warn("schedule run queue did not drain", zap.Error(err))
		}
	}
}
