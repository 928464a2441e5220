package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/kakomon/kakomon-backend/internal/database"
	"github.com/kakomon/kakomon-backend/internal/handler"
	"github.com/kakomon/kakomon-backend/internal/logger"
	"github.com/kakomon/kakomon-backend/internal/metrics"
	"github.com/kakomon/kakomon-backend/internal/middleware"
	"github.com/kakomon/kakomon-backend/internal/quiz"
	"github.com/kakomon/kakomon-backend/internal/repository"
	"github.com/kakomon/kakomon-backend/internal/router"
	"github.com/kakomon/kakomon-backend/internal/service"
	"github.com/kakomon/kakomon-backend/internal/validator"
	"github.com/kakomon/kakomon-backend/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Dur("time_limit", cfg.QuizTimeLimit).
		Msg("Starting Kakomon Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	questionRepo := repository.NewQuestionRepository(pool)
	scoreRepo := repository.NewScoreRepository(pool)
	missedRepo := repository.NewMissedRepository(rdb)
	rankingRepo := repository.NewRankingRepository(rdb)
	scoreQueue := worker.NewScoreQueue(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	quizService := service.NewQuizService(
		questionRepo,
		missedRepo,
		scoreQueue,
		rankingRepo,
		quiz.NewRandomSource(0),
		cfg.ImageBaseURL,
		service.QuizOptionsFromConfig(cfg),
		log,
	)
	statsService := service.NewStatsService(questionRepo, scoreRepo, rankingRepo)

	prometheus.MustRegister(metrics.NewSessionCollector(quizService))

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Quiz:  handler.NewQuizHandler(quizService, log),
		Stats: handler.NewStatsHandler(statsService, log),
		WS:    handler.NewWSHandler(quizService, log, cfg.AllowedOrigins),
	}

	var startLimiter *middleware.RateLimiter
	if cfg.StartRateLimit > 0 {
		startLimiter = middleware.NewRateLimiter(middleware.NewRedisWindowCounter(rdb), cfg.StartRateLimit, log)
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	scoreWorker := worker.NewScoreWorker(scoreRepo, rdb, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		scoreWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, startLimiter, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop session clocks and wait for pending score submissions.
	quizService.Close()

	// 3. Stop the score worker; it flushes its current batch on exit.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
