package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/techquiz/internal/api"
	"github.com/vytor/techquiz/internal/config"
	"github.com/vytor/techquiz/internal/db"
	"github.com/vytor/techquiz/internal/logger"
	"github.com/vytor/techquiz/internal/questions"
	"github.com/vytor/techquiz/internal/quiz"
	"github.com/vytor/techquiz/internal/repository/sqlite"
	"github.com/vytor/techquiz/internal/services"
	"github.com/vytor/techquiz/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("TechQuiz Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("question_source_url=%s", cfg.QuestionSourceURL)
	log.Debug("quiz_size=%d", cfg.QuizSize)
	log.Debug("fetch_timeout=%s", cfg.FetchTimeout)
	log.Debug("fetch_worker_count=%d", cfg.FetchWorkerCount)
	log.Debug("fetch_queue_size=%d", cfg.FetchQueueSize)
	log.Debug("view_idle_timeout=%s", cfg.ViewIdleTimeout)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	questionService := services.NewQuestionService(sqlite.NewQuestionRepository(database.DB), cfg.QuizSize)

	if cfg.SeedOnStart {
		if err := seed(questionService, cfg.SeedPath); err != nil {
			log.Error("failed to seed question bank: %v", err)
			os.Exit(1)
		}
	}

	tmpl, err := api.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}

	// Without a remote source the quiz is served from the local bank, the
	// same data GET /api/questions/random exposes.
	var source quiz.Source = questionService
	if cfg.QuestionSourceURL != "" {
		log.Info("using remote question source %s", cfg.QuestionSourceURL)
		source = questions.NewClient(cfg.QuestionSourceURL, cfg.FetchTimeout)
	}

	fetchPool := worker.NewPool(cfg.FetchWorkerCount, cfg.FetchQueueSize)
	registry := quiz.NewRegistry(func() *quiz.Controller {
		return quiz.NewController(source,
			quiz.WithRunner(fetchPool),
			quiz.WithFetchTimeout(cfg.FetchTimeout),
		)
	})

	srv := &api.Server{
		DB:              database,
		Registry:        registry,
		QuestionService: questionService,
		Templates:       tmpl,
	}

	ctx, cancel := context.WithCancel(context.Background())
	fetchPool.Start(ctx)
	go sweepViews(ctx, registry, cfg.ViewIdleTimeout)

	httpServer := &http.Server{
		Addr:        cfg.Addr,
		Handler:     srv.Routes(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("disposing %d views", registry.Len())
	registry.Close()

	cancel()
	log.Debug("stopping fetch pool")
	fetchPool.Stop()

	log.Info("===========================================")
	log.Info("TechQuiz Server Stopped")
	log.Info("===========================================")
}

func seed(svc services.QuestionService, path string) error {
	var r io.Reader = db.DefaultSeed()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	_, err := svc.SeedIfEmpty(context.Background(), r)
	return err
}

// sweepViews disposes views abandoned without an explicit dispose.
func sweepViews(ctx context.Context, registry *quiz.Registry, maxIdle time.Duration) {
	interval := maxIdle / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Sweep(maxIdle); n > 0 {
				logger.Info("swept %d idle views", n)
			}
		}
	}
}
