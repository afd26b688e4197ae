package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

// multipartOverhead leaves room for form boundaries so oversized files reach the handler
// and get the standard envelope instead of a bare 413.
const multipartOverhead = 1 << 20

func main() {
	cfg, note := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if note != "" {
		log.Info(note)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Gemini and Qdrant are optional collaborators
	var gemini services.GeminiService
	if cfg.Gemini.APIKey != "" {
		gemini, err = services.NewGeminiService(ctx, services.GeminiOptions{
			APIKey:     cfg.Gemini.APIKey,
			Model:      cfg.Gemini.Model,
			EmbedModel: cfg.Gemini.EmbedModel,
			RetryDelay: cfg.Worker.RetryInitialDelay,
		}, log)
		if err != nil {
			log.Fatal("failed to initialize gemini", zap.Error(err))
		}
		log.Info("gemini initialized", zap.String("model", cfg.Gemini.Model))
	}

	var jobIndex services.JobIndex
	if cfg.Qdrant.Enabled {
		jobIndex, err = services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
		if err != nil {
			log.Fatal("failed to initialize qdrant", zap.Error(err))
		}
		if err := jobIndex.InitCollection(ctx); err != nil {
			log.Fatal("failed to initialize qdrant collection", zap.Error(err))
		}
		log.Info("qdrant initialized", zap.String("collection", cfg.Qdrant.Collection))
	}

	pipeline := services.NewPipeline(services.PipelineOptions{
		Analyzer:      cfg.Analysis.Analyzer,
		MinTextLength: cfg.Analysis.MinTextLength,
		MaxFileSize:   cfg.Storage.MaxFileSize,
		Quality: services.QualityInputs{
			ContentQuality: cfg.Analysis.ContentQuality,
			Completeness:   cfg.Analysis.Completeness,
		},
		MaxRetries: cfg.Worker.RetryMaxAttempts,
		Gemini:     gemini,
		Index:      jobIndex,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + multipartOverhead,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	endpoints := []string{
		"POST /api/v1/analyze",
		"GET /api/v1/vocabulary",
	}

	analyzeHandler := handlers.NewAnalyzeHandler(pipeline, log)
	vocabularyHandler := handlers.NewVocabularyHandler(services.DefaultVocabulary)
	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/vocabulary", vocabularyHandler.HandleVocabulary)

	var worker services.Worker
	if cfg.Worker.Enabled {
		db, err := config.InitDatabase(cfg, log)
		if err != nil {
			log.Fatal("failed to initialize database", zap.Error(err))
		}

		storage := services.NewStorageService(cfg.Storage.UploadPath)
		if err := storage.EnsureUploadDir(); err != nil {
			log.Fatal("failed to create upload directory", zap.Error(err))
		}

		jobRepo := repositories.NewAnalysisJobRepository(db)
		worker = services.NewWorker(jobRepo, storage, pipeline, services.WorkerOptions{
			Concurrency:  cfg.Worker.Concurrency,
			QueueSize:    cfg.Worker.QueueSize,
			PollInterval: cfg.Worker.PollInterval,
			StaleAfter:   cfg.Worker.StaleAfter,
		}, log)
		worker.Start(ctx)

		jobHandler := handlers.NewAnalysisJobHandler(jobRepo, storage, worker, cfg.Storage.MaxFileSize, log)
		api.Post("/analyses", jobHandler.HandleSubmit)
		api.Get("/analyses/:id", jobHandler.HandleGetJob)
		endpoints = append(endpoints, "POST /api/v1/analyses", "GET /api/v1/analyses/:id")
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Resume Analyzer API",
			"version":   "1.0.0",
			"endpoints": endpoints,
		})
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		if worker != nil {
			worker.Stop()
		}
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
