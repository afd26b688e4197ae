package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	path := flag.String("file", "./scripts/job_postings.json", "JSON array of job postings")
	flag.Parse()

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
	if cfg.Gemini.APIKey == "" {
		log.Fatal("GEMINI_API_KEY is required to embed job postings")
	}

	postings, err := loadPostings(*path)
	if err != nil {
		log.Fatal("failed to load job postings", zap.String("file", *path), zap.Error(err))
	}
	log.Info("starting job posting ingestion", zap.String("file", *path), zap.Int("postings", len(postings)))

	ctx := context.Background()

	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		EmbedModel: cfg.Gemini.EmbedModel,
		RetryDelay: cfg.Worker.RetryInitialDelay,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize gemini", zap.Error(err))
	}

	index, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		log.Fatal("failed to initialize qdrant", zap.Error(err))
	}
	if err := index.InitCollection(ctx); err != nil {
		log.Fatal("failed to initialize collection", zap.Error(err))
	}

	prompts := services.NewPromptBuilder()
	successCount := 0
	failCount := 0

	for _, posting := range postings {
		plog := log.With(zap.String("title", posting.Title))

		if strings.TrimSpace(posting.Title) == "" {
			plog.Warn("posting has no title, skipping")
			failCount++
			continue
		}

		text := prompts.BuildJobPostingText(posting.Title, posting.Category, posting.Description)
		embedding, err := gemini.GenerateEmbedding(ctx, text)
		if err != nil {
			plog.Error("failed to generate embedding", zap.Error(err))
			failCount++
			continue
		}

		if err := index.UpsertJobPosting(ctx, posting, embedding); err != nil {
			plog.Error("failed to store posting", zap.Error(err))
			failCount++
			continue
		}

		plog.Info("posting ingested")
		successCount++
	}

	log.Info("ingestion summary", zap.Int("successful", successCount), zap.Int("failed", failCount))

	if failCount > 0 {
		log.Warn("some postings failed to ingest, check the logs above")
		os.Exit(1)
	}
}

func loadPostings(path string) ([]models.JobPosting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var postings []models.JobPosting
	if err := json.Unmarshal(data, &postings); err != nil {
		return nil, fmt.Errorf("failed to parse postings: %w", err)
	}
	return postings, nil
}
