package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

var errAnalysisFailed = errors.New("analysis failed")

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.pdf>",
	Short: "Analyze a resume and print the result JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeOutputFile string
	analyzeAnalyzer   string
	analyzeCompact    bool
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Write the JSON result to this file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeAnalyzer, "analyzer", "", "Profile analyzer: keyword or gemini (overrides ANALYZER env var)")
	analyzeCmd.Flags().BoolVar(&analyzeCompact, "compact", false, "Print compact JSON")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Log pipeline progress to stderr")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, _ := config.Load()
	if analyzeAnalyzer != "" {
		cfg.Analysis.Analyzer = analyzeAnalyzer
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := zap.NewNop()
	if analyzeVerbose {
		l, err := logger.New(false, true, "stderr")
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		log = l
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var gemini services.GeminiService
	if cfg.Analysis.Analyzer == services.AnalyzerGemini {
		g, err := services.NewGeminiService(ctx, services.GeminiOptions{
			APIKey:     cfg.Gemini.APIKey,
			Model:      cfg.Gemini.Model,
			EmbedModel: cfg.Gemini.EmbedModel,
			RetryDelay: cfg.Worker.RetryInitialDelay,
		}, log)
		if err != nil {
			return err
		}
		gemini = g
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
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
	}, log)

	result := pipeline.Analyze(ctx, models.DocumentBuffer{
		Data:        data,
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Filename:    filepath.Base(path),
	})

	var out io.Writer = cmd.OutOrStdout()
	if analyzeOutputFile != "" {
		f, err := os.Create(analyzeOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := writeResult(out, result, !analyzeCompact); err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("%w: %s", errAnalysisFailed, result.Error)
	}
	return nil
}

func writeResult(w io.Writer, result *models.AnalysisResult, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
