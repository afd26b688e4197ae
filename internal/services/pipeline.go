package services

import (
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
)

// PipelineOptions selects the pipeline variants. Gemini and Index are optional; without
// them the keyword analyzer and template recommender are used.
type PipelineOptions struct {
	Analyzer      string
	MinTextLength int
	MaxFileSize   int64
	Quality       QualityInputs
	MaxRetries    int
	Gemini        GeminiService
	Index         JobIndex
	Vocabulary    *SkillVocabulary
}

// NewPipeline wires an AnalysisOrchestrator from options.
func NewPipeline(opts PipelineOptions, log *zap.Logger) *AnalysisOrchestrator {
	log = logger.OrNop(log)
	vocab := opts.Vocabulary
	if vocab == nil {
		vocab = DefaultVocabulary
	}

	var recommender Recommender = NewRecommendationGenerator()
	if opts.Gemini != nil && opts.Index != nil {
		recommender = NewSemanticRecommender(opts.Gemini, opts.Index, vocab, log)
	}

	profiler := NewProfileAnalyzer(opts.Analyzer, opts.Gemini, vocab, opts.MaxRetries, log)
	scorer := NewScoreEngine(opts.Quality)
	quality := scorer.Inputs()

	log.Info("analysis pipeline ready",
		zap.String("analyzer", profiler.Name()),
		zap.Bool("semantic_jobs", opts.Gemini != nil && opts.Index != nil),
		zap.Int("vocabulary_size", vocab.Size()),
		zap.Float64("content_quality", quality.ContentQuality),
		zap.Float64("completeness", quality.Completeness))

	return NewAnalysisOrchestrator(OrchestratorDeps{
		Extractor:   NewTextExtractor(opts.MinTextLength, log),
		Profiler:    profiler,
		Scorer:      scorer,
		Recommender: recommender,
		Questions:   NewInterviewQuestionGenerator(vocab),
		Vocabulary:  vocab,
		MaxFileSize: opts.MaxFileSize,
	}, log)
}
