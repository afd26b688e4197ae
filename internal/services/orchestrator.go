package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
)

// AnalysisState is a step of one Analyze call.
type AnalysisState string

const (
	StateIdle          AnalysisState = "idle"
	StateExtracting    AnalysisState = "extracting"
	StateExtractFailed AnalysisState = "extract_failed"
	StateExtracted     AnalysisState = "extracted"
	StateScoring       AnalysisState = "scoring"
	StateCompleted     AnalysisState = "completed"
	StateFailed        AnalysisState = "failed"
)

// Analyzer is the single entry point used by handlers, the worker pool and the CLI.
type Analyzer interface {
	Analyze(ctx context.Context, doc models.DocumentBuffer) *models.AnalysisResult
}

type OrchestratorDeps struct {
	Extractor   TextExtractor
	Profiler    ProfileAnalyzer
	Scorer      *ScoreEngine
	Recommender Recommender
	Questions   *InterviewQuestionGenerator
	Vocabulary  *SkillVocabulary
	// MaxFileSize rejects larger documents before extraction. Zero disables the check.
	MaxFileSize int64
}

// AnalysisOrchestrator runs extraction, profiling, scoring and recommendations and always
// returns an envelope, converting errors and panics into the failure shape.
type AnalysisOrchestrator struct {
	deps OrchestratorDeps
	log  *zap.Logger
}

func NewAnalysisOrchestrator(deps OrchestratorDeps, log *zap.Logger) *AnalysisOrchestrator {
	if deps.Vocabulary == nil {
		deps.Vocabulary = DefaultVocabulary
	}
	if deps.Extractor == nil {
		deps.Extractor = NewTextExtractor(DefaultMinTextLength, log)
	}
	if deps.Profiler == nil {
		deps.Profiler = NewKeywordAnalyzer(deps.Vocabulary)
	}
	if deps.Scorer == nil {
		deps.Scorer = NewScoreEngine(DefaultQualityInputs())
	}
	if deps.Recommender == nil {
		deps.Recommender = NewRecommendationGenerator()
	}
	if deps.Questions == nil {
		deps.Questions = NewInterviewQuestionGenerator(deps.Vocabulary)
	}
	return &AnalysisOrchestrator{deps: deps, log: logger.OrNop(log).Named("orchestrator")}
}

type analysisRun struct {
	doc        models.DocumentBuffer
	start      time.Time
	state      AnalysisState
	extraction *models.ExtractionResult
	log        *zap.Logger
}

func (r *analysisRun) transition(to AnalysisState) {
	r.log.Debug("state transition", zap.String("from", string(r.state)), zap.String("to", string(to)))
	r.state = to
}

// Analyze implements Analyzer. It never panics and never returns nil.
func (o *AnalysisOrchestrator) Analyze(ctx context.Context, doc models.DocumentBuffer) (result *models.AnalysisResult) {
	run := &analysisRun{
		doc:   doc,
		start: time.Now(),
		state: StateIdle,
		log:   o.log.With(zap.String("filename", doc.Filename)),
	}

	defer func() {
		if r := recover(); r != nil {
			run.log.Error("analysis panicked",
				zap.Any("panic", r),
				zap.String("state", string(run.state)),
				zap.ByteString("stack", debug.Stack()))
			result = o.failure(run, &AnalysisError{Code: models.ErrorInternal, Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	run.transition(StateExtracting)
	extraction, err := o.extract(doc)
	run.extraction = extraction
	if err != nil {
		run.transition(StateExtractFailed)
		return o.failure(run, err)
	}
	run.transition(StateExtracted)

	run.transition(StateScoring)
	result, err = o.score(ctx, run)
	if err != nil {
		run.transition(StateFailed)
		return o.failure(run, &AnalysisError{Code: models.ErrorInternal, Err: err})
	}
	run.transition(StateCompleted)

	run.log.Info("analysis completed",
		zap.Int("overall_score", result.OverallScore),
		zap.String("grade", string(result.Grade)),
		zap.String("level", string(result.ExperienceLevel)),
		zap.Int("skills", result.Skills.TotalCount),
		zap.Float64("seconds", result.AnalysisTime))

	return result
}

// extract checks emptiness, size and type in that order, then runs the extractor.
func (o *AnalysisOrchestrator) extract(doc models.DocumentBuffer) (*models.ExtractionResult, error) {
	if len(doc.Data) == 0 {
		return nil, &AnalysisError{Code: models.ErrorExtractionFailed, Err: fmt.Errorf("%w: document is empty", ErrEmptyContent)}
	}
	if o.deps.MaxFileSize > 0 && int64(len(doc.Data)) > o.deps.MaxFileSize {
		return nil, &AnalysisError{
			Code: models.ErrorPayloadTooLarge,
			Err:  fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPayloadTooLarge, len(doc.Data), o.deps.MaxFileSize),
		}
	}
	if err := ValidatePDF(doc); err != nil {
		return nil, &AnalysisError{Code: models.ErrorUnsupportedFileType, Err: err}
	}

	extraction, err := o.deps.Extractor.Extract(doc)
	if err != nil {
		code := ErrorCodeOf(err)
		if code == models.ErrorInternal {
			code = models.ErrorExtractionFailed
		}
		return extraction, &AnalysisError{Code: code, Err: err}
	}
	if extraction == nil || !extraction.Success || extraction.Text == "" {
		return extraction, &AnalysisError{Code: models.ErrorExtractionFailed, Err: fmt.Errorf("%w: no usable text", ErrEmptyContent)}
	}
	return extraction, nil
}

func (o *AnalysisOrchestrator) score(ctx context.Context, run *analysisRun) (*models.AnalysisResult, error) {
	profile, err := o.deps.Profiler.AnalyzeProfile(ctx, run.extraction.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze profile: %w", err)
	}

	skills := profile.Skills
	experience := profile.Experience

	score := o.deps.Scorer.Score(skills.TotalCount, experience.Confidence)
	jobs, suggestions := o.deps.Recommender.Recommend(ctx, skills, experience.Level)
	questions := o.deps.Questions.Generate(skills, experience.Level)

	elapsed := time.Since(run.start).Seconds()

	return &models.AnalysisResult{
		Success:                true,
		Filename:               run.doc.Filename,
		AnalysisTime:           elapsed,
		AnalysisMethod:         profile.Method,
		OverallScore:           score.OverallScore,
		Grade:                  score.Grade,
		ExperienceLevel:        experience.Level,
		ExperienceConfidence:   experience.Confidence,
		Skills:                 o.skillsSummary(skills),
		JobRecommendations:     nonNil(jobs),
		ImprovementSuggestions: nonNil(suggestions),
		InterviewQuestions:     nonNil(questions),
		ScoreBreakdown:         score.Breakdown,
		Feedback:               nonNil(score.Feedback),
		ExtractionInfo: models.ExtractionInfo{
			Method:         run.extraction.Method,
			Success:        true,
			ExtractionTime: elapsed,
			TextLength:     run.extraction.TextLength,
		},
	}, nil
}

// skillsSummary lists every vocabulary category so the envelope keys never vary.
func (o *AnalysisOrchestrator) skillsSummary(skills models.SkillsAnalysis) models.SkillsSummary {
	technical := make(map[string][]string, len(o.deps.Vocabulary.Categories()))
	for _, category := range o.deps.Vocabulary.Categories() {
		technical[category] = nonNil(skills.ByCategory[category])
	}
	for category, found := range skills.ByCategory {
		if _, ok := technical[category]; !ok {
			technical[category] = nonNil(found)
		}
	}

	confidence := skills.Confidence
	if confidence == nil {
		confidence = map[string]float64{}
	}

	return models.SkillsSummary{
		Technical:        technical,
		TotalCount:       skills.TotalCount,
		ConfidenceScores: confidence,
	}
}

// failure builds the zero-valued envelope. Timing fields still report the elapsed time.
func (o *AnalysisOrchestrator) failure(run *analysisRun, err error) *models.AnalysisResult {
	code := ErrorCodeOf(err)
	elapsed := time.Since(run.start).Seconds()

	run.log.Warn("analysis failed",
		zap.String("state", string(run.state)),
		zap.String("error_code", string(code)),
		zap.Error(err))

	method := MethodNone
	if run.extraction != nil && run.extraction.Method != "" {
		method = run.extraction.Method
	}

	return &models.AnalysisResult{
		Success:                false,
		Filename:               run.doc.Filename,
		AnalysisTime:           elapsed,
		AnalysisMethod:         o.deps.Profiler.Name(),
		OverallScore:           0,
		Grade:                  models.GradeF,
		ExperienceLevel:        "",
		ExperienceConfidence:   0,
		Skills:                 o.skillsSummary(models.SkillsAnalysis{}),
		JobRecommendations:     []models.JobRecommendation{},
		ImprovementSuggestions: []models.ImprovementSuggestion{},
		InterviewQuestions:     []models.InterviewQuestion{},
		ScoreBreakdown:         models.ScoreBreakdown{},
		Feedback:               []string{},
		ExtractionInfo: models.ExtractionInfo{
			Method:         method,
			Success:        false,
			ExtractionTime: elapsed,
			TextLength:     0,
		},
		Error:     err.Error(),
		ErrorCode: code,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
