package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
)

const (
	AnalyzerKeyword = "keyword"
	AnalyzerGemini  = "gemini"

	MethodKeywordMatching = "keyword_matching"
	MethodGeminiProfile   = "gemini_profile"

	profileTemperature = 0.1
)

// ProfileAnalyzer derives skills and seniority from extracted resume text.
type ProfileAnalyzer interface {
	Name() string
	AnalyzeProfile(ctx context.Context, text string) (models.Profile, error)
}

type keywordAnalyzer struct {
	detector   *SkillDetector
	classifier *ExperienceClassifier
}

func NewKeywordAnalyzer(vocab *SkillVocabulary) ProfileAnalyzer {
	return &keywordAnalyzer{
		detector:   NewSkillDetector(vocab),
		classifier: NewExperienceClassifier(),
	}
}

// Name implements ProfileAnalyzer.
func (k *keywordAnalyzer) Name() string {
	return AnalyzerKeyword
}

// AnalyzeProfile implements ProfileAnalyzer. It never fails.
func (k *keywordAnalyzer) AnalyzeProfile(_ context.Context, text string) (models.Profile, error) {
	return models.Profile{
		Skills:     k.detector.Detect(text),
		Experience: k.classifier.Classify(text),
		Method:     MethodKeywordMatching,
	}, nil
}

type geminiAnalyzer struct {
	gemini     GeminiService
	vocab      *SkillVocabulary
	prompts    *PromptBuilder
	fallback   ProfileAnalyzer
	maxRetries int
	log        *zap.Logger
}

func NewGeminiAnalyzer(gemini GeminiService, vocab *SkillVocabulary, maxRetries int, log *zap.Logger) ProfileAnalyzer {
	if vocab == nil {
		vocab = DefaultVocabulary
	}
	return &geminiAnalyzer{
		gemini:     gemini,
		vocab:      vocab,
		prompts:    NewPromptBuilder(),
		fallback:   NewKeywordAnalyzer(vocab),
		maxRetries: maxRetries,
		log:        logger.OrNop(log).Named("gemini_analyzer"),
	}
}

// Name implements ProfileAnalyzer.
func (g *geminiAnalyzer) Name() string {
	return AnalyzerGemini
}

// AnalyzeProfile implements ProfileAnalyzer. Any model failure degrades to keyword matching.
func (g *geminiAnalyzer) AnalyzeProfile(ctx context.Context, text string) (models.Profile, error) {
	profile, err := g.analyze(ctx, text)
	if err != nil {
		g.log.Warn("gemini profile failed, falling back to keyword matching", zap.Error(err))
		return g.fallback.AnalyzeProfile(ctx, text)
	}
	return profile, nil
}

type geminiProfile struct {
	Skills          map[string][]string `json:"skills"`
	TotalYears      int                 `json:"total_years_experience"`
	ExperienceLevel string              `json:"experience_level"`
	Confidence      float64             `json:"confidence"`
}

func (g *geminiAnalyzer) analyze(ctx context.Context, text string) (models.Profile, error) {
	prompt := g.prompts.BuildProfilePrompt(text, g.vocab)
	g.log.Debug("requesting profile", zap.String("prompt", logger.TruncateForLog(prompt, 300)))

	response, err := g.gemini.GenerateTextWithRetry(ctx, prompt, profileTemperature, g.maxRetries)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to generate profile: %w", err)
	}

	var raw geminiProfile
	if err := json.Unmarshal([]byte(extractJSON(response)), &raw); err != nil {
		return models.Profile{}, fmt.Errorf("failed to parse profile response: %w", err)
	}

	return models.Profile{
		Skills:     g.filterSkills(raw.Skills),
		Experience: g.experienceFrom(raw, text),
		Method:     MethodGeminiProfile,
	}, nil
}

// filterSkills keeps only vocabulary skills listed under a category that owns them.
func (g *geminiAnalyzer) filterSkills(proposed map[string][]string) models.SkillsAnalysis {
	analysis := models.SkillsAnalysis{
		ByCategory: make(map[string][]string),
		Confidence: make(map[string]float64),
	}

	for _, category := range g.vocab.Categories() {
		found := make([]string, 0)
		seen := make(map[string]bool)
		for _, s := range proposed[category] {
			skill := normalizeSkill(s)
			if seen[skill] || !slices.Contains(g.vocab.CategoriesOf(skill), category) {
				continue
			}
			seen[skill] = true
			found = append(found, skill)
			analysis.Confidence[skill] = DetectedSkillConfidence
		}

		analysis.ByCategory[category] = found
		analysis.TotalCount += len(found)
	}

	return analysis
}

// experienceFrom trusts the model's year count first, then a valid level, then the keyword classifier.
func (g *geminiAnalyzer) experienceFrom(raw geminiProfile, text string) models.ExperienceAssessment {
	years := raw.TotalYears
	switch {
	case years >= SeniorYearsThreshold:
		return models.ExperienceAssessment{Level: models.LevelSenior, Confidence: SeniorConfidence, YearsFound: years}
	case years >= MidYearsThreshold:
		return models.ExperienceAssessment{Level: models.LevelMid, Confidence: MidConfidence, YearsFound: years}
	case years >= JuniorYearsThreshold:
		return models.ExperienceAssessment{Level: models.LevelJunior, Confidence: JuniorConfidence, YearsFound: years}
	}

	level := parseLevel(raw.ExperienceLevel)
	if level.Rank() < 0 {
		return NewExperienceClassifier().Classify(text)
	}

	confidence := clampUnit(raw.Confidence)
	if confidence == 0 {
		confidence = DefaultConfidence
	}
	return models.ExperienceAssessment{Level: level, Confidence: confidence, YearsFound: max(years, 0)}
}

func parseLevel(s string) models.ExperienceLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entry level", "entry", "entry-level":
		return models.LevelEntry
	case "junior":
		return models.LevelJunior
	case "mid", "mid-level", "intermediate":
		return models.LevelMid
	case "senior":
		return models.LevelSenior
	default:
		return models.ExperienceLevel(s)
	}
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}

// NewProfileAnalyzer picks the analyzer named by ANALYZER. Gemini without a client degrades to keyword.
func NewProfileAnalyzer(name string, gemini GeminiService, vocab *SkillVocabulary, maxRetries int, log *zap.Logger) ProfileAnalyzer {
	if name == AnalyzerGemini && gemini != nil {
		return NewGeminiAnalyzer(gemini, vocab, maxRetries, log)
	}
	return NewKeywordAnalyzer(vocab)
}
