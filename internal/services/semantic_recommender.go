package services

import (
	"context"
	"math"

	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
)

// semanticRecommender ranks indexed job postings by embedding similarity and
// falls back to the template generator when the index is unavailable or empty.
type semanticRecommender struct {
	gemini   GeminiService
	index    JobIndex
	vocab    *SkillVocabulary
	fallback *RecommendationGenerator
	log      *zap.Logger
}

func NewSemanticRecommender(gemini GeminiService, index JobIndex, vocab *SkillVocabulary, log *zap.Logger) Recommender {
	if vocab == nil {
		vocab = DefaultVocabulary
	}
	return &semanticRecommender{
		gemini:   gemini,
		index:    index,
		vocab:    vocab,
		fallback: NewRecommendationGenerator(),
		log:      logger.OrNop(log).Named("semantic_recommender"),
	}
}

// Recommend implements Recommender.
func (s *semanticRecommender) Recommend(ctx context.Context, skills models.SkillsAnalysis, level models.ExperienceLevel) ([]models.JobRecommendation, []models.ImprovementSuggestion) {
	suggestions := s.fallback.ImprovementSuggestions(skills, level)

	jobs, err := s.semanticJobs(ctx, skills, level)
	if err != nil || len(jobs) == 0 {
		if err != nil {
			s.log.Warn("semantic job matching failed, using templates", zap.Error(err))
		}
		return s.fallback.JobRecommendations(skills, level), suggestions
	}

	return jobs, suggestions
}

func (s *semanticRecommender) semanticJobs(ctx context.Context, skills models.SkillsAnalysis, level models.ExperienceLevel) ([]models.JobRecommendation, error) {
	query := SkillsSummaryText(s.vocab, skills, level)

	embedding, err := s.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := s.index.SearchJobPostings(ctx, embedding, MaxJobRecommendations)
	if err != nil {
		return nil, err
	}

	salary := salaryRanges[level]
	jobs := make([]models.JobRecommendation, 0, len(matches))
	for _, m := range matches {
		match := similarityToMatch(m.Score)
		jobSalary := m.Posting.SalaryRange
		if jobSalary == "" {
			jobSalary = salary
		}
		jobs = append(jobs, models.JobRecommendation{
			Title:           m.Posting.Title,
			MatchPercentage: match,
			SalaryRange:     jobSalary,
			Category:        m.Posting.Category,
			MarketDemand:    demandFor(match),
		})
	}

	return jobs, nil
}

// similarityToMatch maps a cosine similarity onto the 0..95 match scale used by the templates.
func similarityToMatch(score float32) int {
	pct := int(math.Round(float64(score) * 100))
	return max(0, min(pct, 95))
}
