package services

import (
	"fmt"
	"math"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// Weights of the four score dimensions. They sum to 1.0.
const (
	WeightTechnicalSkills = 0.4
	WeightExperience      = 0.3
	WeightContentQuality  = 0.2
	WeightCompleteness    = 0.1

	// SkillSaturation is the distinct skill count that maxes out the technical dimension.
	SkillSaturation = 20

	DefaultContentQuality = 0.8
	DefaultCompleteness   = 0.7
)

// QualityInputs are the two dimensions the pipeline does not measure yet.
type QualityInputs struct {
	ContentQuality float64
	Completeness   float64
}

func DefaultQualityInputs() QualityInputs {
	return QualityInputs{
		ContentQuality: DefaultContentQuality,
		Completeness:   DefaultCompleteness,
	}
}

type ScoreEngine struct {
	inputs QualityInputs
}

func NewScoreEngine(inputs QualityInputs) *ScoreEngine {
	return &ScoreEngine{
		inputs: QualityInputs{
			ContentQuality: clampUnit(inputs.ContentQuality),
			Completeness:   clampUnit(inputs.Completeness),
		},
	}
}

func (s *ScoreEngine) Inputs() QualityInputs {
	return s.inputs
}

// Score combines the skill count and experience confidence with the quality inputs.
func (s *ScoreEngine) Score(totalSkills int, experienceConfidence float64) models.Score {
	breakdown := models.ScoreBreakdown{
		TechnicalSkills: TechnicalSkillsScore(totalSkills),
		Experience:      clampUnit(experienceConfidence),
		ContentQuality:  s.inputs.ContentQuality,
		Completeness:    s.inputs.Completeness,
	}

	overall := OverallScore(breakdown)

	return models.Score{
		Breakdown:    breakdown,
		OverallScore: overall,
		Grade:        GradeFor(overall),
		Feedback:     buildFeedback(totalSkills, breakdown),
	}
}

// TechnicalSkillsScore is min(total/20, 1).
func TechnicalSkillsScore(totalSkills int) float64 {
	if totalSkills <= 0 {
		return 0
	}
	return math.Min(float64(totalSkills)/SkillSaturation, 1.0)
}

// WeightedSum is Σ weight_i * breakdown_i.
func WeightedSum(b models.ScoreBreakdown) float64 {
	return WeightTechnicalSkills*b.TechnicalSkills +
		WeightExperience*b.Experience +
		WeightContentQuality*b.ContentQuality +
		WeightCompleteness*b.Completeness
}

// OverallScore is round(100 * WeightedSum), clamped to [0,100].
func OverallScore(b models.ScoreBreakdown) int {
	score := int(math.Round(100 * WeightedSum(b)))
	return max(0, min(score, 100))
}

// GradeFor maps a successful score to A-D. F is reserved for failed analyses.
func GradeFor(score int) models.Grade {
	switch {
	case score >= 80:
		return models.GradeA
	case score >= 60:
		return models.GradeB
	case score >= 40:
		return models.GradeC
	default:
		return models.GradeD
	}
}

func buildFeedback(totalSkills int, b models.ScoreBreakdown) []string {
	var feedback []string

	switch {
	case totalSkills >= 10:
		feedback = append(feedback, fmt.Sprintf("Excellent technical skill diversity (%d skills detected)", totalSkills))
	case totalSkills >= 5:
		feedback = append(feedback, fmt.Sprintf("Good technical skills (%d skills detected)", totalSkills))
	default:
		feedback = append(feedback, "Consider adding more technical skills")
	}

	switch {
	case b.Experience >= SeniorConfidence:
		feedback = append(feedback, "Strong evidence of professional experience")
	case b.Experience >= JuniorConfidence:
		feedback = append(feedback, "Clear experience signals")
	default:
		feedback = append(feedback, "State your years of experience and role titles explicitly")
	}

	if b.ContentQuality < DefaultContentQuality {
		feedback = append(feedback, "Strengthen content with quantifiable achievements")
	}
	if b.Completeness < DefaultCompleteness {
		feedback = append(feedback, "Add missing sections such as education, projects or contact details")
	}

	return feedback
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(v, 1))
}
