package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/resume-analyzer/internal/models"
)

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightTechnicalSkills + WeightExperience + WeightContentQuality + WeightCompleteness
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestTechnicalSkillsScoreSaturates(t *testing.T) {
	for total := 0; total <= 40; total++ {
		assert.Equal(t, math.Min(float64(total)/20, 1.0), TechnicalSkillsScore(total), "total=%d", total)
	}
	assert.Equal(t, 0.0, TechnicalSkillsScore(-3))
}

func TestScoreMatchesWeightedFormula(t *testing.T) {
	engine := NewScoreEngine(DefaultQualityInputs())

	for _, total := range []int{0, 1, 3, 7, 12, 20, 35} {
		for _, conf := range []float64{0.5, 0.7, 0.8, 0.9} {
			score := engine.Score(total, conf)
			b := score.Breakdown

			expected := int(math.Round(100 * (0.4*b.TechnicalSkills + 0.3*b.Experience + 0.2*b.ContentQuality + 0.1*b.Completeness)))
			assert.Equal(t, expected, score.OverallScore)
			assert.GreaterOrEqual(t, score.OverallScore, 0)
			assert.LessOrEqual(t, score.OverallScore, 100)
			assert.Equal(t, GradeFor(score.OverallScore), score.Grade)
			assert.NotEqual(t, models.GradeF, score.Grade)
			assert.NotEmpty(t, score.Feedback)
		}
	}
}

func TestScoreKnownValues(t *testing.T) {
	engine := NewScoreEngine(DefaultQualityInputs())

	// 0.4*0.15 + 0.3*0.9 + 0.2*0.8 + 0.1*0.7 = 0.56
	score := engine.Score(3, 0.9)
	assert.Equal(t, 56, score.OverallScore)
	assert.Equal(t, models.GradeC, score.Grade)

	// 0.4 + 0.27 + 0.16 + 0.07 = 0.90
	score = engine.Score(25, 0.9)
	assert.Equal(t, 90, score.OverallScore)
	assert.Equal(t, models.GradeA, score.Grade)
}

func TestGradeThresholds(t *testing.T) {
	tests := []struct {
		score int
		grade models.Grade
	}{
		{100, models.GradeA},
		{80, models.GradeA},
		{79, models.GradeB},
		{60, models.GradeB},
		{59, models.GradeC},
		{40, models.GradeC},
		{39, models.GradeD},
		{0, models.GradeD},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.grade, GradeFor(tt.score), "score=%d", tt.score)
	}
}

func TestQualityInputsAreOverridableAndClamped(t *testing.T) {
	engine := NewScoreEngine(QualityInputs{ContentQuality: 1.5, Completeness: -1})

	assert.Equal(t, QualityInputs{ContentQuality: 1, Completeness: 0}, engine.Inputs())

	score := engine.Score(20, 1)
	assert.Equal(t, 1.0, score.Breakdown.ContentQuality)
	assert.Equal(t, 0.0, score.Breakdown.Completeness)
	assert.Equal(t, 90, score.OverallScore)
	assert.Contains(t, score.Feedback, "Add missing sections such as education, projects or contact details")
}

func TestOverallScoreClamps(t *testing.T) {
	assert.Equal(t, 100, OverallScore(models.ScoreBreakdown{TechnicalSkills: 2, Experience: 2, ContentQuality: 2, Completeness: 2}))
	assert.Equal(t, 0, OverallScore(models.ScoreBreakdown{TechnicalSkills: -1}))
}
