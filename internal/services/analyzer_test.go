package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-analyzer/internal/models"
)

func TestKeywordAnalyzer(t *testing.T) {
	a := NewKeywordAnalyzer(nil)

	profile, err := a.AnalyzeProfile(context.Background(), "Senior engineer: python, react, docker")

	require.NoError(t, err)
	assert.Equal(t, AnalyzerKeyword, a.Name())
	assert.Equal(t, MethodKeywordMatching, profile.Method)
	assert.Equal(t, 3, profile.Skills.TotalCount)
	assert.Equal(t, models.LevelSenior, profile.Experience.Level)
}

func TestGeminiAnalyzerFiltersToVocabulary(t *testing.T) {
	gemini := &fakeGemini{text: "```json\n" + `{
		"skills": {
			"programming_languages": ["Python", "python", "COBOL"],
			"frameworks": ["React", "docker"],
			"devops": ["Docker"],
			"made_up": ["python"]
		},
		"total_years_experience": 6,
		"experience_level": "Senior",
		"confidence": 0.95
	}` + "\n```"}
	a := NewGeminiAnalyzer(gemini, nil, 3, nil)

	profile, err := a.AnalyzeProfile(context.Background(), "resume text")

	require.NoError(t, err)
	assert.Equal(t, MethodGeminiProfile, profile.Method)
	assert.Equal(t, []string{"python"}, profile.Skills.ByCategory[CategoryProgrammingLanguages])
	assert.Equal(t, []string{"react"}, profile.Skills.ByCategory[CategoryFrameworks])
	assert.Equal(t, []string{"docker"}, profile.Skills.ByCategory[CategoryDevOps])
	assert.NotContains(t, profile.Skills.ByCategory, "made_up")
	assert.Equal(t, 3, profile.Skills.TotalCount)
	assert.Equal(t, 1.0, profile.Skills.Confidence["python"])

	// years win over the stated level
	assert.Equal(t, models.LevelMid, profile.Experience.Level)
	assert.Equal(t, MidConfidence, profile.Experience.Confidence)
	assert.Equal(t, 6, profile.Experience.YearsFound)
}

func TestGeminiAnalyzerUsesLevelWithoutYears(t *testing.T) {
	gemini := &fakeGemini{text: `{"skills": {}, "total_years_experience": 0, "experience_level": "junior", "confidence": 0.65}`}
	a := NewGeminiAnalyzer(gemini, nil, 1, nil)

	profile, err := a.AnalyzeProfile(context.Background(), "resume text")

	require.NoError(t, err)
	assert.Equal(t, models.LevelJunior, profile.Experience.Level)
	assert.Equal(t, 0.65, profile.Experience.Confidence)
	for _, category := range DefaultVocabulary.Categories() {
		assert.NotNil(t, profile.Skills.ByCategory[category])
	}
}

func TestGeminiAnalyzerInvalidLevelUsesClassifier(t *testing.T) {
	gemini := &fakeGemini{text: `{"skills": {}, "experience_level": "wizard"}`}
	a := NewGeminiAnalyzer(gemini, nil, 1, nil)

	profile, err := a.AnalyzeProfile(context.Background(), "principal engineer")

	require.NoError(t, err)
	assert.Equal(t, models.LevelSenior, profile.Experience.Level)
	assert.Equal(t, SeniorConfidence, profile.Experience.Confidence)
}

func TestGeminiAnalyzerFallsBackToKeywords(t *testing.T) {
	tests := []struct {
		name   string
		gemini *fakeGemini
	}{
		{name: "api error", gemini: &fakeGemini{textErr: errors.New("rate limited")}},
		{name: "not json", gemini: &fakeGemini{text: "I cannot help with that."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewGeminiAnalyzer(tt.gemini, nil, 2, nil)

			profile, err := a.AnalyzeProfile(context.Background(), "junior developer: python, react")

			require.NoError(t, err)
			assert.Equal(t, MethodKeywordMatching, profile.Method)
			assert.Equal(t, 2, profile.Skills.TotalCount)
			assert.Equal(t, models.LevelJunior, profile.Experience.Level)
		})
	}
}

func TestNewProfileAnalyzerSelection(t *testing.T) {
	assert.Equal(t, AnalyzerKeyword, NewProfileAnalyzer("keyword", &fakeGemini{}, nil, 1, nil).Name())
	assert.Equal(t, AnalyzerGemini, NewProfileAnalyzer("gemini", &fakeGemini{}, nil, 1, nil).Name())
	assert.Equal(t, AnalyzerKeyword, NewProfileAnalyzer("gemini", nil, nil, 1, nil).Name())
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("Sure! ```json\n{\"a\":1}\n``` hope that helps"))
	assert.Equal(t, `[1,2]`, extractJSON("result: [1,2]"))
	assert.Equal(t, "plain", extractJSON("plain"))
}

func TestGeminiAnalyzerKeepsSkillsOnlyInOwningCategory(t *testing.T) {
	vocab := NewSkillVocabulary(
		[]string{CategoryProgrammingLanguages, CategoryDatabases},
		map[string][]string{
			CategoryProgrammingLanguages: {"sql", "python"},
			CategoryDatabases:            {"sql", "redis"},
		},
	)
	gemini := &fakeGemini{text: `{"skills": {"programming_languages": ["SQL", "redis"], "databases": ["sql", "Redis"]}}`}
	a := NewGeminiAnalyzer(gemini, vocab, 1, nil)

	profile, err := a.AnalyzeProfile(context.Background(), "resume text")

	require.NoError(t, err)
	assert.Equal(t, []string{"sql"}, profile.Skills.ByCategory[CategoryProgrammingLanguages])
	assert.Equal(t, []string{"sql", "redis"}, profile.Skills.ByCategory[CategoryDatabases])
	assert.Equal(t, 3, profile.Skills.TotalCount)
}
