package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/resume-analyzer/internal/models"
)

func TestInterviewQuestionsUsePrimarySkills(t *testing.T) {
	g := NewInterviewQuestionGenerator(nil)
	skills := NewSkillDetector(nil).Detect("golang python react postgresql aws docker")

	questions := g.Generate(skills, models.LevelSenior)

	assert.Len(t, questions, MaxInterviewQuestions)
	assert.Contains(t, questions[0].Question, "golang")
	assert.Equal(t, DifficultyHard, questions[1].Difficulty)
	for _, q := range questions {
		assert.NotEmpty(t, q.Question)
		assert.NotEmpty(t, q.Category)
	}
}

func TestInterviewQuestionsWithoutSkills(t *testing.T) {
	g := NewInterviewQuestionGenerator(nil)

	questions := g.Generate(NewSkillDetector(nil).Detect(""), models.LevelEntry)

	assert.NotNil(t, questions)
	assert.Len(t, questions, 3)
	for _, q := range questions {
		assert.NotEqual(t, "Technical", q.Category)
	}
}
