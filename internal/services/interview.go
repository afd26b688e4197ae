package services

import (
	"fmt"

	"alfredoptarigan/resume-analyzer/internal/models"
)

const MaxInterviewQuestions = 8

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// InterviewQuestionGenerator drafts practice questions from the detected skills.
type InterviewQuestionGenerator struct {
	vocab *SkillVocabulary
}

func NewInterviewQuestionGenerator(vocab *SkillVocabulary) *InterviewQuestionGenerator {
	if vocab == nil {
		vocab = DefaultVocabulary
	}
	return &InterviewQuestionGenerator{vocab: vocab}
}

// Generate returns at most MaxInterviewQuestions questions. Output is never nil.
func (g *InterviewQuestionGenerator) Generate(skills models.SkillsAnalysis, level models.ExperienceLevel) []models.InterviewQuestion {
	questions := make([]models.InterviewQuestion, 0, MaxInterviewQuestions)
	add := func(q, category, difficulty string) {
		if len(questions) < MaxInterviewQuestions {
			questions = append(questions, models.InterviewQuestion{Question: q, Category: category, Difficulty: difficulty})
		}
	}

	deep := DifficultyMedium
	if level == models.LevelSenior || level == models.LevelMid {
		deep = DifficultyHard
	}

	if langs := skills.ByCategory[CategoryProgrammingLanguages]; len(langs) > 0 {
		add(fmt.Sprintf("Walk me through a non-trivial project you built in %s. What trade-offs did you make?", langs[0]), "Technical", DifficultyMedium)
		add(fmt.Sprintf("How do you find and fix performance problems in %s code?", langs[0]), "Technical", deep)
	}
	if fw := skills.ByCategory[CategoryFrameworks]; len(fw) > 0 {
		add(fmt.Sprintf("What are the strengths and limits of %s compared to alternatives you know?", fw[0]), "Technical", DifficultyMedium)
	}
	if dbs := skills.ByCategory[CategoryDatabases]; len(dbs) > 0 {
		add(fmt.Sprintf("How would you design and index a schema in %s for a read-heavy workload?", dbs[0]), "Technical", deep)
	}
	if cloud := skills.ByCategory[CategoryCloudPlatforms]; len(cloud) > 0 {
		add(fmt.Sprintf("Describe a deployment you ran on %s. How did you handle scaling and cost?", cloud[0]), "Technical", deep)
	}
	if ops := skills.ByCategory[CategoryDevOps]; len(ops) > 0 {
		add(fmt.Sprintf("How have you used %s in a delivery pipeline?", ops[0]), "Technical", DifficultyMedium)
	}

	add("Tell me about a time you disagreed with a teammate on a technical decision. How was it resolved?", "Behavioral", DifficultyEasy)
	add("Describe a production incident you were involved in and what you changed afterwards.", "Behavioral", DifficultyMedium)

	switch level {
	case models.LevelSenior:
		add("How do you mentor engineers and raise the quality bar of a team?", "Leadership", DifficultyHard)
	case models.LevelEntry, models.LevelJunior:
		add("How do you approach learning a new technology quickly?", "Behavioral", DifficultyEasy)
	default:
		add("How do you break down a large feature into deliverable pieces?", "Behavioral", DifficultyMedium)
	}

	return questions
}
