package services

import (
	"fmt"
	"strings"
)

// maxPromptResumeChars bounds the resume text sent to the model.
const maxPromptResumeChars = 20000

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildProfilePrompt asks the model to pick skills from the vocabulary and estimate seniority.
func (pb *PromptBuilder) BuildProfilePrompt(resumeText string, vocab *SkillVocabulary) string {
	if len(resumeText) > maxPromptResumeChars {
		resumeText = resumeText[:maxPromptResumeChars]
	}

	return fmt.Sprintf(`You are an expert technical recruiter reading a candidate's resume.

ALLOWED SKILLS BY CATEGORY:
%s

CANDIDATE RESUME:
%s

Your task is to list the technical skills the candidate actually demonstrates and estimate their seniority.

Rules:
1. Only use skills from the allowed list, spelled exactly as listed, under their listed category.
2. Ignore skills that are mentioned only as things the candidate wants to learn.
3. total_years_experience is the sum of professional experience in years, 0 if unknown.
4. experience_level must be one of: "Entry Level", "Junior", "Mid", "Senior".
5. confidence is a number between 0 and 1.

Return your response in the following JSON format:
{
  "skills": {"<category>": ["<skill>", ...]},
  "total_years_experience": <integer>,
  "experience_level": "<level>",
  "confidence": <0-1>
}`, FormatVocabulary(vocab), resumeText)
}

// FormatVocabulary renders the vocabulary one category per line.
func FormatVocabulary(vocab *SkillVocabulary) string {
	var lines []string
	for _, category := range vocab.Categories() {
		lines = append(lines, fmt.Sprintf("- %s: %s", category, strings.Join(vocab.Skills(category), ", ")))
	}
	return strings.Join(lines, "\n")
}

// BuildJobPostingText is the text embedded for a job posting at ingest time.
func (pb *PromptBuilder) BuildJobPostingText(title, category, description string) string {
	return fmt.Sprintf("%s (%s)\n%s", title, category, strings.TrimSpace(description))
}
