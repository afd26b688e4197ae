package services

import (
	"context"
	"fmt"
	"sort"

	"alfredoptarigan/resume-analyzer/internal/models"
)

const (
	MaxJobRecommendations = 5
	MaxSuggestions        = 5

	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Recommender turns a skill profile into job suggestions and improvement advice.
// Implementations never fail; they degrade to template output.
type Recommender interface {
	Recommend(ctx context.Context, skills models.SkillsAnalysis, level models.ExperienceLevel) ([]models.JobRecommendation, []models.ImprovementSuggestion)
}

type role struct {
	key      string
	category string
	titles   map[models.ExperienceLevel]string
	score    func(s models.SkillsAnalysis) int
}

var (
	frontendSkills = []string{"react", "angular", "vue", "svelte", "next.js", "javascript", "typescript"}
	backendSkills  = []string{"python", "java", "golang", "node.js", "express", "django", "flask", "fastapi", "spring", "spring boot", "rails", "laravel", "c#", "php", "ruby", "asp.net", "nestjs"}
	dataSkills     = []string{"python", "sql", "scala", "tensorflow", "pytorch", "machine learning", "matlab"}
	mobileSkills   = []string{"swift", "kotlin", "react native", "flutter"}
)

var roles = []role{
	{
		key:      "software_engineer",
		category: "Software Engineer",
		titles:   levelTitles("Software Engineer"),
		score: func(s models.SkillsAnalysis) int {
			return len(s.ByCategory[CategoryProgrammingLanguages]) * 10
		},
	},
	{
		key:      "frontend_developer",
		category: "Frontend Developer",
		titles:   levelTitles("Frontend Developer"),
		score: func(s models.SkillsAnalysis) int {
			return countAmong(s, frontendSkills, CategoryFrameworks, CategoryProgrammingLanguages) * 15
		},
	},
	{
		key:      "backend_developer",
		category: "Backend Developer",
		titles:   levelTitles("Backend Developer"),
		score: func(s models.SkillsAnalysis) int {
			return countAmong(s, backendSkills, CategoryFrameworks, CategoryProgrammingLanguages) * 15
		},
	},
	{
		key:      "fullstack_developer",
		category: "Full-Stack Developer",
		titles:   levelTitles("Full-Stack Developer"),
		score: func(s models.SkillsAnalysis) int {
			f := countAmong(s, frontendSkills, CategoryFrameworks, CategoryProgrammingLanguages)
			b := countAmong(s, backendSkills, CategoryFrameworks, CategoryProgrammingLanguages)
			if f == 0 || b == 0 {
				return 0
			}
			return (f + b) * 12
		},
	},
	{
		key:      "devops_engineer",
		category: "DevOps Engineer",
		titles: map[models.ExperienceLevel]string{
			models.LevelEntry:  "Junior DevOps Engineer",
			models.LevelJunior: "DevOps Engineer",
			models.LevelMid:    "DevOps Engineer",
			models.LevelSenior: "Senior DevOps Engineer",
		},
		score: func(s models.SkillsAnalysis) int {
			return (len(s.ByCategory[CategoryDevOps]) + len(s.ByCategory[CategoryCloudPlatforms])) * 20
		},
	},
	{
		key:      "data_scientist",
		category: "Data Scientist",
		titles:   levelTitles("Data Scientist"),
		score: func(s models.SkillsAnalysis) int {
			return countAmong(s, dataSkills, CategoryProgrammingLanguages, CategoryFrameworks) * 18
		},
	},
	{
		key:      "mobile_developer",
		category: "Mobile Developer",
		titles:   levelTitles("Mobile Developer"),
		score: func(s models.SkillsAnalysis) int {
			return countAmong(s, mobileSkills, CategoryProgrammingLanguages, CategoryFrameworks) * 18
		},
	},
}

var salaryRanges = map[models.ExperienceLevel]string{
	models.LevelEntry:  "$45,000 - $65,000",
	models.LevelJunior: "$60,000 - $90,000",
	models.LevelMid:    "$90,000 - $130,000",
	models.LevelSenior: "$130,000 - $180,000",
}

func levelTitles(base string) map[models.ExperienceLevel]string {
	return map[models.ExperienceLevel]string{
		models.LevelEntry:  "Entry-Level " + base,
		models.LevelJunior: "Junior " + base,
		models.LevelMid:    base,
		models.LevelSenior: "Senior " + base,
	}
}

func countAmong(s models.SkillsAnalysis, wanted []string, categories ...string) int {
	seen := make(map[string]bool)
	for _, category := range categories {
		for _, skill := range s.ByCategory[category] {
			seen[skill] = true
		}
	}
	n := 0
	for _, skill := range wanted {
		if seen[skill] {
			n++
		}
	}
	return n
}

// RecommendationGenerator is the template-driven Recommender.
type RecommendationGenerator struct{}

func NewRecommendationGenerator() *RecommendationGenerator {
	return &RecommendationGenerator{}
}

// Recommend implements Recommender.
func (g *RecommendationGenerator) Recommend(_ context.Context, skills models.SkillsAnalysis, level models.ExperienceLevel) ([]models.JobRecommendation, []models.ImprovementSuggestion) {
	return g.JobRecommendations(skills, level), g.ImprovementSuggestions(skills, level)
}

// JobRecommendations ranks the role templates by skill overlap and returns the top ones.
func (g *RecommendationGenerator) JobRecommendations(skills models.SkillsAnalysis, level models.ExperienceLevel) []models.JobRecommendation {
	type scored struct {
		role  role
		score int
	}

	var ranked []scored
	for _, r := range roles {
		if score := r.score(skills); score > 0 {
			ranked = append(ranked, scored{role: r, score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) == 0 {
		ranked = append(ranked, scored{role: roles[0], score: 0})
	}
	if len(ranked) > MaxJobRecommendations {
		ranked = ranked[:MaxJobRecommendations]
	}

	salary, ok := salaryRanges[level]
	if !ok {
		salary = salaryRanges[models.LevelEntry]
	}

	recommendations := make([]models.JobRecommendation, 0, len(ranked))
	for _, r := range ranked {
		match := min(r.score+40, 95)
		title, ok := r.role.titles[level]
		if !ok {
			title = r.role.category
		}
		recommendations = append(recommendations, models.JobRecommendation{
			Title:           title,
			MatchPercentage: match,
			SalaryRange:     salary,
			Category:        r.role.category,
			MarketDemand:    demandFor(match),
		})
	}

	return recommendations
}

func demandFor(match int) string {
	if match > 80 {
		return PriorityHigh
	}
	return PriorityMedium
}

// ImprovementSuggestions returns ordered advice. The low-skill-count and Entry Level
// suggestions always come first so the cap never drops them.
func (g *RecommendationGenerator) ImprovementSuggestions(skills models.SkillsAnalysis, level models.ExperienceLevel) []models.ImprovementSuggestion {
	var suggestions []models.ImprovementSuggestion

	if skills.TotalCount < 5 {
		suggestions = append(suggestions, models.ImprovementSuggestion{
			Category:   "Technical Skills",
			Suggestion: "Add more technical skills to strengthen your profile, listing the languages, frameworks and tools you have used",
			Priority:   PriorityHigh,
			Impact:     "Significantly increases job opportunities",
		})
	}

	if level == models.LevelEntry {
		suggestions = append(suggestions, models.ImprovementSuggestion{
			Category:   "Experience",
			Suggestion: "Highlight projects, internships and coursework that show hands-on experience",
			Priority:   PriorityMedium,
			Impact:     "Compensates for limited professional history",
		})
	}

	if len(skills.ByCategory[CategoryCloudPlatforms]) == 0 {
		suggestions = append(suggestions, models.ImprovementSuggestion{
			Category:   "Cloud Skills",
			Suggestion: "Learn cloud platforms like AWS, Azure or Google Cloud",
			Priority:   PriorityHigh,
			Impact:     "Cloud skills are in high demand",
		})
	}

	if len(skills.ByCategory[CategoryDevOps]) == 0 {
		suggestions = append(suggestions, models.ImprovementSuggestion{
			Category:   "DevOps",
			Suggestion: "Gain experience with Docker, CI/CD pipelines or infrastructure as code",
			Priority:   PriorityMedium,
			Impact:     "Essential for modern development workflows",
		})
	}

	if len(skills.ByCategory[CategoryDatabases]) == 0 {
		suggestions = append(suggestions, models.ImprovementSuggestion{
			Category:   "Databases",
			Suggestion: "Mention the databases you have worked with, such as PostgreSQL, MySQL or MongoDB",
			Priority:   PriorityMedium,
			Impact:     "Most backend and full-stack roles expect database experience",
		})
	}

	if level == models.LevelSenior {
		suggestions = append(suggestions, models.ImprovementSuggestion{
			Category:   "Leadership",
			Suggestion: "Describe team size, mentoring and architectural decisions you owned",
			Priority:   PriorityMedium,
			Impact:     "Senior roles are screened for scope and ownership",
		})
	}

	suggestions = append(suggestions, models.ImprovementSuggestion{
		Category:   "Format",
		Suggestion: "Use standard section headers and keywords from job descriptions so applicant tracking systems parse your resume",
		Priority:   PriorityLow,
		Impact:     "Improves visibility in automated screening",
	})

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}

	return suggestions
}

// SkillsSummaryText renders the detected skills as one line, for prompts and embeddings.
func SkillsSummaryText(vocab *SkillVocabulary, skills models.SkillsAnalysis, level models.ExperienceLevel) string {
	text := fmt.Sprintf("%s candidate.", level)
	for _, category := range vocab.Categories() {
		found := skills.ByCategory[category]
		if len(found) == 0 {
			continue
		}
		text += fmt.Sprintf(" %s: %v.", category, found)
	}
	return text
}
