package services

import (
	"slices"
	"strings"
)

const (
	CategoryProgrammingLanguages = "programming_languages"
	CategoryFrameworks           = "frameworks"
	CategoryDatabases            = "databases"
	CategoryCloudPlatforms       = "cloud_platforms"
	CategoryDevOps               = "devops"
	CategoryTools                = "tools"
)

// SkillVocabulary maps a category to its lowercase canonical skill tokens.
// It is built once and only read afterwards.
type SkillVocabulary struct {
	categories []string
	skills     map[string][]string
	index      map[string][]string // skill -> categories containing it
}

// NewSkillVocabulary normalizes the entries to lowercase and drops duplicates within a category.
// Category order is the order of the categories slice.
func NewSkillVocabulary(categories []string, skills map[string][]string) *SkillVocabulary {
	v := &SkillVocabulary{
		skills: make(map[string][]string, len(categories)),
		index:  make(map[string][]string),
	}

	for _, category := range categories {
		if _, seen := v.skills[category]; seen {
			continue
		}
		v.categories = append(v.categories, category)

		var normalized []string
		for _, skill := range skills[category] {
			skill = normalizeSkill(skill)
			if skill == "" || slices.Contains(normalized, skill) {
				continue
			}
			normalized = append(normalized, skill)
			v.index[skill] = append(v.index[skill], category)
		}
		v.skills[category] = normalized
	}

	return v
}

// Categories returns the category names in their defined order.
func (v *SkillVocabulary) Categories() []string {
	return slices.Clone(v.categories)
}

// Skills returns the canonical tokens of one category.
func (v *SkillVocabulary) Skills(category string) []string {
	return slices.Clone(v.skills[category])
}

// CategoriesOf returns every category that lists skill.
func (v *SkillVocabulary) CategoriesOf(skill string) []string {
	return slices.Clone(v.index[normalizeSkill(skill)])
}

// Size is the number of distinct skills.
func (v *SkillVocabulary) Size() int {
	return len(v.index)
}

// Map returns a copy of the whole table.
func (v *SkillVocabulary) Map() map[string][]string {
	out := make(map[string][]string, len(v.skills))
	for category, skills := range v.skills {
		out[category] = slices.Clone(skills)
	}
	return out
}

func normalizeSkill(skill string) string {
	return strings.Join(strings.Fields(strings.ToLower(skill)), " ")
}

// DefaultVocabulary is the process-wide skill catalog.
var DefaultVocabulary = NewSkillVocabulary(
	[]string{
		CategoryProgrammingLanguages,
		CategoryFrameworks,
		CategoryDatabases,
		CategoryCloudPlatforms,
		CategoryDevOps,
		CategoryTools,
	},
	map[string][]string{
		CategoryProgrammingLanguages: {
			"python", "javascript", "typescript", "java", "c++", "c#", "php", "ruby", "golang",
			"rust", "swift", "kotlin", "scala", "perl", "matlab", "sql", "bash",
		},
		CategoryFrameworks: {
			"react", "angular", "vue", "svelte", "next.js", "node.js", "express", "django", "flask",
			"fastapi", "spring", "spring boot", "laravel", "rails", "ruby on rails", "asp.net", "nestjs",
			"react native", "flutter", "tensorflow", "pytorch", "machine learning",
		},
		CategoryDatabases: {
			"mysql", "postgresql", "postgres", "mongodb", "redis", "sqlite", "oracle", "sql server",
			"cassandra", "elasticsearch", "dynamodb",
		},
		CategoryCloudPlatforms: {
			"aws", "azure", "gcp", "google cloud", "heroku", "digitalocean", "vercel", "netlify",
			"firebase",
		},
		CategoryDevOps: {
			"docker", "kubernetes", "k8s", "jenkins", "terraform", "ansible", "ci/cd",
			"github actions", "gitlab ci", "helm", "prometheus",
		},
		CategoryTools: {
			"git", "github", "gitlab", "jira", "confluence", "figma", "postman", "webpack", "vite",
			"vscode", "intellij",
		},
	},
)
