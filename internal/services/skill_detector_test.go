package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectThreeSkillsInTheirCategories(t *testing.T) {
	d := NewSkillDetector(nil)

	skills := d.Detect("I use Python, React and Docker daily.")

	assert.Equal(t, 3, skills.TotalCount)
	assert.Equal(t, []string{"python"}, skills.ByCategory[CategoryProgrammingLanguages])
	assert.Equal(t, []string{"react"}, skills.ByCategory[CategoryFrameworks])
	assert.Equal(t, []string{"docker"}, skills.ByCategory[CategoryDevOps])
	for _, skill := range []string{"python", "react", "docker"} {
		assert.Equal(t, DetectedSkillConfidence, skills.Confidence[skill])
	}
}

func TestDetectListsEveryCategory(t *testing.T) {
	d := NewSkillDetector(nil)

	skills := d.Detect("nothing relevant here")

	assert.Zero(t, skills.TotalCount)
	for _, category := range DefaultVocabulary.Categories() {
		found, ok := skills.ByCategory[category]
		require.True(t, ok, "category %s missing", category)
		assert.NotNil(t, found)
		assert.Empty(t, found)
	}
}

func TestDetectMultiWordSkills(t *testing.T) {
	d := NewSkillDetector(nil)

	skills := d.Detect("Built pipelines with GitHub Actions on Google Cloud, data in SQL Server.")

	assert.Contains(t, skills.ByCategory[CategoryDevOps], "github actions")
	assert.Contains(t, skills.ByCategory[CategoryCloudPlatforms], "google cloud")
	assert.Contains(t, skills.ByCategory[CategoryDatabases], "sql server")
}

func TestDetectRequiresWordBoundaries(t *testing.T) {
	d := NewSkillDetector(nil)

	skills := d.Detect("javascripting gopher reactive dockerfile")

	assert.Zero(t, skills.TotalCount)
}

func TestDetectDeduplicatesAndKeepsFirstOrder(t *testing.T) {
	d := NewSkillDetector(nil)

	skills := d.Detect("Rust then Java then Python then rust again and java again")

	assert.Equal(t, []string{"rust", "java", "python"}, skills.ByCategory[CategoryProgrammingLanguages])
	assert.Equal(t, 3, skills.TotalCount)
}

func TestDetectIsCaseInsensitive(t *testing.T) {
	d := NewSkillDetector(nil)

	assert.Equal(t, d.Detect("POSTGRESQL and KUBERNETES"), d.Detect("postgresql and kubernetes"))
}

func TestDetectIsIdempotent(t *testing.T) {
	d := NewSkillDetector(nil)
	text := "Go developer (golang), node.js, Express, MongoDB, Redis, AWS, Terraform, Jira, ci/cd"

	first := d.Detect(text)
	second := d.Detect(text)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"node.js", "express"}, first.ByCategory[CategoryFrameworks])
	assert.Contains(t, first.ByCategory[CategoryDevOps], "ci/cd")
}

func TestDetectTotalIsSumOfCategories(t *testing.T) {
	d := NewSkillDetector(nil)

	skills := d.Detect("python java react django mysql redis aws docker kubernetes git")

	sum := 0
	for _, found := range skills.ByCategory {
		sum += len(found)
	}
	assert.Equal(t, sum, skills.TotalCount)
	assert.Equal(t, 10, skills.TotalCount)
}

func TestDetectWithCustomVocabulary(t *testing.T) {
	vocab := NewSkillVocabulary([]string{"langs"}, map[string][]string{"langs": {"Elixir", "elixir", " OCaml "}})
	d := NewSkillDetector(vocab)

	skills := d.Detect("OCaml and Elixir")

	assert.Equal(t, []string{"ocaml", "elixir"}, skills.ByCategory["langs"])
	assert.Equal(t, 2, vocab.Size())
}

func TestDetectCountsPhrasePartsSeparately(t *testing.T) {
	d := NewSkillDetector(nil)

	skills := d.Detect("Spring Boot, SQL Server, Ruby on Rails")

	// phrase matches do not consume their single-word tokens
	assert.Equal(t, 7, skills.TotalCount)
	assert.ElementsMatch(t, []string{"spring", "spring boot", "ruby on rails", "rails"}, skills.ByCategory[CategoryFrameworks])
	assert.ElementsMatch(t, []string{"sql", "ruby"}, skills.ByCategory[CategoryProgrammingLanguages])
	assert.Equal(t, []string{"sql server"}, skills.ByCategory[CategoryDatabases])
}
