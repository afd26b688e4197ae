package services

import (
	"regexp"
	"strconv"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/models"
)

const (
	SeniorYearsThreshold = 8
	MidYearsThreshold    = 5
	JuniorYearsThreshold = 2

	SeniorConfidence  = 0.9
	MidConfidence     = 0.8
	JuniorConfidence  = 0.7
	DefaultConfidence = 0.5

	// mentions above this are treated as dates or noise, not tenure
	maxYearsPerMention = 50
)

var (
	yearsPattern = regexp.MustCompile(`\b(\d{1,3})\s*\+?\s*(?:years?|yrs?)\b`)

	seniorKeywords = regexp.MustCompile(`\b(?:senior|lead|principal|architect)\b`)
	midKeywords    = regexp.MustCompile(`\b(?:mid-level|intermediate|experienced)\b`)
	juniorKeywords = regexp.MustCompile(`\b(?:junior|entry|associate)\b`)
)

// ExperienceClassifier infers seniority from year counts and role keywords. It never fails;
// with no evidence it returns Entry Level at DefaultConfidence.
type ExperienceClassifier struct{}

func NewExperienceClassifier() *ExperienceClassifier {
	return &ExperienceClassifier{}
}

// Classify applies, in order: summed explicit years (8/5/2 thresholds), then seniority
// keywords, then the Entry Level default.
func (c *ExperienceClassifier) Classify(text string) models.ExperienceAssessment {
	lower := strings.ToLower(text)
	years := SumYearsOfExperience(lower)

	switch {
	case years >= SeniorYearsThreshold:
		return models.ExperienceAssessment{Level: models.LevelSenior, Confidence: SeniorConfidence, YearsFound: years}
	case years >= MidYearsThreshold:
		return models.ExperienceAssessment{Level: models.LevelMid, Confidence: MidConfidence, YearsFound: years}
	case years >= JuniorYearsThreshold:
		return models.ExperienceAssessment{Level: models.LevelJunior, Confidence: JuniorConfidence, YearsFound: years}
	}

	assessment := classifyByKeywords(lower)
	assessment.YearsFound = years
	return assessment
}

// SumYearsOfExperience adds up every "<n> years"/"<n> yrs" mention. Multiple mentions are
// summed, not maxed, so two jobs of 5 and 2 years count as 7.
func SumYearsOfExperience(lower string) int {
	total := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(lower, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 || n > maxYearsPerMention {
			continue
		}
		total += n
	}
	return total
}

func classifyByKeywords(lower string) models.ExperienceAssessment {
	switch {
	case seniorKeywords.MatchString(lower):
		return models.ExperienceAssessment{Level: models.LevelSenior, Confidence: SeniorConfidence}
	case midKeywords.MatchString(lower):
		return models.ExperienceAssessment{Level: models.LevelMid, Confidence: MidConfidence}
	case juniorKeywords.MatchString(lower):
		return models.ExperienceAssessment{Level: models.LevelJunior, Confidence: JuniorConfidence}
	default:
		return models.ExperienceAssessment{Level: models.LevelEntry, Confidence: DefaultConfidence}
	}
}
