package services

import (
	"sort"
	"strings"
	"unicode"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// DetectedSkillConfidence is attached to every exact vocabulary match.
const DetectedSkillConfidence = 1.0

// tokenTrimSet is stripped from both ends of a whitespace token before lookup.
const tokenTrimSet = `,;:()[]{}"'!?|*•`

// SkillDetector matches text against a SkillVocabulary. Single-word skills are matched by
// exact token equality, multi-word skills by phrase containment on word boundaries.
type SkillDetector struct {
	vocab *SkillVocabulary
}

func NewSkillDetector(vocab *SkillVocabulary) *SkillDetector {
	if vocab == nil {
		vocab = DefaultVocabulary
	}
	return &SkillDetector{vocab: vocab}
}

type skillHit struct {
	skill  string
	offset int
}

// Detect returns the skills found in text. Every category of the vocabulary is present in
// ByCategory, possibly with an empty list.
func (d *SkillDetector) Detect(text string) models.SkillsAnalysis {
	normalized := normalizeSkill(text)
	first := firstTokenOffsets(normalized)

	analysis := models.SkillsAnalysis{
		ByCategory: make(map[string][]string, len(d.vocab.categories)),
		Confidence: make(map[string]float64),
	}

	for _, category := range d.vocab.categories {
		var hits []skillHit

		for _, skill := range d.vocab.skills[category] {
			offset := -1
			if strings.Contains(skill, " ") {
				offset = phraseOffset(normalized, skill)
			} else if o, ok := first[skill]; ok {
				offset = o
			}
			if offset >= 0 {
				hits = append(hits, skillHit{skill: skill, offset: offset})
			}
		}

		sort.SliceStable(hits, func(i, j int) bool { return hits[i].offset < hits[j].offset })

		found := make([]string, 0, len(hits))
		for _, h := range hits {
			found = append(found, h.skill)
			analysis.Confidence[h.skill] = DetectedSkillConfidence
		}

		analysis.ByCategory[category] = found
		analysis.TotalCount += len(found)
	}

	return analysis
}

// firstTokenOffsets maps each trimmed token to the byte offset of its first occurrence.
func firstTokenOffsets(normalized string) map[string]int {
	offsets := make(map[string]int)
	pos := 0
	for _, raw := range strings.Split(normalized, " ") {
		token := strings.TrimRight(strings.Trim(raw, tokenTrimSet), ".")
		token = strings.Trim(token, tokenTrimSet)
		if token != "" {
			if _, seen := offsets[token]; !seen {
				offsets[token] = pos
			}
		}
		pos += len(raw) + 1
	}
	return offsets
}

// phraseOffset finds phrase in text where it is not glued to surrounding letters or digits.
func phraseOffset(text, phrase string) int {
	from := 0
	for from <= len(text)-len(phrase) {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(phrase)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return start
		}
		from = start + 1
	}
	return -1
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r := rune(text[i-1])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r := rune(text[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
