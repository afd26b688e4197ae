package models

import "time"

// DocumentBuffer is one uploaded document. The caller owns Data; the extractor only borrows it.
type DocumentBuffer struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ExtractionResult is the outcome of turning a document into plain text.
// When Success is false Text is empty.
type ExtractionResult struct {
	Text       string
	Method     string
	Success    bool
	Elapsed    time.Duration
	TextLength int
	PageCount  int
}

// SkillsAnalysis holds detected skills per category in first-encountered order.
type SkillsAnalysis struct {
	ByCategory map[string][]string
	TotalCount int
	Confidence map[string]float64
}

// ExperienceLevel is the inferred seniority.
type ExperienceLevel string

const (
	LevelEntry  ExperienceLevel = "Entry Level"
	LevelJunior ExperienceLevel = "Junior"
	LevelMid    ExperienceLevel = "Mid"
	LevelSenior ExperienceLevel = "Senior"
)

// Rank orders levels from Entry (0) to Senior (3). Unknown levels rank below Entry.
func (l ExperienceLevel) Rank() int {
	switch l {
	case LevelEntry:
		return 0
	case LevelJunior:
		return 1
	case LevelMid:
		return 2
	case LevelSenior:
		return 3
	default:
		return -1
	}
}

type ExperienceAssessment struct {
	Level      ExperienceLevel
	Confidence float64
	YearsFound int
}

// Profile is what a ProfileAnalyzer derives from resume text. Method names the analyzer
// that actually produced it, which differs from the configured one after a fallback.
type Profile struct {
	Skills     SkillsAnalysis
	Experience ExperienceAssessment
	Method     string
}

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

type ScoreBreakdown struct {
	TechnicalSkills float64 `json:"technical_skills"`
	Experience      float64 `json:"experience"`
	ContentQuality  float64 `json:"content_quality"`
	Completeness    float64 `json:"completeness"`
}

// Score is the ScoreEngine output.
type Score struct {
	Breakdown    ScoreBreakdown
	OverallScore int
	Grade        Grade
	Feedback     []string
}

type JobRecommendation struct {
	Title           string `json:"title"`
	MatchPercentage int    `json:"match_percentage"`
	SalaryRange     string `json:"salary_range"`
	Category        string `json:"category"`
	MarketDemand    string `json:"market_demand"`
}

type ImprovementSuggestion struct {
	Category   string `json:"category"`
	Suggestion string `json:"suggestion"`
	Priority   string `json:"priority"`
	Impact     string `json:"impact"`
}

type InterviewQuestion struct {
	Question   string `json:"question"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

type SkillsSummary struct {
	Technical        map[string][]string `json:"technical"`
	TotalCount       int                 `json:"total_count"`
	ConfidenceScores map[string]float64  `json:"confidence_scores"`
}

type ExtractionInfo struct {
	Method         string  `json:"method"`
	Success        bool    `json:"success"`
	ExtractionTime float64 `json:"extraction_time"`
	TextLength     int     `json:"text_length"`
}

// ErrorCode classifies a failed analysis so the API layer can pick a status code.
type ErrorCode string

const (
	ErrorUnsupportedFileType ErrorCode = "unsupported_file_type"
	ErrorPayloadTooLarge     ErrorCode = "payload_too_large"
	ErrorExtractionFailed    ErrorCode = "extraction_failed"
	ErrorInternal            ErrorCode = "internal_error"
)

// AnalysisResult is the response envelope. Its shape is identical on success and failure.
type AnalysisResult struct {
	Success                bool                    `json:"success"`
	Filename               string                  `json:"filename"`
	AnalysisTime           float64                 `json:"analysis_time"`
	AnalysisMethod         string                  `json:"analysis_method"`
	OverallScore           int                     `json:"overall_score"`
	Grade                  Grade                   `json:"grade"`
	ExperienceLevel        ExperienceLevel         `json:"experience_level"`
	ExperienceConfidence   float64                 `json:"experience_confidence"`
	Skills                 SkillsSummary           `json:"skills"`
	JobRecommendations     []JobRecommendation     `json:"job_recommendations"`
	ImprovementSuggestions []ImprovementSuggestion `json:"improvement_suggestions"`
	InterviewQuestions     []InterviewQuestion     `json:"interview_questions"`
	ScoreBreakdown         ScoreBreakdown          `json:"score_breakdown"`
	Feedback               []string                `json:"feedback"`
	ExtractionInfo         ExtractionInfo          `json:"extraction_info"`
	Error                  string                  `json:"error,omitempty"`
	ErrorCode              ErrorCode               `json:"error_code,omitempty"`
}
