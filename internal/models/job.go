package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// AnalysisJob is an asynchronous analysis request and, once finished, its serialized envelope.
type AnalysisJob struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	StoredFileName   string    `gorm:"type:text" json:"-"`
	FilePath         string    `gorm:"type:text" json:"-"`
	ContentType      string    `gorm:"type:text" json:"content_type"`
	Status           JobStatus `gorm:"not null;default:'queued';index" json:"status"`
	ResultJSON       *string   `gorm:"type:jsonb" json:"-"`
	ErrorMessage     *string   `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (AnalysisJob) TableName() string {
	return "analysis_jobs"
}

type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type JobResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Filename     string          `json:"filename"`
	Result       *AnalysisResult `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

// JobPosting is an indexed job description used for semantic job matching.
type JobPosting struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	SalaryRange string `json:"salary_range"`
	Description string `json:"description"`
}
