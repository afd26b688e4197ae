package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var ErrJobNotFound = errors.New("analysis job not found")

type AnalysisJobRepository interface {
	Create(job *models.AnalysisJob) error
	FindByID(id uuid.UUID) (*models.AnalysisJob, error)
	// ClaimQueued moves a queued job to processing. It reports false when another worker got it first.
	ClaimQueued(id uuid.UUID) (bool, error)
	UpdateResult(id uuid.UUID, result *models.AnalysisResult) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.AnalysisJob, error)
	// RequeueStale returns processing jobs last updated before cutoff to the queue.
	RequeueStale(cutoff time.Time) (int64, error)
}

type analysisJobRepository struct {
	db *gorm.DB
}

func NewAnalysisJobRepository(db *gorm.DB) AnalysisJobRepository {
	return &analysisJobRepository{db: db}
}

// Create implements AnalysisJobRepository.
func (r *analysisJobRepository) Create(job *models.AnalysisJob) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create analysis job: %w", err)
	}
	return nil
}

// FindByID implements AnalysisJobRepository.
func (r *analysisJobRepository) FindByID(id uuid.UUID) (*models.AnalysisJob, error) {
	var job models.AnalysisJob
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find analysis job: %w", err)
	}
	return &job, nil
}

// ClaimQueued implements AnalysisJobRepository.
func (r *analysisJobRepository) ClaimQueued(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.AnalysisJob{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]any{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim analysis job: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// UpdateResult implements AnalysisJobRepository. A failed envelope marks the job failed
// but is stored all the same.
func (r *analysisJobRepository) UpdateResult(id uuid.UUID, analysis *models.AnalysisResult) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis result: %w", err)
	}

	updates := map[string]any{
		"status":      models.StatusCompleted,
		"result_json": string(payload),
		"updated_at":  time.Now(),
	}
	if !analysis.Success {
		updates["status"] = models.StatusFailed
		updates["error_message"] = analysis.Error
	}

	result := r.db.Model(&models.AnalysisJob{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}

	return nil
}

// UpdateError implements AnalysisJobRepository.
func (r *analysisJobRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.AnalysisJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}

	return nil
}

// FindPendingJobs implements AnalysisJobRepository.
func (r *analysisJobRepository) FindPendingJobs(limit int) ([]models.AnalysisJob, error) {
	var jobs []models.AnalysisJob
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return jobs, nil
}

// RequeueStale implements AnalysisJobRepository.
func (r *analysisJobRepository) RequeueStale(cutoff time.Time) (int64, error) {
	result := r.db.Model(&models.AnalysisJob{}).
		Where("status = ? AND updated_at < ?", models.StatusProcessing, cutoff).
		Updates(map[string]any{
			"status":     models.StatusQueued,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to requeue stale jobs: %w", result.Error)
	}

	return result.RowsAffected, nil
}
