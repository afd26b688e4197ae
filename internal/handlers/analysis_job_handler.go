package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type AnalysisJobHandler struct {
	jobRepo     repositories.AnalysisJobRepository
	storage     services.StorageService
	worker      services.Worker
	maxFileSize int64
	log         *zap.Logger
}

func NewAnalysisJobHandler(
	jobRepo repositories.AnalysisJobRepository,
	storage services.StorageService,
	worker services.Worker,
	maxFileSize int64,
	log *zap.Logger,
) *AnalysisJobHandler {
	return &AnalysisJobHandler{
		jobRepo:     jobRepo,
		storage:     storage,
		worker:      worker,
		maxFileSize: maxFileSize,
		log:         logger.OrNop(log).Named("analysis_job_handler"),
	}
}

// HandleSubmit handles POST /api/v1/analyses
func (h *AnalysisJobHandler) HandleSubmit(c *fiber.Ctx) error {
	doc, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if len(doc.Data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      "uploaded file is empty",
			"error_code": models.ErrorExtractionFailed,
		})
	}

	if h.maxFileSize > 0 && int64(len(doc.Data)) > h.maxFileSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error":      fmt.Sprintf("file too large. Max size: %d bytes", h.maxFileSize),
			"error_code": models.ErrorPayloadTooLarge,
		})
	}

	if err := services.ValidatePDF(doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      err.Error(),
			"error_code": models.ErrorUnsupportedFileType,
		})
	}

	storedName, filePath, err := h.storage.SaveFile(doc.Data, doc.Filename)
	if err != nil {
		h.log.Error("failed to store upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to store uploaded file",
		})
	}

	job := &models.AnalysisJob{
		ID:               uuid.New(),
		OriginalFileName: doc.Filename,
		StoredFileName:   storedName,
		FilePath:         filePath,
		ContentType:      doc.ContentType,
		Status:           models.StatusQueued,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.jobRepo.Create(job); err != nil {
		if delErr := h.storage.DeleteFile(storedName); delErr != nil {
			h.log.Warn("failed to clean up upload", zap.String("file", storedName), zap.Error(delErr))
		}
		h.log.Error("failed to create analysis job", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create analysis job",
		})
	}

	h.worker.EnqueueJob(job.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.SubmitResponse{
		ID:     job.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleGetJob handles GET /api/v1/analyses/:id
func (h *AnalysisJobHandler) HandleGetJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid analysis ID format",
		})
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "analysis not found",
			})
		}
		h.log.Error("failed to load analysis job", zap.Stringer("job_id", jobID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load analysis",
		})
	}

	response := models.JobResponse{
		ID:           job.ID.String(),
		Status:       string(job.Status),
		Filename:     job.OriginalFileName,
		ErrorMessage: job.ErrorMessage,
	}

	if job.ResultJSON != nil {
		var result models.AnalysisResult
		if err := json.Unmarshal([]byte(*job.ResultJSON), &result); err != nil {
			h.log.Error("stored result is not valid JSON", zap.Stringer("job_id", jobID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "stored analysis result is corrupt",
			})
		}
		response.Result = &result
	}

	return c.JSON(response)
}
