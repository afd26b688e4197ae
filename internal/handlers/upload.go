package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// ResumeField is the multipart form field carrying the uploaded document.
const ResumeField = "resume"

var errMissingFile = errors.New("no file uploaded in field \"" + ResumeField + "\"")

// readUpload loads the resume upload into memory. Size enforcement is left to the orchestrator
// so oversized files still get the standard envelope.
func readUpload(c *fiber.Ctx) (models.DocumentBuffer, error) {
	header, err := c.FormFile(ResumeField)
	if err != nil {
		return models.DocumentBuffer{}, errMissingFile
	}

	file, err := header.Open()
	if err != nil {
		return models.DocumentBuffer{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.DocumentBuffer{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return models.DocumentBuffer{
		Data:        data,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Filename:    header.Filename,
	}, nil
}

// StatusForResult maps an envelope to its HTTP status.
func StatusForResult(result *models.AnalysisResult) int {
	if result.Success {
		return fiber.StatusOK
	}
	return StatusForCode(result.ErrorCode)
}

func StatusForCode(code models.ErrorCode) int {
	switch code {
	case models.ErrorUnsupportedFileType:
		return fiber.StatusBadRequest
	case models.ErrorPayloadTooLarge:
		return fiber.StatusRequestEntityTooLarge
	case models.ErrorExtractionFailed:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
