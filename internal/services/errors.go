package services

import (
	"errors"
	"fmt"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var ErrPayloadTooLarge = errors.New("payload too large")

// AnalysisError tags a pipeline failure with the code reported in the envelope.
type AnalysisError struct {
	Code models.ErrorCode
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// ErrorCodeOf classifies err. Untagged errors outside the extraction taxonomy are internal.
func ErrorCodeOf(err error) models.ErrorCode {
	var ae *AnalysisError
	switch {
	case errors.As(err, &ae):
		return ae.Code
	case errors.Is(err, ErrPayloadTooLarge):
		return models.ErrorPayloadTooLarge
	case errors.Is(err, ErrUnsupportedFormat):
		return models.ErrorUnsupportedFileType
	case errors.Is(err, ErrCorruptDocument), errors.Is(err, ErrEmptyContent):
		return models.ErrorExtractionFailed
	default:
		return models.ErrorInternal
	}
}
