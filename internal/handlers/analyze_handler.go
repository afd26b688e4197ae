package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type AnalyzeHandler struct {
	analyzer services.Analyzer
	log      *zap.Logger
}

func NewAnalyzeHandler(analyzer services.Analyzer, log *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		log:      logger.OrNop(log).Named("analyze_handler"),
	}
}

// HandleAnalyze handles POST /api/v1/analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	doc, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.log.Debug("analysis request", zap.String("filename", doc.Filename), zap.Int("bytes", len(doc.Data)))

	result := h.analyzer.Analyze(c.UserContext(), doc)

	return c.Status(StatusForResult(result)).JSON(result)
}
