package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/services"
)

type VocabularyHandler struct {
	vocab *services.SkillVocabulary
}

func NewVocabularyHandler(vocab *services.SkillVocabulary) *VocabularyHandler {
	if vocab == nil {
		vocab = services.DefaultVocabulary
	}
	return &VocabularyHandler{vocab: vocab}
}

// HandleVocabulary handles GET /api/v1/vocabulary
func (h *VocabularyHandler) HandleVocabulary(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories":  h.vocab.Categories(),
		"skills":      h.vocab.Map(),
		"total_count": h.vocab.Size(),
	})
}
