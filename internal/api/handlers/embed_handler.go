package handlers

import (
	"maxcavator/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// EmbedHandler serves a placeholder embedding endpoint. No vectors are
// computed; clients get a zero vector of the configured size.
type EmbedHandler struct {
	dimensions int
}

func NewEmbedHandler(dimensions int) *EmbedHandler {
	return &EmbedHandler{dimensions: dimensions}
}

// Embed godoc
// @Summary Embed text (placeholder)
// @Description Returns a fixed-length zero vector.
// @Tags embedding
// @Accept json
// @Produce json
// @Param request body dto.EmbedRequest true "Text"
// @Success 200 {object} dto.EmbedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /embed [post]
func (h *EmbedHandler) Embed(c *fiber.Ctx) error {
	var req dto.EmbedRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	return c.JSON(dto.EmbedResponse{Embedding: make([]float64, h.dimensions)})
}
