package handlers

import (
	"errors"
	"strconv"

	"maxcavator/internal/dto"
	"maxcavator/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProxyHandler struct {
	proxyService *service.ProxyService
	logger       *zap.Logger
}

func NewProxyHandler(proxyService *service.ProxyService, logger *zap.Logger) *ProxyHandler {
	return &ProxyHandler{
		proxyService: proxyService,
		logger:       logger,
	}
}

// ProxyPDF godoc
// @Summary Proxy a remote PDF
// @Description Fetch a PDF by URL so browsers can load it without CORS restrictions.
// @Tags pdf
// @Produce application/pdf
// @Param url query string true "http(s) URL of the PDF"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /proxy_pdf [get]
func (h *ProxyHandler) ProxyPDF(c *fiber.Ctx) error {
	pdf, err := h.proxyService.FetchPDF(c.Query("url"))
	if err != nil {
		h.logger.Warn("PDF proxy request failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
		return c.Status(proxyStatus(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "inline")
	c.Set("X-PDF-Page-Count", strconv.Itoa(pdf.PageCount))
	return c.Send(pdf.Body)
}

func proxyStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrProxyInvalidURL):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrProxyHostNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrProxyTooLarge):
		return fiber.StatusRequestEntityTooLarge
	default:
		return fiber.StatusBadGateway
	}
}
