package handlers

import (
	"encoding/base64"
	"errors"
	"strings"

	"maxcavator/internal/dto"
	"maxcavator/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ExtractionHandler struct {
	ocrService        *service.OCRService
	extractionService *service.ExtractionService
	sqlService        *service.SQLService
	logger            *zap.Logger
}

func NewExtractionHandler(
	ocrService *service.OCRService,
	extractionService *service.ExtractionService,
	sqlService *service.SQLService,
	logger *zap.Logger,
) *ExtractionHandler {
	return &ExtractionHandler{
		ocrService:        ocrService,
		extractionService: extractionService,
		sqlService:        sqlService,
		logger:            logger,
	}
}

// Extract godoc
// @Summary Extract tables from text
// @Description Ask the model for every table in a page of OCR text. Failures yield an empty list with details in debug_info.
// @Tags extraction
// @Accept json
// @Produce json
// @Param request body dto.ExtractionRequest true "Recognized text"
// @Success 200 {object} dto.ExtractionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /extract [post]
func (h *ExtractionHandler) Extract(c *fiber.Ctx) error {
	var req dto.ExtractionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result := h.extractionService.ExtractTables(c.Context(), req.Text)
	if result.Err != nil {
		h.logger.Warn("Extraction returned no tables",
			zap.String("request_id", requestID(c)),
			zap.String("error_kind", string(result.Err.Kind)),
		)
	}

	return c.JSON(dto.ExtractionResponse{
		Tables:    result.Tables,
		DebugInfo: result.DebugInfo,
	})
}

// VisionOCR godoc
// @Summary OCR an image
// @Description Extract text from a base64-encoded image with a vision model. Failures yield empty text with details in debug_info.
// @Tags ocr
// @Accept json
// @Produce json
// @Param request body dto.VisionOCRRequest true "Base64 image"
// @Success 200 {object} dto.VisionOCRResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /vision_ocr [post]
func (h *ExtractionHandler) VisionOCR(c *fiber.Ctx) error {
	var req dto.VisionOCRRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result := h.ocrService.ExtractText(c.Context(), req.Image)

	return c.JSON(dto.VisionOCRResponse{
		Text:      result.Text,
		DebugInfo: result.DebugInfo,
	})
}

// VisionOCRPDF godoc
// @Summary OCR one PDF page
// @Description Render a page of a base64-encoded PDF and extract its text with a vision model.
// @Tags ocr
// @Accept json
// @Produce json
// @Param request body dto.VisionOCRPDFRequest true "Base64 PDF and 1-based page"
// @Success 200 {object} dto.VisionOCRPDFResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /vision_ocr_pdf [post]
func (h *ExtractionHandler) VisionOCRPDF(c *fiber.Ctx) error {
	var req dto.VisionOCRPDFRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	pdf, err := decodeBase64(req.PDF)
	if err != nil || len(pdf) == 0 {
		return badRequest(c, "pdf must be a non-empty base64 string")
	}

	result, err := h.ocrService.ExtractPDFPage(c.Context(), pdf, req.Page)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPage) {
			return badRequest(c, err.Error())
		}
		h.logger.Warn("Failed to render PDF page", zap.Int("page", req.Page), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: "Failed to render PDF page",
		})
	}

	return c.JSON(dto.VisionOCRPDFResponse{
		Text:       result.Text,
		Page:       result.Page,
		TotalPages: result.TotalPages,
		DebugInfo:  result.DebugInfo,
	})
}

// PDFText godoc
// @Summary Read the text layer of one PDF page
// @Description Return the embedded text of a page of a base64-encoded PDF without calling a model. Scanned pages yield empty text.
// @Tags pdf
// @Accept json
// @Produce json
// @Param request body dto.PDFTextRequest true "Base64 PDF and 1-based page"
// @Success 200 {object} dto.PDFTextResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /pdf_text [post]
func (h *ExtractionHandler) PDFText(c *fiber.Ctx) error {
	var req dto.PDFTextRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	pdf, err := decodeBase64(req.PDF)
	if err != nil || len(pdf) == 0 {
		return badRequest(c, "pdf must be a non-empty base64 string")
	}

	result, err := h.ocrService.PageText(pdf, req.Page)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPage) {
			return badRequest(c, err.Error())
		}
		h.logger.Warn("Failed to read PDF text", zap.Int("page", req.Page), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: "Failed to read PDF text",
		})
	}

	return c.JSON(dto.PDFTextResponse{
		Text:       result.Text,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	})
}

// Query godoc
// @Summary Generate SQL
// @Description Translate a question and a table schema into one SQL statement. The SQL is not executed.
// @Tags sql
// @Accept json
// @Produce json
// @Param request body dto.SQLQueryRequest true "Question and schema"
// @Success 200 {object} dto.SQLQueryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /query [post]
func (h *ExtractionHandler) Query(c *fiber.Ctx) error {
	var req dto.SQLQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sql, err := h.sqlService.GenerateSQL(c.Context(), req.UserQuery, req.TableSchema)
	if err != nil {
		h.logger.Error("Failed to generate SQL", zap.String("request_id", requestID(c)), zap.Error(err))

		status := fiber.StatusInternalServerError
		resp := dto.ErrorResponse{Error: "Failed to generate SQL"}
		var aerr *service.AdapterError
		if errors.As(err, &aerr) {
			resp.ErrorKind = string(aerr.Kind)
			if aerr.Kind == service.ErrorKindRemoteCallFailed {
				status = fiber.StatusBadGateway
			}
		}
		return c.Status(status).JSON(resp)
	}

	return c.JSON(dto.SQLQueryResponse{SQL: sql})
}

func decodeBase64(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if i := strings.Index(value, ","); strings.HasPrefix(value, "data:") && i >= 0 {
		value = value[i+1:]
	}
	return base64.StdEncoding.DecodeString(value)
}
