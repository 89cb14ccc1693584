package handlers

import (
	"strings"

	"maxcavator/internal/dto"
	"maxcavator/internal/models"
	"maxcavator/internal/repository"
	"maxcavator/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportService *service.ExportService
	tableRepo     *repository.TableRepository
	logger        *zap.Logger
}

func NewExportHandler(exportService *service.ExportService, tableRepo *repository.TableRepository, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		tableRepo:     tableRepo,
		logger:        logger,
	}
}

// ExportXLSX godoc
// @Summary Export tables to XLSX
// @Description Build a workbook with an index sheet and one sheet per extracted table.
// @Tags export
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body dto.ExportRequest true "Tables"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Router /export/xlsx [post]
func (h *ExportHandler) ExportXLSX(c *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	data, err := h.exportService.ExportTablesXLSX(req.Tables)
	if err != nil {
		h.logger.Error("Failed to export tables", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to export tables",
		})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="tables.xlsx"`)
	return c.Send(data)
}

// RenderSQL godoc
// @Summary Render table statements
// @Description Render CREATE TABLE and parameterized INSERT statements for extracted tables. Nothing is executed.
// @Tags export
// @Accept json
// @Produce json
// @Param request body dto.RenderSQLRequest true "Tables and source metadata"
// @Success 200 {object} dto.RenderSQLResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /render_sql [post]
func (h *ExportHandler) RenderSQL(c *fiber.Ctx) error {
	var req dto.RenderSQLRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	docID := uuid.New()
	if s := strings.TrimSpace(req.SourceDocID); s != "" {
		parsed, err := uuid.Parse(s)
		if err != nil {
			return badRequest(c, "source_doc_id must be a UUID")
		}
		docID = parsed
	}

	statements, err := h.tableRepo.CreateStatements(req.Tables, docID, req.PageNum)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if statements == nil {
		statements = []models.Statement{}
	}

	return c.JSON(dto.RenderSQLResponse{
		SourceDocID: docID.String(),
		Statements:  statements,
	})
}
