package dto

import "maxcavator/internal/models"

type ExportRequest struct {
	Tables []models.TableData `json:"tables"`
}

type RenderSQLRequest struct {
	Tables      []models.TableData `json:"tables"`
	SourceDocID string             `json:"source_doc_id,omitempty"`
	PageNum     int                `json:"page_num"`
}

type RenderSQLResponse struct {
	SourceDocID string             `json:"source_doc_id"`
	Statements  []models.Statement `json:"statements"`
}
