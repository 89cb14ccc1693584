package dto

import "maxcavator/internal/models"

type ExtractionRequest struct {
	Text string `json:"text"`
}

type ExtractionResponse struct {
	Tables    []models.TableData `json:"tables"`
	DebugInfo map[string]string  `json:"debug_info,omitempty"`
}

type VisionOCRRequest struct {
	Image string `json:"image"` // base64, with or without a data: prefix
}

type VisionOCRResponse struct {
	Text      string            `json:"text"`
	DebugInfo map[string]string `json:"debug_info"`
}

type VisionOCRPDFRequest struct {
	PDF  string `json:"pdf"` // base64-encoded document
	Page int    `json:"page"`
}

type VisionOCRPDFResponse struct {
	Text       string            `json:"text"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	DebugInfo  map[string]string `json:"debug_info"`
}

type SQLQueryRequest struct {
	UserQuery   string         `json:"user_query"`
	TableSchema map[string]any `json:"table_schema"`
}

type SQLQueryResponse struct {
	SQL string `json:"sql"`
}

type EmbedRequest struct {
	Text string `json:"text"`
}

type EmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind,omitempty"`
}

type PDFTextRequest struct {
	PDF  string `json:"pdf"` // base64-encoded document
	Page int    `json:"page"`
}

type PDFTextResponse struct {
	Text       string `json:"text"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
}
