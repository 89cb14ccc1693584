package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidPage is returned when a requested PDF page does not exist.
var ErrInvalidPage = errors.New("invalid page number")

// OCRResult is the outcome of one vision OCR call. Err is nil on success;
// on failure Text is empty and DebugInfo carries the error.
type OCRResult struct {
	Text      string
	DebugInfo DebugInfo
	Err       *AdapterError
}

type PageOCRResult struct {
	OCRResult
	Page       int
	TotalPages int
}

type PageTextResult struct {
	Text       string
	Page       int
	TotalPages int
}

type OCRService struct {
	client    ChatClient
	renderer  PageRenderer
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewOCRService creates a vision OCR adapter. renderer may be nil when PDF
// page OCR is not needed.
func NewOCRService(client ChatClient, renderer PageRenderer, model string, maxTokens int, logger *zap.Logger) *OCRService {
	return &OCRService{
		client:    client,
		renderer:  renderer,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// ExtractText runs vision OCR over a base64 image. It never returns an error:
// remote failures are reported through OCRResult.Err and DebugInfo.
func (s *OCRService) ExtractText(ctx context.Context, imageBase64 string) OCRResult {
	resp, err := s.client.Complete(ctx, ChatRequest{
		Model:        s.model,
		User:         visionOCRPrompt,
		ImageDataURL: imageDataURL(imageBase64),
		Temperature:  0,
		MaxTokens:    s.maxTokens,
	})
	if err != nil {
		aerr := newAdapterError(ErrorKindRemoteCallFailed, err)
		debug := DebugInfo{}
		debug.setError(aerr)

		s.logger.Error("Vision OCR failed",
			zap.String("model", s.model),
			zap.Error(err),
		)
		return OCRResult{Text: "", DebugInfo: debug, Err: aerr}
	}

	s.logger.Info("Text extracted via vision model",
		zap.String("model", s.model),
		zap.Int("text_length", len(resp.Content)),
		zap.Int64("tokens_used", resp.TotalTokens),
	)

	return OCRResult{
		Text: resp.Content,
		DebugInfo: DebugInfo{
			"model":       s.model,
			"prompt":      visionOCRPrompt,
			"tokens_used": strconv.FormatInt(resp.TotalTokens, 10),
		},
	}
}

// PageCount returns the number of pages in a PDF.
func (s *OCRService) PageCount(pdf []byte) (int, error) {
	if s.renderer == nil {
		return 0, fmt.Errorf("pdf rendering is not configured")
	}
	return s.renderer.PageCount(pdf)
}

// ExtractPDFPage renders one 1-based page of a PDF and runs vision OCR on it.
// Rendering problems are returned as errors; OCR failures land in the result.
func (s *OCRService) ExtractPDFPage(ctx context.Context, pdf []byte, page int) (*PageOCRResult, error) {
	total, err := s.checkPage(pdf, page)
	if err != nil {
		return nil, err
	}

	png, err := s.renderer.RenderPNG(pdf, page)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page, err)
	}

	s.logger.Debug("PDF page rendered",
		zap.Int("page", page),
		zap.Int("total_pages", total),
		zap.Int("png_bytes", len(png)),
	)

	result := s.ExtractText(ctx, base64.StdEncoding.EncodeToString(png))
	result.DebugInfo["page"] = strconv.Itoa(page)

	return &PageOCRResult{
		OCRResult:  result,
		Page:       page,
		TotalPages: total,
	}, nil
}

// PageText reads the embedded text layer of one 1-based page. Scanned pages
// usually have none, in which case Text is empty.
func (s *OCRService) PageText(pdf []byte, page int) (*PageTextResult, error) {
	total, err := s.checkPage(pdf, page)
	if err != nil {
		return nil, err
	}

	text, err := s.renderer.Text(pdf, page)
	if err != nil {
		return nil, fmt.Errorf("failed to read text of page %d: %w", page, err)
	}
	text = strings.TrimSpace(sanitizeUTF8(text))

	s.logger.Debug("PDF text layer read",
		zap.Int("page", page),
		zap.Int("text_length", len(text)),
	)

	return &PageTextResult{Text: text, Page: page, TotalPages: total}, nil
}

func (s *OCRService) checkPage(pdf []byte, page int) (int, error) {
	total, err := s.PageCount(pdf)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	if page < 1 || page > total {
		return 0, fmt.Errorf("%w: %d (document has %d pages)", ErrInvalidPage, page, total)
	}
	return total, nil
}
