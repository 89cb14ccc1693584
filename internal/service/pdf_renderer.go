package service

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// PageRenderer rasterizes PDF pages for vision OCR.
type PageRenderer interface {
	PageCount(pdf []byte) (int, error)
	// RenderPNG renders a 1-based page.
	RenderPNG(pdf []byte, page int) ([]byte, error)
	// Text returns the text layer of a 1-based page.
	Text(pdf []byte, page int) (string, error)
}

// DefaultRenderDPI matches rendering at 2x the 72 DPI PDF user space.
const DefaultRenderDPI = 144

// FitzRenderer renders pages with MuPDF through go-fitz.
type FitzRenderer struct {
	DPI float64
}

func NewFitzRenderer() *FitzRenderer {
	return &FitzRenderer{DPI: DefaultRenderDPI}
}

func (r *FitzRenderer) PageCount(pdf []byte) (int, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	return doc.NumPage(), nil
}

func (r *FitzRenderer) RenderPNG(pdf []byte, page int) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	img, err := doc.ImageDPI(page-1, r.DPI)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize page %d: %w", page, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode page %d: %w", page, err)
	}
	return buf.Bytes(), nil
}

func (r *FitzRenderer) Text(pdf []byte, page int) (string, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return "", fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	text, err := doc.Text(page - 1)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", page, err)
	}
	return text, nil
}
