package batch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"maxcavator/internal/models"
	"maxcavator/internal/repository"
	"maxcavator/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Options struct {
	OutDir    string
	CacheFile string
	// Force reprocesses files whose hash is already cached.
	Force bool
	// MaxPages limits pages per document; zero means all.
	MaxPages int
	// TextLayer reads the embedded PDF text first and only falls back to
	// vision OCR for pages without any.
	TextLayer bool
}

// PageTables groups the tables found on one page.
type PageTables struct {
	Page   int                `json:"page"`
	Tables []models.TableData `json:"tables"`
}

// DocumentTables is written as <name>.tables.json.
type DocumentTables struct {
	SourceFile     string       `json:"source_file"`
	SourceDocID    string       `json:"source_doc_id"`
	TotalPages     int          `json:"total_pages"`
	ProcessedPages int          `json:"processed_pages"`
	Pages          []PageTables `json:"pages"`
	FailedPages    []int        `json:"failed_pages"`
}

// Complete reports whether every page was read and none failed.
func (d *DocumentTables) Complete() bool {
	return len(d.FailedPages) == 0 && d.ProcessedPages == d.TotalPages
}

// Summary counts files per outcome. Incomplete files were written but are
// left out of the cache so the next run retries them.
type Summary struct {
	Processed  int
	Incomplete int
	Skipped    int
	Failed     int
}

// Processor runs the OCR and extraction pipeline over PDFs on disk and writes
// JSON, XLSX and SQL outputs per document.
type Processor struct {
	ocr        *service.OCRService
	extraction *service.ExtractionService
	export     *service.ExportService
	tables     *repository.TableRepository
	opts       Options
	logger     *zap.Logger
}

func NewProcessor(
	ocr *service.OCRService,
	extraction *service.ExtractionService,
	export *service.ExportService,
	tables *repository.TableRepository,
	opts Options,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		ocr:        ocr,
		extraction: extraction,
		export:     export,
		tables:     tables,
		opts:       opts,
		logger:     logger,
	}
}

// Run processes every PDF under inputs. Per-file failures are logged and
// counted; only cancellation and cache or discovery problems abort the run.
func (p *Processor) Run(ctx context.Context, inputs []string) (*Summary, error) {
	files, err := collectPDFs(inputs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		p.logger.Warn("No PDF files found", zap.Strings("inputs", inputs))
		return &Summary{}, nil
	}

	cache, err := LoadCache(p.opts.CacheFile)
	if err != nil {
		p.logger.Warn("Failed to load cache, will process all files", zap.Error(err))
		cache = newCache()
	}

	if err := os.MkdirAll(p.opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	stems := outputStems(files)
	summary := &Summary{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		hash, err := fileHash(path)
		if err != nil {
			p.logger.Warn("Failed to calculate file hash, will process anyway", zap.String("path", path), zap.Error(err))
		}

		if !p.opts.Force && cache.Unchanged(path, hash) {
			p.logger.Info("PDF file already processed, skipping",
				zap.String("path", path),
				zap.Time("processed_at", cache.ProcessedFiles[path].ProcessedAt),
			)
			summary.Skipped++
			continue
		}

		doc, err := p.processFile(ctx, path, stems[path])
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			p.logger.Error("Failed to process PDF", zap.String("path", path), zap.Error(err))
			summary.Failed++
			continue
		}

		summary.Processed++
		if !doc.Complete() {
			p.logger.Warn("PDF processed partially, it will be retried",
				zap.String("path", path),
				zap.Int("processed_pages", doc.ProcessedPages),
				zap.Int("total_pages", doc.TotalPages),
				zap.Ints("failed_pages", doc.FailedPages),
			)
			summary.Incomplete++
			delete(cache.ProcessedFiles, path)
			continue
		}
		cache.ProcessedFiles[path] = ProcessedFile{
			FilePath:    path,
			FileHash:    hash,
			Pages:       doc.TotalPages,
			Tables:      countTables(doc),
			ProcessedAt: time.Now(),
		}
	}

	if err := SaveCache(p.opts.CacheFile, cache); err != nil {
		p.logger.Warn("Failed to save cache", zap.Error(err))
	} else {
		p.logger.Info("Cache saved", zap.Int("processed_files", len(cache.ProcessedFiles)))
	}

	return summary, nil
}

// ProcessFile extracts the tables of one PDF and writes its outputs. Pages
// whose OCR or extraction fails are listed in FailedPages.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*DocumentTables, error) {
	return p.processFile(ctx, path, fileStem(path))
}

func (p *Processor) processFile(ctx context.Context, path, stem string) (*DocumentTables, error) {
	pdf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	total, err := p.ocr.PageCount(pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	last := total
	if p.opts.MaxPages > 0 && p.opts.MaxPages < total {
		last = p.opts.MaxPages
	}

	docID := uuid.New()
	doc := &DocumentTables{
		SourceFile:  filepath.Base(path),
		SourceDocID: docID.String(),
		TotalPages:  total,
		Pages:       []PageTables{},
		FailedPages: []int{},
	}
	var statements []models.Statement

	p.logger.Info("Processing PDF file",
		zap.String("path", path),
		zap.Int("pages", total),
		zap.String("source_doc_id", doc.SourceDocID),
	)

	for page := 1; page <= last; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc.ProcessedPages++

		text, ok, err := p.pageText(ctx, pdf, page)
		if err != nil {
			return nil, err
		}
		if !ok {
			doc.FailedPages = append(doc.FailedPages, page)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		extracted := p.extraction.ExtractTables(ctx, text)
		if extracted.Err != nil {
			p.logger.Warn("Page extraction failed", zap.Int("page", page), zap.Error(extracted.Err))
			doc.FailedPages = append(doc.FailedPages, page)
			continue
		}
		if len(extracted.Tables) == 0 {
			continue
		}

		pageStatements, err := p.tables.CreateStatements(extracted.Tables, docID, page)
		if err != nil {
			p.logger.Warn("Failed to render page statements", zap.Int("page", page), zap.Error(err))
			doc.FailedPages = append(doc.FailedPages, page)
		} else {
			statements = append(statements, pageStatements...)
		}

		doc.Pages = append(doc.Pages, PageTables{Page: page, Tables: extracted.Tables})
	}

	if err := p.writeOutputs(filepath.Join(p.opts.OutDir, stem), doc, statements); err != nil {
		return nil, err
	}

	p.logger.Info("PDF processed",
		zap.String("path", path),
		zap.Int("tables", countTables(doc)),
		zap.Ints("failed_pages", doc.FailedPages),
	)

	return doc, nil
}

// pageText returns the text to extract tables from. ok is false when vision
// OCR failed; rendering errors abort the document.
func (p *Processor) pageText(ctx context.Context, pdf []byte, page int) (string, bool, error) {
	if p.opts.TextLayer {
		layer, err := p.ocr.PageText(pdf, page)
		if err != nil {
			p.logger.Warn("Failed to read text layer, using vision OCR", zap.Int("page", page), zap.Error(err))
		} else if layer.Text != "" {
			return layer.Text, true, nil
		}
	}

	ocr, err := p.ocr.ExtractPDFPage(ctx, pdf, page)
	if err != nil {
		return "", false, err
	}
	if ocr.Err != nil {
		p.logger.Warn("Page OCR failed", zap.Int("page", page), zap.Error(ocr.Err))
		return "", false, nil
	}
	return ocr.Text, true, nil
}

func (p *Processor) writeOutputs(base string, doc *DocumentTables, statements []models.Statement) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tables: %w", err)
	}
	if err := os.WriteFile(base+".tables.json", data, 0o644); err != nil {
		return fmt.Errorf("failed to write tables: %w", err)
	}

	var all []models.TableData
	for _, page := range doc.Pages {
		all = append(all, page.Tables...)
	}
	workbook, err := p.export.ExportTablesXLSX(all)
	if err != nil {
		return err
	}
	if err := os.WriteFile(base+".xlsx", workbook, 0o644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	script, err := repository.RenderScript(statements)
	if err != nil {
		return fmt.Errorf("failed to render SQL script: %w", err)
	}
	if err := os.WriteFile(base+".sql", []byte(script), 0o644); err != nil {
		return fmt.Errorf("failed to write SQL script: %w", err)
	}

	return nil
}

func collectPDFs(inputs []string) ([]string, error) {
	var files []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", input, err)
		}
		if !info.IsDir() {
			files = append(files, input)
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", input, err)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outputStems names the outputs of each file after its stem. Files sharing a
// stem, such as q1/report.pdf and q2/report.pdf, get a suffix derived from
// their path so neither overwrites the other.
func outputStems(files []string) map[string]string {
	counts := make(map[string]int, len(files))
	for _, path := range files {
		counts[strings.ToLower(fileStem(path))]++
	}

	stems := make(map[string]string, len(files))
	for _, path := range files {
		stem := fileStem(path)
		if counts[strings.ToLower(stem)] > 1 {
			sum := md5.Sum([]byte(filepath.Clean(path)))
			stem += "-" + hex.EncodeToString(sum[:4])
		}
		stems[path] = stem
	}
	return stems
}

func countTables(doc *DocumentTables) int {
	n := 0
	for _, page := range doc.Pages {
		n += len(page.Tables)
	}
	return n
}
