package main

import (
	"fmt"
	"io"
	"path/filepath"

	"maxcavator/internal/batch"
	"maxcavator/internal/repository"
	"maxcavator/internal/service"
	"maxcavator/pkg/config"
	"maxcavator/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outDir    string
	cacheFile string
	force     bool
	maxPages  int
	textLayer bool
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "excavate [pdf files or directories...]",
	Short: "Extract tables from PDFs into JSON, XLSX and SQL files",
	Long: `Excavate renders every page of the given PDFs, reads it with a vision model
and asks a text model for the tables on the page.

For each document it writes:
  - <name>.tables.json   tables grouped by page
  - <name>.xlsx          one sheet per table
  - <name>.sql           CREATE TABLE and INSERT statements

Files whose content hash is already in the cache are skipped. Files with
failed pages are written but not cached, so the next run retries them.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runExcavate,
}

func init() {
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "excavated", "output directory")
	rootCmd.Flags().StringVar(&cacheFile, "cache", "", "hash cache file (default: <out>/.excavate_cache.json)")
	rootCmd.Flags().BoolVar(&force, "force", false, "reprocess files even when unchanged")
	rootCmd.Flags().IntVar(&maxPages, "max-pages", 0, "process at most this many pages per document (0 = all)")
	rootCmd.Flags().BoolVar(&textLayer, "text-layer", false, "use the PDF text layer when a page has one, vision OCR otherwise")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (default: LOG_LEVEL)")
}

func runExcavate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	chatClient, err := service.NewChatClient(cfg, logger.Named("llm"))
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	if closer, ok := chatClient.(io.Closer); ok {
		defer closer.Close()
	}

	if cacheFile == "" {
		cacheFile = filepath.Join(outDir, ".excavate_cache.json")
	}

	processor := batch.NewProcessor(
		service.NewOCRService(chatClient, service.NewFitzRenderer(), cfg.LLM.VisionModel, cfg.LLM.VisionMaxTokens, logger.Named("ocr")),
		service.NewExtractionService(chatClient, cfg.LLM.ExtractionModel, logger.Named("extraction")),
		service.NewExportService(logger.Named("export")),
		repository.NewTableRepository(logger.Named("tables")),
		batch.Options{
			OutDir:    outDir,
			CacheFile: cacheFile,
			Force:     force,
			MaxPages:  maxPages,
			TextLayer: textLayer,
		},
		appLogger,
	)

	summary, err := processor.Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	appLogger.Info("Excavation finished",
		zap.Int("processed", summary.Processed),
		zap.Int("incomplete", summary.Incomplete),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.String("out", outDir),
	)
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Processed+summary.Skipped+summary.Failed)
	}
	return nil
}
