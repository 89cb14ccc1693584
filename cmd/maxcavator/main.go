package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"maxcavator/internal/api"
	"maxcavator/internal/api/handlers"
	"maxcavator/internal/repository"
	"maxcavator/internal/service"
	"maxcavator/pkg/config"
	"maxcavator/pkg/logger"

	"go.uber.org/zap"
)

// @title Maxcavator API
// @version 1.0
// @description Relay that asks a hosted LLM to OCR document images, extract tables and write SQL.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Maxcavator service",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("extraction_model", cfg.LLM.ExtractionModel),
		zap.String("vision_model", cfg.LLM.VisionModel),
	)

	chatClient, err := service.NewChatClient(cfg, logger.Named("llm"))
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}
	if closer, ok := chatClient.(io.Closer); ok {
		defer closer.Close()
	}

	// Initialize services
	ocrService := service.NewOCRService(chatClient, service.NewFitzRenderer(), cfg.LLM.VisionModel, cfg.LLM.VisionMaxTokens, logger.Named("ocr"))
	extractionService := service.NewExtractionService(chatClient, cfg.LLM.ExtractionModel, logger.Named("extraction"))
	sqlService := service.NewSQLService(chatClient, cfg.LLM.ExtractionModel, logger.Named("sql"))
	exportService := service.NewExportService(logger.Named("export"))
	proxyService := service.NewProxyService(&cfg.Proxy, logger.Named("proxy"))
	tableRepo := repository.NewTableRepository(logger.Named("tables"))

	// Initialize handlers
	h := api.Handlers{
		Extraction: handlers.NewExtractionHandler(ocrService, extractionService, sqlService, appLogger),
		Embed:      handlers.NewEmbedHandler(cfg.Embedding.Dimensions),
		Proxy:      handlers.NewProxyHandler(proxyService, appLogger),
		Export:     handlers.NewExportHandler(exportService, tableRepo, appLogger),
	}

	app := api.SetupRouter(h, &cfg.Server, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
