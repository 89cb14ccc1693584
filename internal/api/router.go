package api

import (
	"maxcavator/docs"
	"maxcavator/internal/api/handlers"
	"maxcavator/pkg/config"
	"maxcavator/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Extraction *handlers.ExtractionHandler
	Embed      *handlers.EmbedHandler
	Proxy      *handlers.ProxyHandler
	Export     *handlers.ExportHandler
}

func SetupRouter(h Handlers, cfg *config.ServerConfig, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Maxcavator Backend",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))
	app.Use(middleware.RequestLogger(appLogger))

	// importing docs registers the swagger document through its init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Maxcavator Backend Running",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/extract", h.Extraction.Extract)
	app.Post("/vision_ocr", h.Extraction.VisionOCR)
	app.Post("/vision_ocr_pdf", h.Extraction.VisionOCRPDF)
	app.Post("/pdf_text", h.Extraction.PDFText)
	app.Post("/query", h.Extraction.Query)
	app.Post("/embed", h.Embed.Embed)
	app.Get("/proxy_pdf", h.Proxy.ProxyPDF)

	app.Post("/render_sql", h.Export.RenderSQL)
	app.Post("/export/xlsx", h.Export.ExportXLSX)

	return app
}
