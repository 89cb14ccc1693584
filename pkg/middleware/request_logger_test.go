package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerKeepsClientRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New()
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(RequestIDKey).(string))
	})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}

	if got := resp.Header.Get(fiber.HeaderXRequestID); got != "abc-123" {
		t.Fatalf("response request id = %q", got)
	}

	entries := logs.FilterMessage("Request handled").All()
	if len(entries) != 1 {
		t.Fatalf("expected one access log entry, got %d", logs.Len())
	}
	if entries[0].ContextMap()["request_id"] != "abc-123" {
		t.Fatalf("unexpected fields: %v", entries[0].ContextMap())
	}
}

func TestRequestLoggerLevelsByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New()
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/missing", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "boom")
	})

	for _, path := range []string{"/missing", "/boom"} {
		if _, err := app.Test(httptest.NewRequest("GET", path, nil)); err != nil {
			t.Fatal(err)
		}
	}

	if logs.FilterMessage("Request rejected").Len() != 1 {
		t.Fatal("expected a warn entry for 404")
	}
	if logs.FilterMessage("Request failed").Len() != 1 {
		t.Fatal("expected an error entry for 500")
	}
	if got := logs.FilterMessage("Request failed").All()[0].Level; got != zapcore.ErrorLevel {
		t.Fatalf("level = %v", got)
	}
}
