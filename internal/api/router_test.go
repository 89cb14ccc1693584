package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"maxcavator/internal/api/handlers"
	"maxcavator/internal/dto"
	"maxcavator/internal/repository"
	"maxcavator/internal/service"
	"maxcavator/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
)

type stubChatClient struct {
	content string
	err     error
}

func (s *stubChatClient) Complete(_ context.Context, req service.ChatRequest) (*service.ChatResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.ChatResponse{Content: s.content, Model: req.Model, TotalTokens: 42}, nil
}

type stubRenderer struct {
	pages int
	text  string
}

func (r stubRenderer) PageCount(_ []byte) (int, error) { return r.pages, nil }

func (r stubRenderer) RenderPNG(_ []byte, _ int) ([]byte, error) { return []byte("png"), nil }

func (r stubRenderer) Text(_ []byte, _ int) (string, error) { return r.text, nil }

func newTestApp(client service.ChatClient) *fiber.App {
	logger := zap.NewNop()
	renderer := stubRenderer{pages: 2, text: "Balance sheet\nCash 100\n"}
	ocr := service.NewOCRService(client, renderer, "vision", 0, logger)
	extraction := service.NewExtractionService(client, "text", logger)
	sql := service.NewSQLService(client, "text", logger)
	proxy := service.NewProxyService(&config.ProxyConfig{MaxBytes: 1 << 20}, logger)

	h := Handlers{
		Extraction: handlers.NewExtractionHandler(ocr, extraction, sql, logger),
		Embed:      handlers.NewEmbedHandler(384),
		Proxy:      handlers.NewProxyHandler(proxy, logger),
		Export:     handlers.NewExportHandler(service.NewExportService(logger), repository.NewTableRepository(logger), logger),
	}
	return SetupRouter(h, &config.ServerConfig{CORSAllowOrigins: "*"}, logger)
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp, data
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(&stubChatClient{})

	for _, path := range []string{"/", "/health"} {
		resp, body := doJSON(t, app, http.MethodGet, path, "")
		if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"status":"ok"`) {
			t.Fatalf("GET %s: %d %s", path, resp.StatusCode, body)
		}
		if resp.Header.Get(fiber.HeaderXRequestID) == "" {
			t.Fatalf("GET %s: missing request id header", path)
		}
	}
}

func TestExtractReturnsTables(t *testing.T) {
	app := newTestApp(&stubChatClient{
		content: `{"tables":[{"table_name":"t","description":"d","schema_list":[{"name":"a","type":"NUMERIC"}],"rows":[{"a":1}]}]}`,
	})

	resp, body := doJSON(t, app, http.MethodPost, "/extract", `{"text":"a\n1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var out dto.ExtractionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(out.Tables) != 1 || out.Tables[0].TableName != "t" {
		t.Fatalf("unexpected tables: %s", body)
	}
	if out.DebugInfo["ocr_text"] != "a\n1" || out.DebugInfo["raw_response"] == "" {
		t.Fatalf("unexpected debug info: %v", out.DebugInfo)
	}
}

func TestExtractUnparseableResponseIsNotAnError(t *testing.T) {
	app := newTestApp(&stubChatClient{content: "Sure! Here are the tables:"})

	resp, body := doJSON(t, app, http.MethodPost, "/extract", `{"text":"x"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"tables":[]`) || !strings.Contains(string(body), `"error_kind":"response_unparseable"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestVisionOCRFailureReturnsEmptyText(t *testing.T) {
	app := newTestApp(&stubChatClient{err: errors.New("status 401")})

	resp, body := doJSON(t, app, http.MethodPost, "/vision_ocr", `{"image":"iVBORw0KGgo="}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out dto.VisionOCRResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if out.Text != "" || out.DebugInfo["error_kind"] != "remote_call_failed" {
		t.Fatalf("unexpected response: %s", body)
	}
}

func TestQuery(t *testing.T) {
	app := newTestApp(&stubChatClient{content: "```sql\nSELECT SUM(amount) FROM sales;\n```"})

	resp, body := doJSON(t, app, http.MethodPost, "/query", `{"user_query":"total?","table_schema":{"table_name":"sales"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"sql":"SELECT SUM(amount) FROM sales;"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestQueryRemoteFailureIsBadGateway(t *testing.T) {
	app := newTestApp(&stubChatClient{err: errors.New("connection refused")})

	resp, body := doJSON(t, app, http.MethodPost, "/query", `{"user_query":"total?","table_schema":{}}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"error_kind":"remote_call_failed"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestEmbedReturnsZeroVector(t *testing.T) {
	app := newTestApp(&stubChatClient{})

	resp, body := doJSON(t, app, http.MethodPost, "/embed", `{"text":"hello"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out dto.EmbedResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(out.Embedding) != 384 {
		t.Fatalf("expected 384 dimensions, got %d", len(out.Embedding))
	}
	for i, v := range out.Embedding {
		if v != 0 {
			t.Fatalf("embedding[%d] = %v", i, v)
		}
	}
}

func TestMalformedBodiesAreRejected(t *testing.T) {
	app := newTestApp(&stubChatClient{})

	for _, path := range []string{"/extract", "/vision_ocr", "/vision_ocr_pdf", "/pdf_text", "/query", "/embed", "/render_sql", "/export/xlsx"} {
		resp, body := doJSON(t, app, http.MethodPost, path, `{"text":`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("POST %s: status = %d, body = %s", path, resp.StatusCode, body)
		}
	}
}

func TestRenderSQL(t *testing.T) {
	app := newTestApp(&stubChatClient{})

	payload := `{"source_doc_id":"5f0c7d2e-8a57-4f7e-9a0c-3d4c1b2a9e10","page_num":2,"tables":[{"table_name":"t","schema_list":[{"name":"a","type":"TEXT"}],"rows":[{"a":"x"}]}]}`
	resp, body := doJSON(t, app, http.MethodPost, "/render_sql", payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var out dto.RenderSQLResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if out.SourceDocID != "5f0c7d2e-8a57-4f7e-9a0c-3d4c1b2a9e10" || len(out.Statements) != 2 {
		t.Fatalf("unexpected response: %s", body)
	}
}

func TestRenderSQLRejectsBadDocumentID(t *testing.T) {
	app := newTestApp(&stubChatClient{})

	resp, _ := doJSON(t, app, http.MethodPost, "/render_sql", `{"source_doc_id":"nope","tables":[]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestExportXLSX(t *testing.T) {
	app := newTestApp(&stubChatClient{})

	resp, body := doJSON(t, app, http.MethodPost, "/export/xlsx", `{"tables":[{"table_name":"t","schema_list":[],"rows":[]}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/vnd.openxmlformats") {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	// xlsx files are zip archives
	if len(body) < 2 || string(body[:2]) != "PK" {
		t.Fatal("expected zip payload")
	}
}

func TestProxyRejectsNonHTTPURL(t *testing.T) {
	app := newTestApp(&stubChatClient{})

	resp, _ := doJSON(t, app, http.MethodGet, "/proxy_pdf?url=file:///etc/passwd", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestVisionOCRPDFRejectsBadBase64(t *testing.T) {
	app := newTestApp(&stubChatClient{})

	resp, _ := doJSON(t, app, http.MethodPost, "/vision_ocr_pdf", `{"pdf":"%%%","page":1}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func testPDF(t *testing.T) []byte {
	t.Helper()
	var img bytes.Buffer
	if err := png.Encode(&img, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	var pdf bytes.Buffer
	if err := api.ImportImages(nil, &pdf, []io.Reader{&img}, nil, nil); err != nil {
		t.Fatalf("failed to build PDF: %v", err)
	}
	return pdf.Bytes()
}

func TestProxyRelaysPDF(t *testing.T) {
	pdf := testPDF(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old.pdf" {
			http.Redirect(w, r, "/paper.pdf", http.StatusFound)
			return
		}
		_, _ = w.Write(pdf)
	}))
	defer upstream.Close()

	app := newTestApp(&stubChatClient{})

	resp, body := doJSON(t, app, http.MethodGet, "/proxy_pdf?url="+upstream.URL+"/old.pdf", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := resp.Header.Get("Content-Disposition"); got != "inline" {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if got := resp.Header.Get("X-PDF-Page-Count"); got != "1" {
		t.Fatalf("X-PDF-Page-Count = %q", got)
	}
	if !bytes.Equal(body, pdf) {
		t.Fatal("expected PDF bytes to be relayed unchanged")
	}
}

func TestPDFText(t *testing.T) {
	app := newTestApp(&stubChatClient{err: errors.New("model must not be called")})
	pdf := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))

	resp, body := doJSON(t, app, http.MethodPost, "/pdf_text", `{"pdf":"`+pdf+`","page":2}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var out dto.PDFTextResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if out.Text != "Balance sheet\nCash 100" || out.Page != 2 || out.TotalPages != 2 {
		t.Fatalf("unexpected response: %s", body)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/pdf_text", `{"pdf":"`+pdf+`","page":3}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("out of range page: status = %d", resp.StatusCode)
	}
}
