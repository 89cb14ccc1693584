package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const twoTables = `{
  "tables": [
    {
      "table_name": "balance_sheet_2023",
      "description": "Assets and liabilities",
      "schema_list": [{"name": "item", "type": "TEXT"}, {"name": "amount", "type": "NUMERIC"}],
      "rows": [{"item": "Cash", "amount": 1250.75}, {"item": "Debt", "amount": 300}]
    },
    {
      "table_name": "headcount",
      "description": "Employees per site",
      "schema_list": [{"name": "site", "type": "TEXT"}],
      "rows": []
    }
  ]
}`

func TestParseTablesWrappedObject(t *testing.T) {
	tables, err := ParseTables(twoTables)
	if err != nil {
		t.Fatalf("ParseTables() error = %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}

	first := tables[0]
	if first.TableName != "balance_sheet_2023" || first.Description != "Assets and liabilities" {
		t.Fatalf("unexpected table header: %+v", first)
	}
	if len(first.SchemaList) != 2 || first.SchemaList[1].Name != "amount" || first.SchemaList[1].Type != "NUMERIC" {
		t.Fatalf("unexpected schema list: %+v", first.SchemaList)
	}
	if len(first.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(first.Rows))
	}
	if amount, ok := first.Rows[0]["amount"].(json.Number); !ok || amount.String() != "1250.75" {
		t.Fatalf("expected amount to keep its literal value, got %#v", first.Rows[0]["amount"])
	}
	if tables[1].Rows == nil {
		t.Fatal("expected empty rows to decode as an empty slice")
	}
}

func TestParseTablesBareArray(t *testing.T) {
	var wrapped struct {
		Tables json.RawMessage `json:"tables"`
	}
	if err := json.Unmarshal([]byte(twoTables), &wrapped); err != nil {
		t.Fatal(err)
	}

	fromArray, err := ParseTables(string(wrapped.Tables))
	if err != nil {
		t.Fatalf("ParseTables() error = %v", err)
	}
	fromObject, err := ParseTables(twoTables)
	if err != nil {
		t.Fatalf("ParseTables() error = %v", err)
	}

	a, _ := json.Marshal(fromArray)
	b, _ := json.Marshal(fromObject)
	if string(a) != string(b) {
		t.Fatalf("bare array and wrapped object differ:\n%s\n%s", a, b)
	}
}

func TestParseTablesUnknownShapes(t *testing.T) {
	for _, raw := range []string{`{"foo": 1}`, `"tables"`, `42`, `null`, `{}`} {
		tables, err := ParseTables(raw)
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", raw, err)
		}
		if tables == nil || len(tables) != 0 {
			t.Fatalf("%s: expected empty non-nil result, got %#v", raw, tables)
		}
	}
}

func TestParseTablesRejectsBadPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":         `Here are your tables: none`,
		"truncated":        `{"tables": [{"table_name": "x"`,
		"missing field":    `{"tables": [{"table_name": "x", "schema_list": [], "rows": []}]}`,
		"wrong type":       `[{"table_name": 7, "description": "", "schema_list": [], "rows": []}]`,
		"row not object":   `[{"table_name": "x", "description": "", "schema_list": [], "rows": [[1, 2]]}]`,
		"tables not array": `{"tables": {"table_name": "x"}}`,
		"trailing data":    `[] []`,
		"stray bracket":    `{"tables":[]}]`,
		"stray brace":      `[]}`,
	}
	for name, raw := range cases {
		if tables, err := ParseTables(raw); err == nil {
			t.Fatalf("%s: expected error, got %#v", name, tables)
		}
	}
}

func TestExtractTablesSuccess(t *testing.T) {
	client := &fakeChatClient{content: twoTables}
	svc := NewExtractionService(client, "openai/gpt-oss-120b", zap.NewNop())

	result := svc.ExtractTables(context.Background(), "Item Amount\nCash 1250.75")

	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(result.Tables))
	}

	req := client.lastRequest()
	if !req.JSONMode || req.Temperature != 0 || req.Model != "openai/gpt-oss-120b" {
		t.Fatalf("unexpected request settings: %+v", req)
	}
	if !strings.Contains(req.System, "'tables' key") {
		t.Fatalf("expected tables key reminder in system prompt")
	}

	if result.DebugInfo["ocr_text"] != "Item Amount\nCash 1250.75" {
		t.Fatalf("unexpected ocr_text: %q", result.DebugInfo["ocr_text"])
	}
	if result.DebugInfo["raw_response"] != twoTables {
		t.Fatalf("expected raw response in debug info")
	}

	var sent []promptMessage
	if err := json.Unmarshal([]byte(result.DebugInfo["prompt_sent"]), &sent); err != nil {
		t.Fatalf("prompt_sent is not JSON: %v", err)
	}
	if len(sent) != 2 || sent[0].Role != "system" || sent[1].Content != "Item Amount\nCash 1250.75" {
		t.Fatalf("unexpected prompt_sent: %+v", sent)
	}
}

func TestExtractTablesUnparseableResponse(t *testing.T) {
	client := &fakeChatClient{content: "Sorry, I cannot find tables."}
	svc := NewExtractionService(client, "m", zap.NewNop())

	result := svc.ExtractTables(context.Background(), "text")

	if len(result.Tables) != 0 || result.Tables == nil {
		t.Fatalf("expected empty tables, got %#v", result.Tables)
	}
	if result.Err == nil || result.Err.Kind != ErrorKindResponseUnparseable {
		t.Fatalf("expected response_unparseable, got %v", result.Err)
	}
	if result.DebugInfo["raw_response"] != "Sorry, I cannot find tables." {
		t.Fatalf("expected raw response to be kept, got %q", result.DebugInfo["raw_response"])
	}
	if result.DebugInfo["error_kind"] != string(ErrorKindResponseUnparseable) {
		t.Fatalf("expected error_kind in debug info, got %v", result.DebugInfo)
	}
}

func TestExtractTablesUnknownShapeIsNotAnError(t *testing.T) {
	svc := NewExtractionService(&fakeChatClient{content: `{"foo": 1}`}, "m", zap.NewNop())

	result := svc.ExtractTables(context.Background(), "text")

	if result.Err != nil {
		t.Fatalf("expected success, got %v", result.Err)
	}
	if len(result.Tables) != 0 {
		t.Fatalf("expected no tables, got %d", len(result.Tables))
	}
}

func TestExtractTablesRemoteFailure(t *testing.T) {
	svc := NewExtractionService(&fakeChatClient{err: errRemote}, "m", zap.NewNop())

	result := svc.ExtractTables(context.Background(), "text")

	if result.Err == nil || result.Err.Kind != ErrorKindRemoteCallFailed {
		t.Fatalf("expected remote_call_failed, got %v", result.Err)
	}
	if !errors.Is(result.Err, errRemote) {
		t.Fatalf("expected wrapped remote error")
	}
	if _, ok := result.DebugInfo["raw_response"]; ok {
		t.Fatal("no raw response expected when the call failed")
	}
	if result.DebugInfo["prompt_sent"] == "" || result.DebugInfo["error"] == "" {
		t.Fatalf("expected prompt and error in debug info, got %v", result.DebugInfo)
	}
}
