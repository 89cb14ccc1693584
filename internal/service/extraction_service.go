package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"maxcavator/internal/models"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// tableDataSchema mirrors models.TableData. Rows stay free-form objects.
const tableDataSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["table_name", "description", "schema_list", "rows"],
  "properties": {
    "table_name": {"type": "string"},
    "description": {"type": "string"},
    "schema_list": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "type"],
        "properties": {
          "name": {"type": "string"},
          "type": {"type": "string"}
        }
      }
    },
    "rows": {
      "type": "array",
      "items": {"type": "object"}
    }
  }
}`

var compileTableDataSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("table_data.json", strings.NewReader(tableDataSchema)); err != nil {
		return nil, fmt.Errorf("failed to load table schema: %w", err)
	}
	schema, err := compiler.Compile("table_data.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile table schema: %w", err)
	}
	return schema, nil
})

// ExtractionResult is the outcome of one table extraction call. Tables is
// never nil; it is empty both when nothing was found and when Err is set.
type ExtractionResult struct {
	Tables    []models.TableData
	DebugInfo DebugInfo
	Err       *AdapterError
}

type ExtractionService struct {
	client ChatClient
	model  string
	logger *zap.Logger
}

func NewExtractionService(client ChatClient, model string, logger *zap.Logger) *ExtractionService {
	return &ExtractionService{
		client: client,
		model:  model,
		logger: logger,
	}
}

type promptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ExtractTables asks the model for the tables contained in text. DebugInfo always
// carries the input text and the prompt, plus the raw response when one arrived.
func (s *ExtractionService) ExtractTables(ctx context.Context, text string) ExtractionResult {
	text = sanitizeUTF8(text)
	system := tableExtractionPrompt + tablesKeyReminder

	debug := DebugInfo{
		"ocr_text":    text,
		"prompt_sent": renderPrompt(system, text),
	}

	resp, err := s.client.Complete(ctx, ChatRequest{
		Model:       s.model,
		System:      system,
		User:        text,
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		aerr := newAdapterError(ErrorKindRemoteCallFailed, err)
		debug.setError(aerr)
		s.logger.Error("Table extraction call failed", zap.String("model", s.model), zap.Error(err))
		return ExtractionResult{Tables: []models.TableData{}, DebugInfo: debug, Err: aerr}
	}

	debug["raw_response"] = resp.Content

	tables, err := ParseTables(resp.Content)
	if err != nil {
		aerr := newAdapterError(ErrorKindResponseUnparseable, err)
		debug.setError(aerr)
		s.logger.Warn("Error parsing AI response",
			zap.String("model", s.model),
			zap.Int("response_length", len(resp.Content)),
			zap.Error(err),
		)
		return ExtractionResult{Tables: []models.TableData{}, DebugInfo: debug, Err: aerr}
	}

	s.logger.Info("Table extraction completed", zap.Int("tables", len(tables)))

	return ExtractionResult{Tables: tables, DebugInfo: debug}
}

// ParseTables decodes a model response into tables. A bare array is taken as
// the table list, an object is read through its "tables" key, and any other
// shape yields no tables. Malformed JSON or a record that does not match the
// table shape fails the whole response.
func ParseTables(raw string) ([]models.TableData, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		value, ok := v["tables"]
		if !ok {
			return []models.TableData{}, nil
		}
		list, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("tables field is %T, expected an array", value)
		}
		items = list
	default:
		return []models.TableData{}, nil
	}

	schema, err := compileTableDataSchema()
	if err != nil {
		return nil, err
	}

	tables := make([]models.TableData, 0, len(items))
	for i, item := range items {
		if err := schema.Validate(item); err != nil {
			return nil, fmt.Errorf("table %d does not match schema: %w", i, err)
		}

		table, err := decodeTable(item)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		tables = append(tables, table)
	}

	return tables, nil
}

func decodeTable(item any) (models.TableData, error) {
	var table models.TableData

	data, err := json.Marshal(item)
	if err != nil {
		return table, fmt.Errorf("failed to re-encode table: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&table); err != nil {
		return table, fmt.Errorf("failed to decode table: %w", err)
	}
	if table.SchemaList == nil {
		table.SchemaList = []models.TableSchema{}
	}
	if table.Rows == nil {
		table.Rows = []map[string]any{}
	}
	return table, nil
}

func renderPrompt(system, user string) string {
	messages := []promptMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
