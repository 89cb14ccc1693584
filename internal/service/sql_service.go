package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type SQLService struct {
	client ChatClient
	model  string
	logger *zap.Logger
}

func NewSQLService(client ChatClient, model string, logger *zap.Logger) *SQLService {
	return &SQLService{
		client: client,
		model:  model,
		logger: logger,
	}
}

// GenerateSQL turns a question and a table schema into one SQL statement.
// The statement is neither validated nor executed. Failures are *AdapterError.
func (s *SQLService) GenerateSQL(ctx context.Context, question string, schema map[string]any) (string, error) {
	schemaJSON, err := marshalSchema(schema)
	if err != nil {
		return "", newAdapterError(ErrorKindResponseUnparseable, fmt.Errorf("failed to encode table schema: %w", err))
	}

	resp, err := s.client.Complete(ctx, ChatRequest{
		Model:       s.model,
		System:      sqlSystemPrompt,
		User:        fmt.Sprintf(sqlGenerationPrompt, question, schemaJSON),
		Temperature: 0,
	})
	if err != nil {
		s.logger.Error("SQL generation call failed", zap.String("model", s.model), zap.Error(err))
		return "", newAdapterError(ErrorKindRemoteCallFailed, err)
	}

	sql := CleanSQL(resp.Content)

	s.logger.Info("SQL generated",
		zap.String("model", s.model),
		zap.Int("sql_length", len(sql)),
	)

	return sql, nil
}

// CleanSQL removes Markdown code fences and surrounding whitespace.
func CleanSQL(content string) string {
	sql := strings.TrimSpace(content)
	sql = strings.ReplaceAll(sql, "```sql", "")
	sql = strings.ReplaceAll(sql, "```", "")
	return strings.TrimSpace(sql)
}

func marshalSchema(schema map[string]any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// comparison operators in sample values must reach the model untouched
	enc.SetEscapeHTML(false)
	if err := enc.Encode(schema); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
