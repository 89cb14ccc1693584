package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"maxcavator/internal/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	indexSheet       = "Tables"
	maxSheetNameLen  = 31
	invalidSheetRune = ":\\/?*[]"
)

type ExportService struct {
	logger *zap.Logger
}

func NewExportService(logger *zap.Logger) *ExportService {
	return &ExportService{logger: logger}
}

// ExportTablesXLSX writes an index sheet plus one sheet per table and returns
// the workbook bytes.
func (s *ExportService) ExportTablesXLSX(tables []models.TableData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", indexSheet); err != nil {
		return nil, fmt.Errorf("failed to name index sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, indexSheet, 1, []any{"Sheet", "Table", "Description", "Rows"}); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(indexSheet, 1, 1, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style index header: %w", err)
	}

	used := map[string]struct{}{strings.ToLower(indexSheet): {}}
	for i := range tables {
		table := &tables[i]
		sheet := uniqueSheetName(table.TableName, i, used)

		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}
		if err := writeTableSheet(f, sheet, table, headerStyle); err != nil {
			return nil, err
		}
		if err := writeRow(f, indexSheet, i+2, []any{sheet, table.TableName, table.Description, len(table.Rows)}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Tables exported to XLSX",
		zap.Int("tables", len(tables)),
		zap.Int("bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

func writeTableSheet(f *excelize.File, sheet string, table *models.TableData, headerStyle int) error {
	columns := table.Columns()

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	if len(columns) > 0 {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("failed to style header of %q: %w", sheet, err)
		}
	}

	for r, row := range table.Rows {
		values := make([]any, len(columns))
		for c, col := range columns {
			values[c] = cellValue(row[col], table.ColumnType(col).IsNumeric())
		}
		if err := writeRow(f, sheet, r+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		if value == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// cellValue converts a loosely typed row value for the workbook. Numeric
// columns get numbers whenever the value parses as one.
func cellValue(value any, numeric bool) any {
	switch v := value.(type) {
	case nil:
		return nil
	case json.Number:
		if f, err := v.Float64(); err == nil && numeric {
			return f
		}
		return v.String()
	case float64:
		return v
	case bool:
		return v
	case string:
		v = sanitizeUTF8(v)
		if numeric {
			cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
			if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
				return f
			}
		}
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}

func uniqueSheetName(tableName string, index int, used map[string]struct{}) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetRune, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(tableName))
	name = strings.Trim(name, "'")
	if name == "" {
		name = fmt.Sprintf("table_%d", index+1)
	}
	name = truncateRunes(name, maxSheetNameLen)

	candidate := name
	for n := 2; ; n++ {
		if _, taken := used[strings.ToLower(candidate)]; !taken {
			break
		}
		suffix := "_" + strconv.Itoa(n)
		candidate = truncateRunes(name, maxSheetNameLen-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = struct{}{}
	return candidate
}
