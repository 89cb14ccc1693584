package models

import (
	"slices"
	"strings"
)

type ColumnType string

const (
	ColumnTypeText    ColumnType = "TEXT"
	ColumnTypeNumeric ColumnType = "NUMERIC"
	ColumnTypeDate    ColumnType = "DATE"
)

// SQLType maps a model-declared column type onto the Postgres type used when
// extracted tables are materialized. Anything that is not NUMERIC is stored as TEXT.
func (t ColumnType) SQLType() string {
	if strings.EqualFold(strings.TrimSpace(string(t)), string(ColumnTypeNumeric)) {
		return string(ColumnTypeNumeric)
	}
	return string(ColumnTypeText)
}

// IsNumeric reports whether the column holds numbers.
func (t ColumnType) IsNumeric() bool {
	return t.SQLType() == string(ColumnTypeNumeric)
}

type TableSchema struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// TableData is one table the model found in a page of text. Row keys are
// expected to match SchemaList names but that is not enforced.
type TableData struct {
	TableName   string           `json:"table_name"`
	Description string           `json:"description"`
	SchemaList  []TableSchema    `json:"schema_list"`
	Rows        []map[string]any `json:"rows"`
}

// Columns returns the declared column names followed by any row keys the
// schema does not mention, in first-seen order.
func (t *TableData) Columns() []string {
	seen := make(map[string]struct{}, len(t.SchemaList))
	columns := make([]string, 0, len(t.SchemaList))
	for _, col := range t.SchemaList {
		if _, ok := seen[col.Name]; ok {
			continue
		}
		seen[col.Name] = struct{}{}
		columns = append(columns, col.Name)
	}

	for _, row := range t.Rows {
		extra := make([]string, 0)
		for key := range row {
			if _, ok := seen[key]; !ok {
				extra = append(extra, key)
			}
		}
		// map iteration order is random; keep the output stable
		slices.Sort(extra)
		for _, key := range extra {
			seen[key] = struct{}{}
			columns = append(columns, key)
		}
	}

	return columns
}

// ColumnType returns the declared type of a column, TEXT when undeclared.
func (t *TableData) ColumnType(name string) ColumnType {
	for _, col := range t.SchemaList {
		if col.Name == name {
			return col.Type
		}
	}
	return ColumnTypeText
}
