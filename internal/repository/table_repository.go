package repository

import (
	"fmt"
	"strings"

	"maxcavator/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	idColumn        = "id"
	sourceDocColumn = "_source_doc_id"
	pageNumColumn   = "_page_num"
)

// TableRepository renders the statements that materialize extracted tables in
// Postgres. It never executes them; clients run the statements against their
// own database.
type TableRepository struct {
	logger *zap.Logger
}

func NewTableRepository(logger *zap.Logger) *TableRepository {
	return &TableRepository{logger: logger}
}

// CreateStatements returns, per table, a CREATE TABLE IF NOT EXISTS followed by
// one INSERT per row. A nil docID gets a fresh one.
func (r *TableRepository) CreateStatements(tables []models.TableData, docID uuid.UUID, pageNum int) ([]models.Statement, error) {
	if docID == uuid.Nil {
		docID = uuid.New()
	}

	var statements []models.Statement
	for i := range tables {
		table := &tables[i]
		if strings.TrimSpace(table.TableName) == "" {
			return nil, fmt.Errorf("table %d has no name", i)
		}

		statements = append(statements, models.Statement{SQL: CreateTableSQL(table), Args: []any{}})

		inserts, err := r.insertStatements(table, docID, pageNum)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table.TableName, err)
		}
		statements = append(statements, inserts...)
	}

	r.logger.Info("Table statements rendered",
		zap.String("source_doc_id", docID.String()),
		zap.Int("page", pageNum),
		zap.Int("tables", len(tables)),
		zap.Int("statements", len(statements)),
	)

	return statements, nil
}

// CreateTableSQL renders the DDL for a table including the metadata columns
// that tie rows back to their source document and page. Row keys missing from
// the schema become TEXT columns so every rendered INSERT has a target.
func CreateTableSQL(table *models.TableData) string {
	defs := []string{
		idColumn + " UUID DEFAULT gen_random_uuid()",
		quoteIdent(sourceDocColumn) + " UUID",
		quoteIdent(pageNumColumn) + " INTEGER",
	}
	seen := map[string]struct{}{sourceDocColumn: {}, pageNumColumn: {}, idColumn: {}}
	for _, name := range table.Columns() {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		defs = append(defs, quoteIdent(name)+" "+table.ColumnType(name).SQLType())
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteIdent(table.TableName),
		strings.Join(defs, ",\n  "),
	)
}

func (r *TableRepository) insertStatements(table *models.TableData, docID uuid.UUID, pageNum int) ([]models.Statement, error) {
	tableColumns := table.Columns()
	statements := make([]models.Statement, 0, len(table.Rows))
	for _, row := range table.Rows {
		columns := []string{builderIdent(sourceDocColumn), builderIdent(pageNumColumn)}
		values := []any{docID.String(), pageNum}

		for _, key := range tableColumns {
			value, ok := row[key]
			// reserved columns are filled by the database or from metadata
			if !ok || key == idColumn || key == sourceDocColumn || key == pageNumColumn {
				continue
			}
			columns = append(columns, builderIdent(key))
			values = append(values, value)
		}

		query := squirrel.Insert(builderIdent(table.TableName)).
			Columns(columns...).
			Values(values...).
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err := query.ToSql()
		if err != nil {
			return nil, err
		}
		statements = append(statements, models.Statement{SQL: sql, Args: args})
	}
	return statements, nil
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// builderIdent quotes an identifier for use inside a squirrel builder, which
// would otherwise turn a literal ? into a $n placeholder.
func builderIdent(name string) string {
	return strings.ReplaceAll(quoteIdent(name), "?", "??")
}
