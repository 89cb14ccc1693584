package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"maxcavator/internal/models"
)

// RenderScript inlines statement arguments as SQL literals and joins the
// statements into a script that psql can run as-is.
func RenderScript(statements []models.Statement) (string, error) {
	var b strings.Builder
	for i, stmt := range statements {
		sql, err := inlineArgs(stmt)
		if err != nil {
			return "", fmt.Errorf("statement %d: %w", i+1, err)
		}
		b.WriteString(sql)
		if !strings.HasSuffix(sql, ";") {
			b.WriteByte(';')
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// inlineArgs replaces $n placeholders outside quoted identifiers and string
// literals, so a column named "Revenue ($1M)" is left alone.
func inlineArgs(stmt models.Statement) (string, error) {
	sql := stmt.SQL
	var b strings.Builder
	b.Grow(len(sql))

	var quote byte
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case quote != 0:
			// a doubled quote inside a span toggles twice and stays inside
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '$':
			j := i + 1
			for j < len(sql) && sql[j] >= '0' && sql[j] <= '9' {
				j++
			}
			if j == i+1 {
				break
			}
			n, err := strconv.Atoi(sql[i+1 : j])
			if err != nil || n < 1 || n > len(stmt.Args) {
				return "", fmt.Errorf("placeholder %s has no argument", sql[i:j])
			}
			b.WriteString(literal(stmt.Args[n-1]))
			i = j - 1
			continue
		}
		b.WriteByte(ch)
	}
	if quote != 0 {
		return "", fmt.Errorf("unterminated %c quote", quote)
	}
	return b.String(), nil
}

func literal(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		if _, err := v.Float64(); err == nil {
			return v.String()
		}
		return quoteLiteral(v.String())
	case string:
		return quoteLiteral(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return quoteLiteral(fmt.Sprint(v))
		}
		return quoteLiteral(string(data))
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
