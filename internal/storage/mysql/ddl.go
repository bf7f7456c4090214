package mysql

import (
	"fmt"
	"strings"

	"ml100k/internal/ddl"
)

var dialect = ddl.Dialect{Quote: quoteIdent, TypeName: typeName}

func typeName(t ddl.Type) (string, error) {
	switch t {
	case ddl.Integer:
		return "BIGINT", nil
	case ddl.Text:
		return "TEXT", nil
	case ddl.Timestamp:
		return "DATETIME", nil
	default:
		return "", ddl.UnsupportedType(t)
	}
}

// BuildCreateTableSQL returns a CREATE TABLE statement for t with a utf8mb4
// default charset so Latin-1 titles decoded to UTF-8 round-trip.
func BuildCreateTableSQL(t ddl.TableDef) (string, error) {
	cols, err := dialect.ColumnList(t, "  ")
	if err != nil {
		return "", fmt.Errorf("mysql %w", err)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n) DEFAULT CHARSET=utf8mb4;", quoteIdent(t.Name), cols), nil
}

// BuildDropTableSQL returns a DROP TABLE IF EXISTS statement for name.
func BuildDropTableSQL(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteIdent(name))
}

// BuildInsertSQL returns a multi-row INSERT for n rows of t.
func BuildInsertSQL(t ddl.TableDef, n int) string {
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?,", len(t.Columns)), ",") + ")"
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ",
		quoteIdent(t.Name), strings.Join(dialect.QuotedColumns(t), ","))
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(tuple)
	}
	return sb.String()
}

func quoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}
