package sqlite

import (
	"fmt"
	"strings"

	"ml100k/internal/ddl"
)

var dialect = ddl.Dialect{Quote: quoteIdent, TypeName: typeName}

func typeName(t ddl.Type) (string, error) {
	switch t {
	case ddl.Integer:
		return "INTEGER", nil
	case ddl.Text:
		return "TEXT", nil
	case ddl.Timestamp:
		// The declared type lets the driver scan values back into time.Time.
		return "TIMESTAMP", nil
	default:
		return "", ddl.UnsupportedType(t)
	}
}

// BuildCreateTableSQL returns:
//
//	CREATE TABLE "table" (
//	  "col1" TYPE [NOT NULL],
//	  ...
//	);
func BuildCreateTableSQL(t ddl.TableDef) (string, error) {
	cols, err := dialect.ColumnList(t, "  ")
	if err != nil {
		return "", fmt.Errorf("sqlite %w", err)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);", quoteIdent(t.Name), cols), nil
}

// BuildDropTableSQL returns a DROP TABLE IF EXISTS statement for name.
func BuildDropTableSQL(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteIdent(name))
}

// BuildInsertSQL returns a single-row INSERT with ? placeholders.
func BuildInsertSQL(t ddl.TableDef) string {
	ph := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(t.Name), strings.Join(dialect.QuotedColumns(t), ", "), ph)
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
