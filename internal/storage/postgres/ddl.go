package postgres

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
		return "TIMESTAMPTZ", nil
	default:
		return "", ddl.UnsupportedType(t)
	}
}

// BuildCreateTableSQL returns a CREATE TABLE statement for t:
//
//	CREATE TABLE "table" (
//	  "col1" TYPE [NOT NULL],
//	  ...
//	);
func BuildCreateTableSQL(t ddl.TableDef) (string, error) {
	cols, err := dialect.ColumnList(t, "  ")
	if err != nil {
		return "", fmt.Errorf("postgres %w", err)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);", quoteFQN(t.Name), cols), nil
}

// BuildDropTableSQL returns a DROP TABLE IF EXISTS statement for name.
func BuildDropTableSQL(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteFQN(name))
}

// quoteIdent quotes one identifier segment with double quotes.
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// quoteFQN quotes a possibly schema-qualified name:
//
//	"public.Users" -> "public"."Users"
func quoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, quoteIdent(p))
		}
	}
	return strings.Join(out, ".")
}

// identifier splits a possibly schema-qualified name for pgx.CopyFrom.
func identifier(fqn string) []string {
	var out []string
	for _, p := range strings.Split(fqn, ".") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
