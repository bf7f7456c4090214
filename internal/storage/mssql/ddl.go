package mssql

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
		return "NVARCHAR(MAX)", nil
	case ddl.Timestamp:
		return "DATETIME2", nil
	default:
		return "", ddl.UnsupportedType(t)
	}
}

// BuildCreateTableSQL returns a T-SQL CREATE TABLE statement for t:
//
//	CREATE TABLE [schema].[table] (
//	  [col1] TYPE [NOT NULL],
//	  ...
//	);
func BuildCreateTableSQL(t ddl.TableDef) (string, error) {
	cols, err := dialect.ColumnList(t, "  ")
	if err != nil {
		return "", fmt.Errorf("mssql %w", err)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);", quoteFQN(t.Name), cols), nil
}

// BuildDropTableSQL returns a drop guarded by OBJECT_ID, which works on
// every supported SQL Server version:
//
//	IF OBJECT_ID(N'[table]', N'U') IS NOT NULL DROP TABLE [table];
func BuildDropTableSQL(name string) string {
	q := quoteFQN(name)
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NOT NULL DROP TABLE %s;",
		strings.ReplaceAll(q, "'", "''"), q)
}

// quoteIdent quotes a single identifier segment using bracket syntax,
// escaping closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func quoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// quoteFQN quotes a possibly schema-qualified table name:
//
//	"dbo.Users" -> [dbo].[Users]
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
