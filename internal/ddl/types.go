// Package ddl defines a small, backend-agnostic model of the persisted
// tables and the shared rendering of their column lists.
//
// Backends (internal/storage/<kind>) map the logical column types onto
// their dialect and add their own CREATE/DROP wrappers and quoting.
package ddl

import (
	"fmt"
	"strings"
)

// Type is a logical column type.
type Type int

const (
	Integer Type = iota
	Text
	Timestamp
)

func (t Type) String() string {
	switch t {
	case Integer:
		return "integer"
	case Text:
		return "text"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// ColumnDef describes one column. Name is unquoted.
type ColumnDef struct {
	Name     string
	Type     Type
	Nullable bool
}

// TableDef is a table name and its ordered columns.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// ColumnNames returns the ordered, unquoted column names.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Dialect renders identifiers and types for one backend.
type Dialect struct {
	Quote    func(ident string) string
	TypeName func(Type) (string, error)
}

// ColumnList renders the column definitions of t, one per line, each line
// prefixed with indent:
//
//	<quoted name> <type> [NOT NULL]
func (d Dialect) ColumnList(t TableDef, indent string) (string, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s has no columns", name)
	}

	lines := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		col := strings.TrimSpace(c.Name)
		if col == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", name)
		}
		typ, err := d.TypeName(c.Type)
		if err != nil {
			return "", fmt.Errorf("ddl: column %s.%s: %w", name, col, err)
		}

		var sb strings.Builder
		sb.WriteString(indent)
		sb.WriteString(d.Quote(col))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, ",\n"), nil
}

// QuotedColumns returns the quoted column names of t.
func (d Dialect) QuotedColumns(t TableDef) []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = d.Quote(c.Name)
	}
	return out
}

// UnsupportedType is returned by TypeName implementations.
func UnsupportedType(t Type) error {
	return fmt.Errorf("unsupported column type %s", t)
}
