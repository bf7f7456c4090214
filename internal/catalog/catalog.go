// Package catalog holds the fixed layout of the five ml-100k source files.
package catalog

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// GenreFlagCount is the width of the one-hot genre block in u.item.
const GenreFlagCount = 19

// Encoding names the character encoding of a source file.
type Encoding string

const (
	EncodingASCII  Encoding = "ascii"
	EncodingLatin1 Encoding = "iso-8859-1"
)

// Charset returns the decoder charset for e, or nil when bytes can be used as-is.
func (e Encoding) Charset() (encoding.Encoding, error) {
	switch e {
	case EncodingASCII, "":
		return nil, nil
	case EncodingLatin1:
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("catalog: unsupported encoding %q", string(e))
	}
}

// ColumnType is the parse type of a source column.
type ColumnType string

const (
	TypeText    ColumnType = "text"
	TypeInteger ColumnType = "integer"
)

// Column is one positional field of a source file.
type Column struct {
	Name string
	Type ColumnType
}

// Source describes one delimited source file.
type Source struct {
	Name      string
	File      string
	Delimiter rune
	Encoding  Encoding
	Columns   []Column
}

// Width is the expected number of fields per row.
func (s Source) Width() int { return len(s.Columns) }

// ColumnNames returns the ordered column names.
func (s Source) ColumnNames() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

var (
	Genres = Source{
		Name:      "genre",
		File:      "u.genre",
		Delimiter: '|',
		Encoding:  EncodingASCII,
		Columns: []Column{
			{Name: "genre_name", Type: TypeText},
			{Name: "id", Type: TypeInteger},
		},
	}

	Occupations = Source{
		Name:      "occupation",
		File:      "u.occupation",
		Delimiter: '|',
		Encoding:  EncodingASCII,
		Columns: []Column{
			{Name: "occupation_name", Type: TypeText},
		},
	}

	Users = Source{
		Name:      "user",
		File:      "u.user",
		Delimiter: '|',
		Encoding:  EncodingASCII,
		Columns: []Column{
			{Name: "user_id", Type: TypeInteger},
			{Name: "age", Type: TypeInteger},
			{Name: "gender", Type: TypeText},
			{Name: "occupation", Type: TypeText},
			{Name: "zip_code", Type: TypeText},
		},
	}

	Items = Source{
		Name:      "item",
		File:      "u.item",
		Delimiter: '|',
		Encoding:  EncodingLatin1,
		Columns:   itemColumns(),
	}

	Ratings = Source{
		Name:      "rating",
		File:      "u.data",
		Delimiter: '\t',
		Encoding:  EncodingASCII,
		Columns: []Column{
			{Name: "user_id", Type: TypeInteger},
			{Name: "movie_id", Type: TypeInteger},
			{Name: "rating", Type: TypeInteger},
			{Name: "timestamp", Type: TypeInteger},
		},
	}
)

// ItemFixedColumns is the number of u.item columns before the genre flags.
const ItemFixedColumns = 5

func itemColumns() []Column {
	cols := []Column{
		{Name: "movie_id", Type: TypeInteger},
		{Name: "title", Type: TypeText},
		{Name: "release_date", Type: TypeText},
		{Name: "video_release_date", Type: TypeText},
		{Name: "imdb_url", Type: TypeText},
	}
	for i := 0; i < GenreFlagCount; i++ {
		cols = append(cols, Column{Name: fmt.Sprintf("genre_%d", i), Type: TypeInteger})
	}
	return cols
}

// All returns the sources in load order.
func All() []Source {
	return []Source{Genres, Occupations, Users, Items, Ratings}
}
