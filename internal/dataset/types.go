// Package dataset holds the in-memory tables of one pipeline run.
//
// Tables are plain ordered slices; row order is source order and is
// preserved through every stage so that runs are reproducible.
package dataset

import (
	"time"

	"ml100k/internal/catalog"
)

// Gender is the u.user gender code.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Valid reports whether g is one of the documented codes.
func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

// Genre is a row of u.genre.
type Genre struct {
	Name string
	ID   int
}

// Occupation is a row of u.occupation.
type Occupation struct {
	Name string
}

// User is a row of u.user.
type User struct {
	UserID     int
	Age        int
	Gender     Gender
	Occupation string
	ZipCode    string
}

// RawItem is a row of u.item with its one-hot genre block.
type RawItem struct {
	MovieID          int
	Title            string
	ReleaseDate      string
	VideoReleaseDate string
	IMDbURL          string
	Flags            [catalog.GenreFlagCount]int
}

// Item is a movie with its genre flags collapsed into Genres.
type Item struct {
	MovieID          int
	Title            string
	ReleaseDate      string
	VideoReleaseDate string
	IMDbURL          string
	// Genres is the ascending, comma-joined list of set flag indices;
	// empty when no flag is set.
	Genres string
}

// RawRating is a row of u.data.
type RawRating struct {
	UserID    int
	MovieID   int
	Rating    int
	Timestamp int64 // epoch seconds
}

// Rating is a rating with its timestamp normalized to UTC.
type Rating struct {
	UserID    int
	MovieID   int
	Rating    int
	Timestamp time.Time
}

// Raw is the output of ingestion: one table per source file.
type Raw struct {
	Genres      []Genre
	Occupations []Occupation
	Users       []User
	Items       []RawItem
	Ratings     []RawRating
}

// Tables are the three primary tables after transformation.
type Tables struct {
	Users   []User
	Items   []Item
	Ratings []Rating
}
