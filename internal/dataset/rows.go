package dataset

// Row values are produced in the column order of the persisted tables
// (see ddl.Users, ddl.Movies, ddl.Ratings).

// UserRows converts users into store rows.
func UserRows(us []User) [][]any {
	out := make([][]any, len(us))
	for i, u := range us {
		out[i] = []any{int64(u.UserID), int64(u.Age), string(u.Gender), u.Occupation, u.ZipCode}
	}
	return out
}

// ItemRows converts flattened items into store rows. Empty optional text
// fields persist as NULL; Genres is kept verbatim, including "".
func ItemRows(items []Item) [][]any {
	out := make([][]any, len(items))
	for i, it := range items {
		out[i] = []any{
			int64(it.MovieID),
			it.Title,
			nullable(it.ReleaseDate),
			nullable(it.VideoReleaseDate),
			nullable(it.IMDbURL),
			it.Genres,
		}
	}
	return out
}

// RatingRows converts ratings into store rows.
func RatingRows(rs []Rating) [][]any {
	out := make([][]any, len(rs))
	for i, r := range rs {
		out[i] = []any{int64(r.UserID), int64(r.MovieID), int64(r.Rating), r.Timestamp.UTC()}
	}
	return out
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
