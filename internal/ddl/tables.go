package ddl

// The three persisted tables. Column order matches dataset.UserRows,
// dataset.ItemRows and dataset.RatingRows.
var (
	Users = TableDef{
		Name: "Users",
		Columns: []ColumnDef{
			{Name: "user_id", Type: Integer},
			{Name: "age", Type: Integer},
			{Name: "gender", Type: Text},
			{Name: "occupation", Type: Text},
			{Name: "zip_code", Type: Text},
		},
	}

	Movies = TableDef{
		Name: "Movies",
		Columns: []ColumnDef{
			{Name: "movie_id", Type: Integer},
			{Name: "title", Type: Text},
			{Name: "release_date", Type: Text, Nullable: true},
			{Name: "video_release_date", Type: Text, Nullable: true},
			{Name: "imdb_url", Type: Text, Nullable: true},
			{Name: "genres", Type: Text},
		},
	}

	Ratings = TableDef{
		Name: "Ratings",
		Columns: []ColumnDef{
			{Name: "user_id", Type: Integer},
			{Name: "movie_id", Type: Integer},
			{Name: "rating", Type: Integer},
			{Name: "timestamp", Type: Timestamp},
		},
	}
)

// Tables returns the persisted tables in write order.
func Tables() []TableDef {
	return []TableDef{Users, Movies, Ratings}
}
