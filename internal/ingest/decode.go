package ingest

import (
	"ml100k/internal/catalog"
	"ml100k/internal/dataset"
)

// Decoders for each source. Column positions follow the catalog; integer
// columns were parsed by parseFields.

func (r *rawTables) appendGenre(f fields) error {
	r.Genres = append(r.Genres, dataset.Genre{Name: f.text(0), ID: f.integer(1)})
	return nil
}

func (r *rawTables) appendOccupation(f fields) error {
	r.Occupations = append(r.Occupations, dataset.Occupation{Name: f.text(0)})
	return nil
}

func (r *rawTables) appendUser(f fields) error {
	r.Users = append(r.Users, dataset.User{
		UserID:     f.integer(0),
		Age:        f.integer(1),
		Gender:     dataset.Gender(f.text(2)),
		Occupation: f.text(3),
		ZipCode:    f.text(4),
	})
	return nil
}

func (r *rawTables) appendItem(f fields) error {
	it := dataset.RawItem{
		MovieID:          f.integer(0),
		Title:            f.text(1),
		ReleaseDate:      f.text(2),
		VideoReleaseDate: f.text(3),
		IMDbURL:          f.text(4),
	}
	for g := 0; g < catalog.GenreFlagCount; g++ {
		it.Flags[g] = f.integer(catalog.ItemFixedColumns + g)
	}
	r.Items = append(r.Items, it)
	return nil
}

func (r *rawTables) appendRating(f fields) error {
	r.Ratings = append(r.Ratings, dataset.RawRating{
		UserID:    f.integer(0),
		MovieID:   f.integer(1),
		Rating:    f.integer(2),
		Timestamp: f.integer64(3),
	})
	return nil
}
