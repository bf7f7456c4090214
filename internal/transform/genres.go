// Package transform reshapes ingested tables: it collapses the one-hot genre
// block of items and converts epoch-second rating timestamps to UTC times.
package transform

import (
	"strconv"

	"ml100k/internal/catalog"
	"ml100k/internal/dataset"
)

// FlattenGenres replaces each item's flag block with the ascending,
// comma-joined indices of the flags equal to 1. Any other flag value counts
// as unset. An item with no set flag gets "". Row order is preserved.
func FlattenGenres(items []dataset.RawItem) []dataset.Item {
	out := make([]dataset.Item, len(items))
	buf := make([]byte, 0, 3*catalog.GenreFlagCount)
	for i, it := range items {
		buf = JoinFlags(buf[:0], it.Flags)
		out[i] = dataset.Item{
			MovieID:          it.MovieID,
			Title:            it.Title,
			ReleaseDate:      it.ReleaseDate,
			VideoReleaseDate: it.VideoReleaseDate,
			IMDbURL:          it.IMDbURL,
			Genres:           string(buf),
		}
	}
	return out
}

// JoinFlags appends the comma-joined indices of set flags to dst.
func JoinFlags(dst []byte, flags [catalog.GenreFlagCount]int) []byte {
	first := true
	for idx, v := range flags {
		if v != 1 {
			continue
		}
		if !first {
			dst = append(dst, ',')
		}
		dst = strconv.AppendInt(dst, int64(idx), 10)
		first = false
	}
	return dst
}
