package dataset

import (
	"strconv"

	"github.com/zeebo/xxh3"
)

// Fingerprints are content hashes of the primary tables. Two runs over the
// same source directory must produce equal fingerprints.
type Fingerprints struct {
	Users   uint64
	Items   uint64
	Ratings uint64
}

// Field and record separators keep adjacent values from colliding.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// Fingerprint hashes t in row order.
func Fingerprint(t Tables) Fingerprints {
	return Fingerprints{
		Users:   hashUsers(t.Users),
		Items:   hashItems(t.Items),
		Ratings: hashRatings(t.Ratings),
	}
}

func hashUsers(us []User) uint64 {
	h := xxh3.New()
	for _, u := range us {
		writeFields(h, strconv.Itoa(u.UserID), strconv.Itoa(u.Age), string(u.Gender), u.Occupation, u.ZipCode)
	}
	return h.Sum64()
}

func hashItems(items []Item) uint64 {
	h := xxh3.New()
	for _, it := range items {
		writeFields(h, strconv.Itoa(it.MovieID), it.Title, it.ReleaseDate, it.VideoReleaseDate, it.IMDbURL, it.Genres)
	}
	return h.Sum64()
}

func hashRatings(rs []Rating) uint64 {
	h := xxh3.New()
	for _, r := range rs {
		writeFields(h,
			strconv.Itoa(r.UserID),
			strconv.Itoa(r.MovieID),
			strconv.Itoa(r.Rating),
			strconv.FormatInt(r.Timestamp.Unix(), 10),
		)
	}
	return h.Sum64()
}

func writeFields(h *xxh3.Hasher, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			_, _ = h.WriteString(fieldSep)
		}
		_, _ = h.WriteString(f)
	}
	_, _ = h.WriteString(recordSep)
}
