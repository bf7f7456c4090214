package transform

import (
	"math"
	"time"

	"ml100k/internal/apperrors"
	"ml100k/internal/dataset"
)

// Epoch seconds whose nanosecond count fits in an int64. Values outside
// this range have no datetime representation and are rejected.
const (
	MinEpochSeconds = math.MinInt64 / int64(time.Second)
	MaxEpochSeconds = math.MaxInt64 / int64(time.Second)
)

// EpochToTime converts epoch seconds to a UTC time.
func EpochToTime(sec int64) (time.Time, bool) {
	if sec < MinEpochSeconds || sec > MaxEpochSeconds {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}

// NormalizeTimestamps converts every rating's epoch seconds to a UTC time.
// The first out-of-range value fails the whole table with an
// *apperrors.TimestampError.
func NormalizeTimestamps(rs []dataset.RawRating) ([]dataset.Rating, error) {
	out := make([]dataset.Rating, len(rs))
	for i, r := range rs {
		ts, ok := EpochToTime(r.Timestamp)
		if !ok {
			return nil, &apperrors.TimestampError{Row: i + 1, Value: r.Timestamp}
		}
		out[i] = dataset.Rating{
			UserID:    r.UserID,
			MovieID:   r.MovieID,
			Rating:    r.Rating,
			Timestamp: ts,
		}
	}
	return out, nil
}
