package transform

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"ml100k/internal/apperrors"
	"ml100k/internal/catalog"
	"ml100k/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flagsOf(set ...int) [catalog.GenreFlagCount]int {
	var f [catalog.GenreFlagCount]int
	for _, i := range set {
		f[i] = 1
	}
	return f
}

// TestFlattenGenres covers the documented cases including the all-zero row.
func TestFlattenGenres(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags [catalog.GenreFlagCount]int
		want  string
	}{
		{name: "first and last", flags: flagsOf(0, 18), want: "0,18"},
		{name: "none set", flags: flagsOf(), want: ""},
		{name: "single", flags: flagsOf(8), want: "8"},
		{name: "toy story", flags: flagsOf(3, 4, 5), want: "3,4,5"},
		{name: "all set", flags: flagsOf(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18),
			want: "0,1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16,17,18"},
		{name: "non-binary values count as unset", flags: [catalog.GenreFlagCount]int{0: 2, 1: 1, 2: -1}, want: "1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := FlattenGenres([]dataset.RawItem{{MovieID: 7, Title: "x", Flags: tt.flags}})
			require.Len(t, out, 1)
			assert.Equal(t, tt.want, out[0].Genres)
			assert.Equal(t, 7, out[0].MovieID)
		})
	}
}

// TestFlattenGenres_Property verifies on random rows that the field holds
// exactly the set indices, ascending.
func TestFlattenGenres_Property(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	items := make([]dataset.RawItem, 500)
	for i := range items {
		items[i].MovieID = i + 1
		for g := range items[i].Flags {
			items[i].Flags[g] = rng.Intn(2)
		}
	}

	out := FlattenGenres(items)
	require.Len(t, out, len(items))
	for i, it := range out {
		var want []string
		for g, v := range items[i].Flags {
			if v == 1 {
				want = append(want, strconv.Itoa(g))
			}
		}
		assert.Equal(t, strings.Join(want, ","), it.Genres)
		assert.Equal(t, items[i].MovieID, it.MovieID)
	}
}

// TestNormalizeTimestamps_RoundTrip verifies UTC conversion and round-trip.
func TestNormalizeTimestamps_RoundTrip(t *testing.T) {
	t.Parallel()

	in := []dataset.RawRating{
		{UserID: 196, MovieID: 242, Rating: 3, Timestamp: 881250949},
		{UserID: 1, MovieID: 1, Rating: 5, Timestamp: 0},
		{UserID: 2, MovieID: 2, Rating: 1, Timestamp: -86400},
		{UserID: 3, MovieID: 3, Rating: 2, Timestamp: MaxEpochSeconds},
		{UserID: 4, MovieID: 4, Rating: 4, Timestamp: MinEpochSeconds},
	}

	out, err := NormalizeTimestamps(in)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i, r := range out {
		assert.Equal(t, in[i].Timestamp, r.Timestamp.Unix())
		assert.Equal(t, time.UTC, r.Timestamp.Location())
		assert.Equal(t, in[i].UserID, r.UserID)
	}
	assert.Equal(t, time.Date(1997, 12, 4, 15, 55, 49, 0, time.UTC), out[0].Timestamp)
}

// TestNormalizeTimestamps_OutOfRange verifies InvalidTimestamp without clamping.
func TestNormalizeTimestamps_OutOfRange(t *testing.T) {
	t.Parallel()

	for _, v := range []int64{MaxEpochSeconds + 1, MinEpochSeconds - 1, 1 << 62} {
		out, err := NormalizeTimestamps([]dataset.RawRating{
			{UserID: 1, MovieID: 1, Rating: 5, Timestamp: 874965758},
			{UserID: 1, MovieID: 2, Rating: 5, Timestamp: v},
		})
		require.Error(t, err)
		assert.Nil(t, out)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidTimestamp))

		var te *apperrors.TimestampError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, 2, te.Row)
		assert.Equal(t, v, te.Value)
	}
}

func TestNormalizeTimestamps_Empty(t *testing.T) {
	t.Parallel()

	out, err := NormalizeTimestamps(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
