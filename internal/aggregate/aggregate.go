// Package aggregate computes the descriptive reports of a run. Every
// function is read-only over its input, so reports may be computed
// concurrently on the same tables.
package aggregate

import (
	"context"
	"sort"

	"ml100k/internal/dataset"

	"golang.org/x/sync/errgroup"
)

// ValueCount is the frequency of one rating value.
type ValueCount struct {
	Value int
	Count int
}

// ItemMean is the mean rating of one movie over N ratings.
type ItemMean struct {
	MovieID int
	Mean    float64
	N       int
}

// IDCount is the number of ratings for one user or movie id.
type IDCount struct {
	ID    int
	Count int
}

// LabelCount is one row of a frequency table.
type LabelCount struct {
	Label string
	Count int
}

// Reports holds every aggregate of a run.
type Reports struct {
	RatingDistribution []ValueCount // ascending value
	ItemMeans          []ItemMean   // ascending movie_id
	UserCounts         []IDCount    // ascending user_id
	ItemCounts         []IDCount    // ascending movie_id
	Genders            []LabelCount // count desc, label asc
	Occupations        []LabelCount // count desc, label asc
}

// Compute builds all reports, one goroutine per report.
func Compute(ctx context.Context, t dataset.Tables) (*Reports, error) {
	var r Reports
	g, ctx := errgroup.WithContext(ctx)

	run := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}
	run(func() { r.RatingDistribution = RatingDistribution(t.Ratings) })
	run(func() { r.ItemMeans = ItemMeans(t.Ratings) })
	run(func() { r.UserCounts = UserRatingCounts(t.Ratings) })
	run(func() { r.ItemCounts = ItemRatingCounts(t.Ratings) })
	run(func() {
		r.Genders = GenderBreakdown(t.Users)
		r.Occupations = OccupationBreakdown(t.Users)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &r, nil
}

// RatingDistribution counts ratings per observed value. The counts sum to
// len(rs); values that never occur are absent.
func RatingDistribution(rs []dataset.Rating) []ValueCount {
	counts := make(map[int]int)
	for _, r := range rs {
		counts[r.Rating]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// ItemMeans returns the mean rating per movie.
func ItemMeans(rs []dataset.Rating) []ItemMean {
	type acc struct{ sum, n int }
	byItem := make(map[int]*acc)
	for _, r := range rs {
		a := byItem[r.MovieID]
		if a == nil {
			a = &acc{}
			byItem[r.MovieID] = a
		}
		a.sum += r.Rating
		a.n++
	}
	out := make([]ItemMean, 0, len(byItem))
	for id, a := range byItem {
		out = append(out, ItemMean{MovieID: id, Mean: float64(a.sum) / float64(a.n), N: a.n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovieID < out[j].MovieID })
	return out
}

// TopItemMeans returns the n highest means; equal means order by
// ascending movie_id. n <= 0 returns every item in that order.
func TopItemMeans(means []ItemMean, n int) []ItemMean {
	out := append([]ItemMean(nil), means...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].MovieID < out[j].MovieID
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// UserRatingCounts counts ratings per user. Users without ratings are absent.
func UserRatingCounts(rs []dataset.Rating) []IDCount {
	return countBy(rs, func(r dataset.Rating) int { return r.UserID })
}

// ItemRatingCounts counts ratings per movie.
func ItemRatingCounts(rs []dataset.Rating) []IDCount {
	return countBy(rs, func(r dataset.Rating) int { return r.MovieID })
}

func countBy(rs []dataset.Rating, key func(dataset.Rating) int) []IDCount {
	counts := make(map[int]int)
	for _, r := range rs {
		counts[key(r)]++
	}
	out := make([]IDCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, IDCount{ID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GenderBreakdown counts users by gender.
func GenderBreakdown(us []dataset.User) []LabelCount {
	return frequency(us, func(u dataset.User) string { return string(u.Gender) })
}

// OccupationBreakdown counts users by occupation.
func OccupationBreakdown(us []dataset.User) []LabelCount {
	return frequency(us, func(u dataset.User) string { return u.Occupation })
}

func frequency(us []dataset.User, key func(dataset.User) string) []LabelCount {
	counts := make(map[string]int)
	for _, u := range us {
		counts[key(u)]++
	}
	out := make([]LabelCount, 0, len(counts))
	for l, n := range counts {
		out = append(out, LabelCount{Label: l, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
