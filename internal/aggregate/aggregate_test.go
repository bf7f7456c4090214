package aggregate

import (
	"context"
	"testing"

	"ml100k/internal/dataset"
	"ml100k/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rating(user, movie, value int) dataset.Rating {
	return dataset.Rating{UserID: user, MovieID: movie, Rating: value}
}

func sampleTables() dataset.Tables {
	return dataset.Tables{
		Users: []dataset.User{
			{UserID: 1, Gender: "M", Occupation: "student"},
			{UserID: 2, Gender: "F", Occupation: "artist"},
			{UserID: 3, Gender: "M", Occupation: "student"},
			{UserID: 4, Gender: "F", Occupation: "writer"},
			{UserID: 5, Gender: "M", Occupation: "artist"},
		},
		Ratings: []dataset.Rating{
			rating(1, 10, 3),
			rating(2, 10, 4),
			rating(3, 10, 5),
			rating(1, 20, 5),
			rating(2, 30, 4),
			rating(1, 30, 4),
		},
	}
}

// TestRatingDistribution verifies ascending values and the sum property.
func TestRatingDistribution(t *testing.T) {
	t.Parallel()

	rs := sampleTables().Ratings
	got := RatingDistribution(rs)
	assert.Equal(t, []ValueCount{{3, 1}, {4, 3}, {5, 2}}, got)

	sum := 0
	for _, vc := range got {
		sum += vc.Count
	}
	assert.Equal(t, len(rs), sum)
}

// TestItemMeans verifies exact means and ascending movie order.
func TestItemMeans(t *testing.T) {
	t.Parallel()

	got := ItemMeans(sampleTables().Ratings)
	require.Len(t, got, 3)
	assert.Equal(t, ItemMean{MovieID: 10, Mean: 4.0, N: 3}, got[0])
	assert.Equal(t, ItemMean{MovieID: 20, Mean: 5.0, N: 1}, got[1])
	assert.Equal(t, ItemMean{MovieID: 30, Mean: 4.0, N: 2}, got[2])
}

// TestTopItemMeans verifies descending means with ties by ascending id.
func TestTopItemMeans(t *testing.T) {
	t.Parallel()

	means := ItemMeans(sampleTables().Ratings)
	top := TopItemMeans(means, 2)
	assert.Equal(t, []int{20, 10}, []int{top[0].MovieID, top[1].MovieID})

	all := TopItemMeans(means, 0)
	assert.Equal(t, []int{20, 10, 30}, []int{all[0].MovieID, all[1].MovieID, all[2].MovieID})

	// Input order is untouched.
	assert.Equal(t, 10, means[0].MovieID)
}

// TestCounts verifies per-user and per-item counts; users 4 and 5 have no
// ratings and are absent.
func TestCounts(t *testing.T) {
	t.Parallel()

	rs := sampleTables().Ratings
	assert.Equal(t, []IDCount{{1, 3}, {2, 2}, {3, 1}}, UserRatingCounts(rs))
	assert.Equal(t, []IDCount{{10, 3}, {20, 1}, {30, 2}}, ItemRatingCounts(rs))
}

// TestBreakdowns verifies count-descending, label-ascending order.
func TestBreakdowns(t *testing.T) {
	t.Parallel()

	us := sampleTables().Users
	assert.Equal(t, []LabelCount{{"M", 3}, {"F", 2}}, GenderBreakdown(us))
	assert.Equal(t, []LabelCount{{"artist", 2}, {"student", 2}, {"writer", 1}}, OccupationBreakdown(us))
}

// TestCompute_Empty verifies that empty tables yield empty reports.
func TestCompute_Empty(t *testing.T) {
	t.Parallel()

	r, err := Compute(context.Background(), dataset.Tables{})
	require.NoError(t, err)
	assert.Empty(t, r.RatingDistribution)
	assert.Empty(t, r.ItemMeans)
	assert.Empty(t, r.UserCounts)
	assert.Empty(t, r.ItemCounts)
	assert.Empty(t, r.Genders)
	assert.Empty(t, r.Occupations)

	for _, c := range r.Charts() {
		assert.True(t, c.Empty(), c.Name)
	}
}

// TestCompute_MatchesSequential verifies that the concurrent fan-out equals
// the individual functions.
func TestCompute_MatchesSequential(t *testing.T) {
	t.Parallel()

	tb := sampleTables()
	r, err := Compute(context.Background(), tb)
	require.NoError(t, err)

	assert.Equal(t, RatingDistribution(tb.Ratings), r.RatingDistribution)
	assert.Equal(t, ItemMeans(tb.Ratings), r.ItemMeans)
	assert.Equal(t, UserRatingCounts(tb.Ratings), r.UserCounts)
	assert.Equal(t, ItemRatingCounts(tb.Ratings), r.ItemCounts)
	assert.Equal(t, GenderBreakdown(tb.Users), r.Genders)
	assert.Equal(t, OccupationBreakdown(tb.Users), r.Occupations)
}

func TestCompute_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compute(ctx, sampleTables())
	assert.ErrorIs(t, err, context.Canceled)
}

// TestCharts verifies series shapes handed to sinks.
func TestCharts(t *testing.T) {
	t.Parallel()

	r, err := Compute(context.Background(), sampleTables())
	require.NoError(t, err)
	charts := r.Charts()
	require.Len(t, charts, 6)

	dist := charts[0]
	assert.Equal(t, ChartRatingDistribution, dist.Name)
	assert.Equal(t, render.Bar, dist.Kind)
	assert.Equal(t, []string{"3", "4", "5"}, dist.Labels)
	assert.Equal(t, []float64{1, 3, 2}, dist.Values)

	assert.Equal(t, render.Histogram, charts[1].Kind)
	assert.Equal(t, []float64{4, 5, 4}, charts[1].Samples)
	assert.Equal(t, []float64{3, 2, 1}, charts[2].Samples)

	gender := charts[4]
	assert.False(t, gender.Horizontal)
	assert.Equal(t, []string{"M", "F"}, gender.Labels)

	occ := charts[5]
	assert.True(t, occ.Horizontal)
	assert.Equal(t, []string{"writer", "student", "artist"}, occ.Labels)
	assert.Equal(t, []float64{1, 2, 2}, occ.Values)
}
