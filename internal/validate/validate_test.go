package validate

import (
	"fmt"
	"testing"
	"time"

	"ml100k/internal/apperrors"
	"ml100k/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func cleanTables() dataset.Tables {
	ts := time.Unix(874965758, 0).UTC()
	return dataset.Tables{
		Users: []dataset.User{
			{UserID: 1, Gender: dataset.GenderMale},
			{UserID: 2, Gender: dataset.GenderFemale},
		},
		Items: []dataset.Item{
			{MovieID: 1, Genres: "0,18"},
			{MovieID: 2, Genres: "5"},
		},
		Ratings: []dataset.Rating{
			{UserID: 1, MovieID: 1, Rating: 5, Timestamp: ts},
			{UserID: 2, MovieID: 2, Rating: 1, Timestamp: ts},
		},
	}
}

// TestCheck_NegativeIDs verifies references resolve for ids outside the
// usual positive range.
func TestCheck_NegativeIDs(t *testing.T) {
	t.Parallel()

	tb := cleanTables()
	tb.Users = append(tb.Users, dataset.User{UserID: -1, Gender: dataset.GenderFemale})
	tb.Items = append(tb.Items, dataset.Item{MovieID: -7, Genres: "1"})
	tb.Ratings = append(tb.Ratings, dataset.Rating{UserID: -1, MovieID: -7, Rating: 4})

	assert.Empty(t, Check(tb))

	_, err := Apply(PolicyStrict, tb, zaptest.NewLogger(t))
	assert.NoError(t, err)
}

// TestFatal verifies notices are excluded.
func TestFatal(t *testing.T) {
	t.Parallel()

	tb := cleanTables()
	tb.Items[1].Genres = ""
	tb.Ratings[0].Rating = 9

	found := Check(tb)
	require.Len(t, found, 2)
	fatal := Fatal(found)
	require.Len(t, fatal, 1)
	assert.Equal(t, RuleRatingRange, fatal[0].Rule)
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Policy{"": PolicyOff, "off": PolicyOff, "WARN": PolicyWarn, " strict ": PolicyStrict} {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePolicy("repair")
	assert.Error(t, err)
}

// TestCheck_Clean verifies that consistent tables produce no findings.
func TestCheck_Clean(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Check(cleanTables()))
}

// TestCheck_Rules verifies each rule and its location.
func TestCheck_Rules(t *testing.T) {
	t.Parallel()

	tb := cleanTables()
	tb.Users[1].Gender = "X"
	tb.Items[1].Genres = ""
	tb.Ratings = append(tb.Ratings, dataset.Rating{UserID: 99, MovieID: 1, Rating: 0})
	tb.Ratings = append(tb.Ratings, dataset.Rating{UserID: 1, MovieID: 1682, Rating: 3})

	got := Check(tb)
	rules := make([]string, len(got))
	for i, v := range got {
		rules[i] = fmt.Sprintf("%s/%d/%s", v.Table, v.Row, v.Rule)
	}
	assert.Equal(t, []string{
		"Users/2/gender",
		"Movies/2/empty_genres",
		"Ratings/3/rating_range",
		"Ratings/3/rating_user_ref",
		"Ratings/4/rating_item_ref",
	}, rules)
	assert.True(t, got[1].Notice)
	assert.False(t, got[0].Notice)
}

// TestApply_Policies verifies that only strict fails, and never on notices.
func TestApply_Policies(t *testing.T) {
	t.Parallel()

	bad := cleanTables()
	bad.Ratings[0].Rating = 6

	noticeOnly := cleanTables()
	noticeOnly.Items[0].Genres = ""

	tests := []struct {
		name      string
		policy    Policy
		tables    dataset.Tables
		wantErr   bool
		wantFound int
	}{
		{name: "off skips checks", policy: PolicyOff, tables: bad, wantFound: 0},
		{name: "warn logs only", policy: PolicyWarn, tables: bad, wantFound: 1},
		{name: "strict fails", policy: PolicyStrict, tables: bad, wantErr: true, wantFound: 1},
		{name: "strict ignores notices", policy: PolicyStrict, tables: noticeOnly, wantFound: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			found, err := Apply(tt.policy, tt.tables, zaptest.NewLogger(t))
			assert.Len(t, found, tt.wantFound)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrConstraintViolation)
				assert.Contains(t, err.Error(), "rating 6 outside 1..5")
				return
			}
			assert.NoError(t, err)
		})
	}
}

// TestSummarize_Truncates verifies that long violation lists are capped.
func TestSummarize_Truncates(t *testing.T) {
	t.Parallel()

	vs := make([]Violation, 25)
	for i := range vs {
		vs[i] = Violation{Table: "Ratings", Row: i + 1, Rule: RuleRatingRange, Detail: "x"}
	}
	err := summarize(vs)
	assert.Contains(t, err.Error(), "25 violation(s)")
	assert.Contains(t, err.Error(), "... 15 more")
	assert.NotContains(t, err.Error(), "row 11:")
}
