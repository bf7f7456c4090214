package pipeline

import (
	"errors"
	"testing"

	"ml100k/internal/ingest"
	"ml100k/internal/storage"

	"github.com/stretchr/testify/assert"
)

func fiveSources() []ingest.Count {
	return []ingest.Count{
		{File: "u.genre", Rows: 19},
		{File: "u.occupation", Rows: 21},
		{File: "u.user", Rows: 943},
		{File: "u.item", Rows: 1682},
		{File: "u.data", Rows: 100000},
	}
}

// TestSummaryString covers each outcome line.
func TestSummaryString(t *testing.T) {
	t.Parallel()

	written := []storage.TableResult{
		{Table: "Users", Rows: 943},
		{Table: "Movies", Rows: 1682},
		{Table: "Ratings", Rows: 100000},
	}

	tests := []struct {
		name string
		s    Summary
		want string
	}{
		{
			name: "success",
			s:    Summary{Sources: fiveSources(), SourcesExpected: 5, Tables: written},
			want: "5 of 5 source files loaded, 943 users, 1,682 movies, 100,000 ratings persisted",
		},
		{
			name: "table failure",
			s: Summary{
				Sources: fiveSources(), SourcesExpected: 5,
				Tables: []storage.TableResult{
					{Table: "Users", Rows: 943},
					{Table: "Movies", Err: errors.New("boom")},
					{Table: "Ratings", Skipped: true},
				},
				FailedStage: StagePersist, FailedTable: "Movies",
			},
			want: "5 of 5 source files loaded, persistence failed on table Movies",
		},
		{
			name: "store unavailable",
			s:    Summary{Sources: fiveSources(), SourcesExpected: 5, FailedStage: StagePersist},
			want: "5 of 5 source files loaded, persistence failed",
		},
		{
			name: "ingest failure",
			s:    Summary{Sources: fiveSources()[:3], SourcesExpected: 5, FailedStage: StageIngest},
			want: "3 of 5 source files loaded, ingest failed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.s.String())
		})
	}
}

// TestSummaryPersisted verifies failed and skipped tables are left out.
func TestSummaryPersisted(t *testing.T) {
	t.Parallel()

	s := Summary{Tables: []storage.TableResult{
		{Table: "Users", Rows: 3},
		{Table: "Movies", Err: errors.New("boom")},
		{Table: "Ratings", Skipped: true},
	}}
	assert.Equal(t, map[string]int64{"Users": 3}, s.Persisted())
}
