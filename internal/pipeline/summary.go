package pipeline

import (
	"fmt"
	"strings"
	"time"

	"ml100k/internal/aggregate"
	"ml100k/internal/dataset"
	"ml100k/internal/ingest"
	"ml100k/internal/storage"

	"github.com/dustin/go-humanize"
)

// Summary describes how far a run got.
type Summary struct {
	RunID string

	Sources         []ingest.Count
	SourcesExpected int

	Users, Movies, Ratings int
	Fingerprints           dataset.Fingerprints
	Violations             int

	Reports *aggregate.Reports
	Charts  int

	Tables []storage.TableResult

	// FailedStage is empty on success. FailedTable is set when persistence
	// failed on a specific table.
	FailedStage string
	FailedTable string
	Err         error

	Duration time.Duration
}

// Persisted returns the rows written per table name. Failed and skipped
// tables are absent.
func (s *Summary) Persisted() map[string]int64 {
	out := make(map[string]int64, len(s.Tables))
	for _, r := range s.Tables {
		if r.Err == nil && !r.Skipped {
			out[r.Table] = r.Rows
		}
	}
	return out
}

// String renders the one-line outcome, e.g.
//
//	5 of 5 source files loaded, persistence failed on table Movies
func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d of %d source files loaded", len(s.Sources), s.SourcesExpected)

	switch {
	case s.FailedStage == "":
		p := s.Persisted()
		fmt.Fprintf(&sb, ", %s users, %s movies, %s ratings persisted",
			humanize.Comma(p["Users"]), humanize.Comma(p["Movies"]), humanize.Comma(p["Ratings"]))
	case s.FailedStage == StagePersist && s.FailedTable != "":
		fmt.Fprintf(&sb, ", persistence failed on table %s", s.FailedTable)
	case s.FailedStage == StagePersist:
		sb.WriteString(", persistence failed")
	default:
		fmt.Fprintf(&sb, ", %s failed", s.FailedStage)
	}
	return sb.String()
}
