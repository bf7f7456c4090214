// Package validate checks value and referential constraints that the
// dataset's provenance normally guarantees: rating range, gender codes and
// rating references to known users and items.
//
// Checks run only when a policy other than "off" is configured, so a run
// with the default policy behaves exactly as if the package did not exist.
package validate

import (
	"fmt"
	"strings"

	"ml100k/internal/apperrors"
	"ml100k/internal/bitmap"
	"ml100k/internal/dataset"

	"go.uber.org/zap"
)

// Policy selects what happens to violations.
type Policy string

const (
	PolicyOff    Policy = "off"
	PolicyWarn   Policy = "warn"
	PolicyStrict Policy = "strict"
)

// ParsePolicy accepts the config spelling; "" means off.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyOff:
		return PolicyOff, nil
	case PolicyWarn, PolicyStrict:
		return p, nil
	default:
		return "", fmt.Errorf("validate: unknown policy %q", s)
	}
}

// Rule names.
const (
	RuleRatingRange  = "rating_range"
	RuleGender       = "gender"
	RuleUserRef      = "rating_user_ref"
	RuleItemRef      = "rating_item_ref"
	RuleEmptyGenres  = "empty_genres"
	maxReportedLines = 10
)

// Violation is one failed check. Row is 1-based within Table.
type Violation struct {
	Table  string
	Row    int
	Rule   string
	Detail string
	// Notice marks informational findings that never fail a run.
	Notice bool
}

func (v Violation) String() string {
	return fmt.Sprintf("%s row %d: %s: %s", v.Table, v.Row, v.Rule, v.Detail)
}

// Check runs every rule over t and returns the findings in table order.
//
// Items without genres are reported as notices: an empty genre list is a
// legal state of the source data.
func Check(t dataset.Tables) []Violation {
	var out []Violation

	users := new(bitmap.Bitmap)
	for i, u := range t.Users {
		users.Add(u.UserID)
		if !u.Gender.Valid() {
			out = append(out, Violation{Table: "Users", Row: i + 1, Rule: RuleGender,
				Detail: fmt.Sprintf("user %d has gender %q", u.UserID, string(u.Gender))})
		}
	}

	items := new(bitmap.Bitmap)
	for i, it := range t.Items {
		items.Add(it.MovieID)
		if it.Genres == "" {
			out = append(out, Violation{Table: "Movies", Row: i + 1, Rule: RuleEmptyGenres,
				Detail: fmt.Sprintf("movie %d has no genre", it.MovieID), Notice: true})
		}
	}

	for i, r := range t.Ratings {
		if r.Rating < 1 || r.Rating > 5 {
			out = append(out, Violation{Table: "Ratings", Row: i + 1, Rule: RuleRatingRange,
				Detail: fmt.Sprintf("rating %d outside 1..5", r.Rating)})
		}
		if !users.Has(r.UserID) {
			out = append(out, Violation{Table: "Ratings", Row: i + 1, Rule: RuleUserRef,
				Detail: fmt.Sprintf("unknown user_id %d", r.UserID)})
		}
		if !items.Has(r.MovieID) {
			out = append(out, Violation{Table: "Ratings", Row: i + 1, Rule: RuleItemRef,
				Detail: fmt.Sprintf("unknown movie_id %d", r.MovieID)})
		}
	}
	return out
}

// Apply checks t under policy. Violations are logged under warn and strict;
// under strict any non-notice violation fails with ErrConstraintViolation.
// It returns the findings so callers can count them.
func Apply(policy Policy, t dataset.Tables, logger *zap.Logger) ([]Violation, error) {
	if policy == PolicyOff || policy == "" {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	found := Check(t)
	for _, v := range found {
		if v.Notice {
			logger.Debug("validation notice", zap.String("table", v.Table), zap.Int("row", v.Row),
				zap.String("rule", v.Rule), zap.String("detail", v.Detail))
			continue
		}
		logger.Warn("constraint violation", zap.String("table", v.Table), zap.Int("row", v.Row),
			zap.String("rule", v.Rule), zap.String("detail", v.Detail))
	}

	fatal := Fatal(found)

	if policy != PolicyStrict || len(fatal) == 0 {
		return found, nil
	}
	return found, summarize(fatal)
}

// Fatal returns the findings that are not notices.
func Fatal(vs []Violation) []Violation {
	var out []Violation
	for _, v := range vs {
		if !v.Notice {
			out = append(out, v)
		}
	}
	return out
}

// summarize folds violations into one error, listing the first few.
func summarize(vs []Violation) error {
	var sb strings.Builder
	for i, v := range vs {
		if i == maxReportedLines {
			fmt.Fprintf(&sb, "; ... %d more", len(vs)-maxReportedLines)
			break
		}
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(v.String())
	}
	return fmt.Errorf("%w: %d violation(s): %s", apperrors.ErrConstraintViolation, len(vs), sb.String())
}
