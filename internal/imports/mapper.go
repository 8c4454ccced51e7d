package imports

import (
	"strings"
	"time"

	"github.com/MrSnakeDoc/solvelog/internal/domain"
	"github.com/MrSnakeDoc/solvelog/internal/extract"
)

// Mapper converts import entries to domain problems.
type Mapper struct {
	loc *time.Location
}

// NewMapper creates a mapper; "solved" dates are read in loc.
func NewMapper(loc *time.Location) *Mapper {
	if loc == nil {
		loc = time.Local
	}
	return &Mapper{loc: loc}
}

// MapProblems converts entries. Entries without URL are passed through with
// an empty URL so the store counts them as skipped.
//
// Missing platforms are derived from the URL host; metadata goes through the
// normalizer with the URL as fallback title.
func (m *Mapper) MapProblems(file File) []domain.Problem {
	problems := make([]domain.Problem, 0, len(file))

	for _, e := range file {
		url := strings.TrimSpace(e.URL)

		platform := e.Platform
		if strings.TrimSpace(platform) == "" {
			if ex, ok := extract.Classify(url); ok {
				platform = ex.Platform()
			}
		}

		meta := domain.Normalize(domain.Metadata{
			Platform:   platform,
			Title:      e.Title,
			Tags:       e.Tags,
			Difficulty: e.Difficulty,
		}, url)

		problems = append(problems, domain.Problem{
			ID:         strings.TrimSpace(e.ID),
			URL:        url,
			Platform:   meta.Platform,
			Title:      meta.Title,
			Tags:       meta.Tags,
			Difficulty: meta.Difficulty,
			Timestamp:  m.timestamp(e),
			Note:       strings.TrimSpace(e.Note),
		})
	}

	return problems
}

// timestamp prefers the exported ms value, then the solved date, else 0
// (the store stamps it).
func (m *Mapper) timestamp(e Entry) int64 {
	if e.Timestamp > 0 {
		return e.Timestamp
	}
	solved := strings.TrimSpace(e.Solved)
	if solved == "" {
		return 0
	}
	if t, err := time.Parse(time.RFC3339, solved); err == nil {
		return t.UnixMilli()
	}
	if t, err := time.ParseInLocation("2006-01-02", solved, m.loc); err == nil {
		// noon keeps the record on that calendar day across DST shifts
		return t.Add(12 * time.Hour).UnixMilli()
	}
	return 0
}
