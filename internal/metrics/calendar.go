package metrics

import (
	"time"

	"github.com/MrSnakeDoc/solvelog/internal/domain"
)

// civilDate is a calendar day with no time or zone. Day arithmetic happens
// in UTC so it is unaffected by DST switches at local midnight.
type civilDate struct {
	year  int
	month time.Month
	day   int
}

func civilOf(t time.Time, loc *time.Location) civilDate {
	y, m, d := t.In(loc).Date()
	return civilDate{y, m, d}
}

func (c civilDate) utc() time.Time {
	return time.Date(c.year, c.month, c.day, 0, 0, 0, 0, time.UTC)
}

func (c civilDate) addDays(n int) civilDate {
	return civilOf(c.utc().AddDate(0, 0, n), time.UTC)
}

func (c civilDate) before(o civilDate) bool { return c.utc().Before(o.utc()) }
func (c civilDate) after(o civilDate) bool  { return c.utc().After(o.utc()) }

func (c civilDate) weekday() time.Weekday { return c.utc().Weekday() }

func (c civilDate) String() string { return c.utc().Format(time.DateOnly) }

// recordDate returns the calendar day of a record, in loc.
func recordDate(p domain.Problem, loc *time.Location) civilDate {
	return civilOf(time.UnixMilli(p.Timestamp), loc)
}

// activity counts records per calendar day, in loc.
func activity(records []domain.Problem, loc *time.Location) map[civilDate]int {
	counts := make(map[civilDate]int, len(records))
	for _, p := range records {
		counts[recordDate(p, loc)]++
	}
	return counts
}
