package metrics

import (
	"time"

	"github.com/MrSnakeDoc/solvelog/internal/domain"
)

// Week is the trailing window used by WeeklyCount.
const Week = 7 * 24 * time.Hour

// Day truncates t to midnight of its calendar day in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// WeeklyCount counts records strictly newer than now minus seven days.
func WeeklyCount(records []domain.Problem, now time.Time) int {
	cutoff := now.Add(-Week).UnixMilli()
	n := 0
	for _, p := range records {
		if p.Timestamp > cutoff {
			n++
		}
	}
	return n
}

// TodayCount counts records on now's calendar day.
func TodayCount(records []domain.Problem, now time.Time) int {
	loc := now.Location()
	today := civilOf(now, loc)
	n := 0
	for _, p := range records {
		if recordDate(p, loc) == today {
			n++
		}
	}
	return n
}

// CurrentStreak counts consecutive active calendar days ending at the most
// recent active day. A streak whose last active day is older than yesterday
// is broken and reports 0. Days after today are ignored.
func CurrentStreak(records []domain.Problem, now time.Time) int {
	if len(records) == 0 {
		return 0
	}

	loc := now.Location()
	today := civilOf(now, loc)
	yesterday := today.addDays(-1)
	active := activity(records, loc)

	var anchor civilDate
	found := false
	for day := range active {
		if day.after(today) {
			continue
		}
		if !found || day.after(anchor) {
			anchor, found = day, true
		}
	}

	if !found || (anchor != today && anchor != yesterday) {
		return 0
	}

	streak := 0
	for day := anchor; active[day] > 0; day = day.addDays(-1) {
		streak++
	}
	return streak
}

// DayGroup is a run of records sharing a calendar day.
type DayGroup struct {
	Date     string           `json:"date"`
	Problems []domain.Problem `json:"problems"`
}

// GroupByDay groups the first limit records by calendar day, keeping order.
// Records are expected newest first, so groups come out newest first too.
// A limit <= 0 keeps every record.
func GroupByDay(records []domain.Problem, limit int, loc *time.Location) []DayGroup {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	var groups []DayGroup
	index := make(map[string]int)
	for _, p := range records {
		key := recordDate(p, loc).String()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Date: key})
		}
		groups[i].Problems = append(groups[i].Problems, p)
	}
	return groups
}

// Summary is the dashboard headline.
type Summary struct {
	Total         int    `json:"total"`
	Hard          int    `json:"hard"`
	Weekly        int    `json:"weekly"`
	Today         int    `json:"today"`
	CurrentStreak int    `json:"current_streak"`
	TopTag        string `json:"top_tag"`
}

// Summarize computes the dashboard headline numbers.
func Summarize(records []domain.Problem, now time.Time) Summary {
	return Summary{
		Total:         len(records),
		Hard:          HardCount(records),
		Weekly:        WeeklyCount(records, now),
		Today:         TodayCount(records, now),
		CurrentStreak: CurrentStreak(records, now),
		TopTag:        TopTag(records),
	}
}
