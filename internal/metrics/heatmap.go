package metrics

import (
	"time"

	"github.com/MrSnakeDoc/solvelog/internal/domain"
)

// DefaultHeatmapDays is the trailing window of the activity calendar.
const DefaultHeatmapDays = 365

// HeatDay is one cell of the activity calendar.
type HeatDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"` // 0 = none, 1..3 = exact count, 4 = four or more
}

// MonthLabel marks the first cell of a month on the calendar axis.
type MonthLabel struct {
	Index  int    `json:"index"`  // position in Days
	Column int    `json:"column"` // week column, counting leading blanks
	Label  string `json:"label"`  // "Jan", "Feb", ...
}

// Heatmap is a GitHub-style activity calendar over a trailing window.
type Heatmap struct {
	WindowDays int `json:"window_days"`

	// LeadingBlanks is the number of empty cells before the first day so that
	// each column is a week starting on Sunday (row 0).
	LeadingBlanks int          `json:"leading_blanks"`
	Days          []HeatDay    `json:"days"`
	Months        []MonthLabel `json:"months"`

	Total         int     `json:"total"`
	MaxDay        int     `json:"max_day"`
	ActiveDays    int     `json:"active_days"`
	LongestStreak int     `json:"longest_streak"`
	ActiveRatio   float64 `json:"active_ratio"`
}

// BuildHeatmap lays out the calendar days from today minus windowDays up to
// today, both inclusive, in now's location. windowDays <= 0 uses 365.
func BuildHeatmap(records []domain.Problem, now time.Time, windowDays int) Heatmap {
	if windowDays <= 0 {
		windowDays = DefaultHeatmapDays
	}

	loc := now.Location()
	end := civilOf(now, loc)
	start := end.addDays(-windowDays)
	counts := activity(records, loc)

	hm := Heatmap{
		WindowDays:    windowDays,
		LeadingBlanks: int(start.weekday()),
		Days:          make([]HeatDay, 0, windowDays+1),
	}

	run := 0
	prevMonth := time.Month(0)
	for day := start; !day.after(end); day = day.addDays(1) {
		i := len(hm.Days)
		count := counts[day]

		if day.month != prevMonth {
			hm.Months = append(hm.Months, MonthLabel{
				Index:  i,
				Column: (hm.LeadingBlanks + i) / 7,
				Label:  day.utc().Format("Jan"),
			})
			prevMonth = day.month
		}

		hm.Days = append(hm.Days, HeatDay{
			Date:  day.String(),
			Count: count,
			Level: heatLevel(count),
		})

		if count == 0 {
			run = 0
			continue
		}
		hm.Total += count
		hm.ActiveDays++
		run++
		if run > hm.LongestStreak {
			hm.LongestStreak = run
		}
		if count > hm.MaxDay {
			hm.MaxDay = count
		}
	}

	hm.ActiveRatio = float64(hm.ActiveDays) / float64(windowDays)
	return hm
}

func heatLevel(count int) int {
	if count > 4 {
		return 4
	}
	return count
}
