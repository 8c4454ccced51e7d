package metrics

import (
	"testing"
	"time"

	"github.com/MrSnakeDoc/solvelog/internal/domain"
)

func TestBuildHeatmapEmpty(t *testing.T) {
	hm := BuildHeatmap(nil, refNow, 365)

	if len(hm.Days) != 366 {
		t.Fatalf("len(Days) = %d, want 366", len(hm.Days))
	}
	if hm.Total != 0 || hm.MaxDay != 0 || hm.LongestStreak != 0 || hm.ActiveDays != 0 {
		t.Errorf("empty heatmap stats = %+v, want zeros", hm)
	}
	if hm.ActiveRatio != 0 {
		t.Errorf("ActiveRatio = %v, want 0", hm.ActiveRatio)
	}
	if last := hm.Days[len(hm.Days)-1].Date; last != "2026-03-18" {
		t.Errorf("last day = %s, want 2026-03-18", last)
	}
	if first := hm.Days[0].Date; first != "2025-03-18" {
		t.Errorf("first day = %s, want 2025-03-18", first)
	}
}

func TestBuildHeatmapDefaultWindow(t *testing.T) {
	hm := BuildHeatmap(nil, refNow, 0)
	if hm.WindowDays != DefaultHeatmapDays {
		t.Errorf("WindowDays = %d, want %d", hm.WindowDays, DefaultHeatmapDays)
	}
}

func TestBuildHeatmapLeadingBlanks(t *testing.T) {
	hm := BuildHeatmap(nil, refNow, 365)
	// 2025-03-18 is a Tuesday.
	if hm.LeadingBlanks != int(time.Tuesday) {
		t.Errorf("LeadingBlanks = %d, want %d", hm.LeadingBlanks, int(time.Tuesday))
	}
}

func TestBuildHeatmapMonthLabels(t *testing.T) {
	hm := BuildHeatmap(nil, refNow, 365)

	// March 2025 (first day) plus one label per month change up to March 2026.
	if len(hm.Months) != 13 {
		t.Fatalf("len(Months) = %d, want 13", len(hm.Months))
	}
	if hm.Months[0].Index != 0 || hm.Months[0].Label != "Mar" {
		t.Errorf("first label = %+v, want index 0 Mar", hm.Months[0])
	}

	april := hm.Months[1]
	if april.Label != "Apr" || hm.Days[april.Index].Date != "2025-04-01" {
		t.Errorf("second label = %+v (day %s), want Apr on 2025-04-01", april, hm.Days[april.Index].Date)
	}
	if want := (hm.LeadingBlanks + april.Index) / 7; april.Column != want {
		t.Errorf("april column = %d, want %d", april.Column, want)
	}
}

func TestBuildHeatmapStats(t *testing.T) {
	records := []domain.Problem{
		// three-day run ending today, 5 records today
		solvedAt(0, 1), solvedAt(0, 2), solvedAt(0, 3), solvedAt(0, 4), solvedAt(0, 5),
		solvedAt(1, 10),
		solvedAt(2, 10),
		// four-day run in the middle of the window
		solvedAt(100, 10), solvedAt(101, 10), solvedAt(102, 10), solvedAt(103, 10), solvedAt(103, 11),
		// outside the window
		solvedAt(400, 10),
		// in the future
		solvedAt(-2, 10),
	}

	hm := BuildHeatmap(records, refNow, 365)

	if hm.Total != 12 {
		t.Errorf("Total = %d, want 12", hm.Total)
	}
	if hm.MaxDay != 5 {
		t.Errorf("MaxDay = %d, want 5", hm.MaxDay)
	}
	if hm.LongestStreak != 4 {
		t.Errorf("LongestStreak = %d, want 4", hm.LongestStreak)
	}
	if hm.ActiveDays != 7 {
		t.Errorf("ActiveDays = %d, want 7", hm.ActiveDays)
	}
	if want := 7.0 / 365.0; hm.ActiveRatio != want {
		t.Errorf("ActiveRatio = %v, want %v", hm.ActiveRatio, want)
	}

	today := hm.Days[len(hm.Days)-1]
	if today.Count != 5 || today.Level != 4 {
		t.Errorf("today = %+v, want count 5 level 4", today)
	}
}

func TestBuildHeatmapTotalsMatchWindow(t *testing.T) {
	var records []domain.Problem
	for d := -5; d < 420; d += 3 {
		records = append(records, solvedAt(d, 12))
	}

	hm := BuildHeatmap(records, refNow, 365)

	sum := 0
	for _, day := range hm.Days {
		sum += day.Count
	}

	start := Day(refNow, time.UTC).AddDate(0, 0, -365)
	end := Day(refNow, time.UTC).AddDate(0, 0, 1)
	inWindow := 0
	for _, p := range records {
		ts := time.UnixMilli(p.Timestamp)
		if !ts.Before(start) && ts.Before(end) {
			inWindow++
		}
	}

	if sum != inWindow {
		t.Errorf("sum of day counts = %d, want %d", sum, inWindow)
	}
	if sum != hm.Total {
		t.Errorf("Total = %d, want %d", hm.Total, sum)
	}
}

func TestHeatLevel(t *testing.T) {
	tests := []struct {
		count, level int
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}, {9, 4},
	}
	for _, tt := range tests {
		if got := heatLevel(tt.count); got != tt.level {
			t.Errorf("heatLevel(%d) = %d, want %d", tt.count, got, tt.level)
		}
	}
}
