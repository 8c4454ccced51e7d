package imports

import (
	"reflect"
	"testing"
	"time"

	"github.com/MrSnakeDoc/solvelog/internal/domain"
)

func TestMapperMapProblems(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	mapper := NewMapper(loc)

	file := File{
		{URL: " https://leetcode.com/problems/two-sum/ ", Tags: []string{" Array ", ""}, Solved: "2026-03-01"},
		{ID: "keep", URL: "https://example.com/p", Title: "  Custom   title ", Timestamp: 1234, Note: " n "},
		{URL: "https://codeforces.com/contest/4/problem/A", Platform: "Codeforces", Solved: "2026-03-02T10:00:00Z"},
		{Title: "no url"},
	}

	got := mapper.MapProblems(file)
	if len(got) != 4 {
		t.Fatalf("MapProblems() = %d problems, want 4", len(got))
	}

	first := got[0]
	if first.URL != "https://leetcode.com/problems/two-sum/" {
		t.Errorf("URL = %q, want trimmed", first.URL)
	}
	if first.Platform != domain.PlatformLeetCode {
		t.Errorf("Platform = %q, want derived LeetCode", first.Platform)
	}
	if first.Title != first.URL {
		t.Errorf("Title = %q, want URL fallback", first.Title)
	}
	if !reflect.DeepEqual(first.Tags, []string{"Array"}) {
		t.Errorf("Tags = %v, want [Array]", first.Tags)
	}
	if day := first.Time(loc).Format("2006-01-02"); day != "2026-03-01" {
		t.Errorf("solved day = %s, want 2026-03-01 in the configured zone", day)
	}

	second := got[1]
	if second.ID != "keep" || second.Timestamp != 1234 || second.Note != "n" || second.Title != "Custom title" {
		t.Errorf("second = %+v", second)
	}
	if second.Platform != domain.PlatformUnknown {
		t.Errorf("Platform = %q, want Unknown", second.Platform)
	}

	third := got[2]
	if third.Platform != "Codeforces" {
		t.Errorf("explicit platform overwritten: %q", third.Platform)
	}
	want := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC).UnixMilli()
	if third.Timestamp != want {
		t.Errorf("Timestamp = %d, want %d", third.Timestamp, want)
	}

	if got[3].URL != "" || got[3].Timestamp != 0 {
		t.Errorf("entry without url = %+v, want empty url and zero timestamp", got[3])
	}
}
