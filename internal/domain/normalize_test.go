package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		meta     Metadata
		fallback string
		expected Metadata
	}{
		{
			name:     "empty tuple gets defaults",
			meta:     Metadata{},
			fallback: "Two Sum - LeetCode",
			expected: Metadata{
				Platform: PlatformUnknown,
				Title:    "Two Sum - LeetCode",
				Tags:     []string{},
			},
		},
		{
			name: "complete tuple is kept",
			meta: Metadata{
				Platform:   PlatformLeetCode,
				Title:      "Two Sum",
				Tags:       []string{"Array", "Hash Table"},
				Difficulty: "Easy",
			},
			fallback: "ignored",
			expected: Metadata{
				Platform:   PlatformLeetCode,
				Title:      "Two Sum",
				Tags:       []string{"Array", "Hash Table"},
				Difficulty: "Easy",
			},
		},
		{
			name: "whitespace is cleaned",
			meta: Metadata{
				Platform:   "  CodeForces ",
				Title:      "  Watermelon \n\t problem ",
				Tags:       []string{" math ", "", "   ", "brute force"},
				Difficulty: " 800 ",
			},
			expected: Metadata{
				Platform:   PlatformCodeForces,
				Title:      "Watermelon problem",
				Tags:       []string{"math", "brute force"},
				Difficulty: "800",
			},
		},
		{
			name:     "blank difficulty stays absent",
			meta:     Metadata{Platform: PlatformHackerRank, Title: "x", Difficulty: "   "},
			expected: Metadata{Platform: PlatformHackerRank, Title: "x", Tags: []string{}},
		},
		{
			name:     "blank title uses collapsed fallback",
			meta:     Metadata{Title: "   "},
			fallback: "  Page   title ",
			expected: Metadata{Platform: PlatformUnknown, Title: "Page title", Tags: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.meta, tt.fallback)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Normalize() = %#v, want %#v", got, tt.expected)
			}
		})
	}
}

func TestNormalizeNeverReturnsNilTags(t *testing.T) {
	got := Normalize(Metadata{Tags: nil}, "")
	if got.Tags == nil {
		t.Error("Normalize() should return an empty, non-nil tag slice")
	}
}

func TestNewProblem(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	meta := Metadata{Platform: PlatformLeetCode, Title: "Two Sum", Difficulty: "Easy"}

	p := NewProblem(meta, "https://leetcode.com/problems/two-sum/", now, func() string { return "id-1" })

	if p.ID != "id-1" {
		t.Errorf("ID = %q, want id-1", p.ID)
	}
	if p.Timestamp != now.UnixMilli() {
		t.Errorf("Timestamp = %d, want %d", p.Timestamp, now.UnixMilli())
	}
	if p.Tags == nil || len(p.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty slice", p.Tags)
	}
	if p.Note != "" {
		t.Errorf("Note = %q, want empty", p.Note)
	}
}

func TestProblemClone(t *testing.T) {
	p := Problem{ID: "1", Tags: []string{"Graph"}}
	c := p.Clone()
	c.Tags[0] = "Tree"

	if p.Tags[0] != "Graph" {
		t.Error("Clone() should not share the tag slice")
	}
}
