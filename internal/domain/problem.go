package domain

import "time"

// Platform display labels produced by the extractors.
const (
	PlatformLeetCode      = "LeetCode"
	PlatformCodeForces    = "CodeForces"
	PlatformHackerRank    = "HackerRank"
	PlatformGeeksforGeeks = "GeeksforGeeks"
	PlatformCodeChef      = "CodeChef"
	PlatformUnknown       = "Unknown"
)

// Difficulty labels used by the aggregation buckets.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Problem represents one tracked problem.
//
// A Problem is uniquely identified by ID, but deduplicated by URL:
// tracking the same URL twice updates the existing record.
type Problem struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the opaque unique identifier assigned at creation.
	// It never changes, even when the URL is re-tracked.
	ID string `json:"id" yaml:"id"`

	// URL is the canonical source URL (business key).
	// Example: https://leetcode.com/problems/two-sum/
	URL string `json:"url" yaml:"url"`

	// ─────────────────────────────
	// Extracted metadata
	// (replaced when the URL is re-tracked)
	// ─────────────────────────────

	// Platform is a display label such as "LeetCode", or "Unknown".
	Platform string `json:"platform" yaml:"platform"`

	// Title is the human-readable title.
	Title string `json:"title" yaml:"title"`

	// Tags keeps the order reported by the judge.
	Tags []string `json:"tags" yaml:"tags"`

	// Difficulty is a label ("Easy", "Basic", ...) or a numeric rating ("1400").
	// Empty means the judge did not expose one.
	Difficulty string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`

	// Timestamp is the creation or last update instant, in ms since epoch.
	Timestamp int64 `json:"timestamp" yaml:"timestamp"`

	// ─────────────────────────────
	// User annotation
	// ─────────────────────────────

	// Note is free text, empty means no note.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Metadata is the best-effort tuple produced by an extractor.
// Every field may be empty.
type Metadata struct {
	Platform   string   `json:"platform"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// Time returns the record timestamp as a time.Time in loc.
func (p Problem) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(p.Timestamp).In(loc)
}

// Clone returns a deep copy, so callers can hand out records without sharing tag slices.
func (p Problem) Clone() Problem {
	c := p
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	return c
}

// NewProblem builds a fresh record from normalized metadata.
func NewProblem(meta Metadata, url string, now time.Time, newID func() string) Problem {
	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}
	return Problem{
		ID:         newID(),
		URL:        url,
		Platform:   meta.Platform,
		Title:      meta.Title,
		Tags:       tags,
		Difficulty: meta.Difficulty,
		Timestamp:  now.UnixMilli(),
	}
}
