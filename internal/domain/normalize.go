package domain

import "strings"

// Normalize turns a raw extraction tuple into its canonical shape.
//
// Missing fields are expected: the platform defaults to "Unknown", the title
// to fallbackTitle, tags to an empty slice. Difficulty stays empty when absent;
// bucketing it to "Medium" is an aggregation concern, not a storage one.
func Normalize(meta Metadata, fallbackTitle string) Metadata {
	out := Metadata{
		Platform:   strings.TrimSpace(meta.Platform),
		Title:      collapseSpaces(meta.Title),
		Tags:       make([]string, 0, len(meta.Tags)),
		Difficulty: strings.TrimSpace(meta.Difficulty),
	}

	if out.Platform == "" {
		out.Platform = PlatformUnknown
	}
	if out.Title == "" {
		out.Title = collapseSpaces(fallbackTitle)
	}

	for _, tag := range meta.Tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out.Tags = append(out.Tags, tag)
		}
	}

	return out
}

// collapseSpaces trims s and folds every whitespace run into a single space.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
