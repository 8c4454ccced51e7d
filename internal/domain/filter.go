package domain

import "strings"

// FilterOptions tunes which fields a query is matched against.
type FilterOptions struct {
	// IncludePlatform also matches the platform label (dashboard search).
	// The archive view matches title and tags only.
	IncludePlatform bool
}

// Filter returns the records whose title, tags (or platform) contain query,
// case-insensitively. An empty query returns records unchanged.
// The input order is preserved.
func Filter(records []Problem, query string, opts FilterOptions) []Problem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}

	out := make([]Problem, 0, len(records))
	for _, p := range records {
		if Matches(p, q, opts) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p matches an already lower-cased query.
func Matches(p Problem, lowerQuery string, opts FilterOptions) bool {
	if containsFold(p.Title, lowerQuery) {
		return true
	}
	for _, tag := range p.Tags {
		if containsFold(tag, lowerQuery) {
			return true
		}
	}
	return opts.IncludePlatform && containsFold(p.Platform, lowerQuery)
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
