package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/MrSnakeDoc/solvelog/internal/domain"
)

// Result is the outcome of Run. Success=false means the page was not
// recognized (or yielded nothing) and Data holds the fallback.
type Result struct {
	Success bool            `json:"success"`
	Data    domain.Metadata `json:"data"`
}

var (
	problemCodePrefix = regexp.MustCompile(`^(?:[A-Z]\d*|\d+)[.\-\s]+`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
)

// CleanTitle removes problem-code prefixes ("A. ", "1234. ") and collapses
// whitespace.
func CleanTitle(title string) string {
	title = problemCodePrefix.ReplaceAllString(title, "")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(title, " "))
}

// Classify picks the extractor for rawURL by host suffix.
func Classify(rawURL string) (Extractor, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, false
	}

	for _, j := range []judge{leetCode, codeForces, hackerRank, geeksforGeeks, codeChef} {
		for _, h := range j.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return j, true
			}
		}
	}
	return nil, false
}

// Run classifies the page URL and extracts its metadata.
func Run(p *Page) Result {
	fallback := Result{
		Data: domain.Metadata{
			Platform: domain.PlatformUnknown,
			Title:    p.Title(),
			Tags:     []string{},
		},
	}

	ex, ok := Classify(p.URL)
	if !ok {
		return fallback
	}

	meta := ex.Extract(p)
	if meta.Title == "" && len(meta.Tags) == 0 && meta.Difficulty == "" {
		return fallback
	}

	meta.Title = CleanTitle(meta.Title)
	if meta.Title == "" {
		meta.Title = p.Title()
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	return Result{Success: true, Data: meta}
}
