package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/MrSnakeDoc/solvelog/internal/domain"
)

// Extractor reads problem metadata from one judge's pages.
type Extractor interface {
	Platform() string
	Extract(*Page) domain.Metadata
}

// judge is a table-driven Extractor: one probe per field.
type judge struct {
	platform   string
	hosts      []string
	title      Probe
	tags       ListProbe
	difficulty Probe
}

func (j judge) Platform() string { return j.platform }

func (j judge) Extract(p *Page) domain.Metadata {
	meta := domain.Metadata{Platform: j.platform}
	if j.title != nil {
		meta.Title = j.title(p)
	}
	if j.tags != nil {
		meta.Tags = j.tags(p)
	}
	if j.difficulty != nil {
		meta.Difficulty = j.difficulty(p)
	}
	return meta
}

var (
	ratingRe         = regexp.MustCompile(`\*?(\d{3,4})`)
	difficultyPrefix = regexp.MustCompile(`(?i)(difficulty|level)\s*:\s*`)
)

// ─────────────────────────────────────────────────────────────────
// Judges
// ─────────────────────────────────────────────────────────────────

var leetCode = judge{
	platform: domain.PlatformLeetCode,
	hosts:    []string{"leetcode.com", "leetcode.cn"},
	title: FirstOf(
		Text(`a[class*="text-title"]`),
		Text(`[data-cy="question-title"]`),
		Text(`.text-title-large`),
		DocumentTitleBefore("-"),
	),
	tags: Unique(Filtered(Texts(`a[href*="/tag/"], [class*="topic-tag"]`), func(t string) bool {
		return len(t) < 30 && !strings.Contains(t, "+") && !strings.Contains(t, "Show")
	})),
	difficulty: FirstOf(
		Text(`div[class*="text-difficulty"]`),
		Text(`.text-difficulty-easy`),
		Text(`.text-difficulty-medium`),
		Text(`.text-difficulty-hard`),
	),
}

var codeForces = judge{
	platform: domain.PlatformCodeForces,
	hosts:    []string{"codeforces.com"},
	title: FirstOf(
		Text(`.problem-statement .title`),
		Text(`.header .title`),
	),
	// the rating is rendered as a "*1400" tag-box; it is the difficulty, not a topic
	tags: Filtered(Texts(`.tag-box`), func(t string) bool {
		return !strings.HasPrefix(t, "*")
	}),
	difficulty: Submatch(FirstOf(
		Text(`.ProblemInfo`),
		Text(`span[title*="fficulty"]`),
		TextContaining(`.sidebar .property-title`, "Difficulty"),
	), ratingRe),
}

var hackerRank = judge{
	platform: domain.PlatformHackerRank,
	hosts:    []string{"hackerrank.com"},
	title: FirstOf(
		Text(`.challengecard-title`),
		Text(`h1.page-label`),
		Text(`.challenge-page-title`),
	),
	tags:       Single(Text(`.breadcrumb-item.active`)),
	difficulty: Text(`.difficulty`),
}

var geeksforGeeks = judge{
	platform: domain.PlatformGeeksforGeeks,
	hosts:    []string{"geeksforgeeks.org"},
	title: FirstOf(
		Text(`.problems_problem_content__title__L2cB2`),
		Text(`[class*="problem_content__title"]`),
		Text(`.problem-title`),
		Text(`h1`),
		Text(`.article-title`),
	),
	tags: Texts(`.problems_tag_container__kWANg a, [class*="tag_container"] a, .problem-tags a, .article-tags a, a[href*="/explore?category"]`),
	difficulty: func(p *Page) string {
		return NormalizeGFGDifficulty(gfgDifficulty(p))
	},
}

var gfgDifficulty = FirstOf(
	strongAfterLabel("Difficulty:"),
	Text(`.problems_difficulty_text__Yh3c6`),
	Text(`[class*="difficulty_text"]`),
	Text(`.problemDifficulty`),
	Text(`[class*="Difficulty"]`),
	Text(`.problems_header_content__title__uKWIJ [class*="difficulty"]`),
	Text(`.problem-header [class*="difficulty"]`),
	TextContaining(`div[class*="difficulty"], span[class*="difficulty"]`, "Easy", "Medium", "Hard", "Basic", "School"),
	Text(`.problem-difficulty`),
	Text(`[class*="difficulty"]`),
)

var codeChef = judge{
	platform: domain.PlatformCodeChef,
	hosts:    []string{"codechef.com"},
	title: FirstOf(
		Text(`.problem-title`),
		Text(`h1`),
	),
	tags:       Texts(`.tag`),
	difficulty: Text(`.difficulty`),
}

// Extractors lists every supported judge.
func Extractors() []Extractor {
	return []Extractor{leetCode, codeForces, hackerRank, geeksforGeeks, codeChef}
}

// ─────────────────────────────────────────────────────────────────
// GeeksforGeeks helpers
// ─────────────────────────────────────────────────────────────────

// NormalizeGFGDifficulty strips "Difficulty:"/"Level:" labels and maps the
// text onto School, Basic, Easy, Medium or Hard when one of them appears.
func NormalizeGFGDifficulty(raw string) string {
	d := strings.TrimSpace(difficultyPrefix.ReplaceAllString(raw, ""))
	lower := strings.ToLower(d)
	for _, level := range []string{"School", "Basic", "Easy", "Medium", "Hard"} {
		if strings.Contains(lower, strings.ToLower(level)) {
			return level
		}
	}
	return d
}

// strongAfterLabel finds a text node containing label and returns the text
// of a <strong> inside its parent, or of the parent's next element sibling
// when that one is a <strong>.
func strongAfterLabel(label string) Probe {
	strong := Compile("strong")
	return func(p *Page) string {
		var found string
		var walk func(*html.Node) bool
		walk = func(n *html.Node) bool {
			if n.Type == html.TextNode && strings.Contains(n.Data, label) && n.Parent != nil {
				if s := Query(n.Parent, strong); s != nil {
					if found = strings.TrimSpace(TextContent(s)); found != "" {
						return true
					}
				}
				if sib := nextElement(n.Parent); sib != nil && sib.DataAtom == atom.Strong {
					if found = strings.TrimSpace(TextContent(sib)); found != "" {
						return true
					}
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if walk(c) {
					return true
				}
			}
			return false
		}
		walk(p.Root())
		return found
	}
}

func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
