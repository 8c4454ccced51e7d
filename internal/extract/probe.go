package extract

import (
	"regexp"
	"strings"
)

// Probe reads one field from a page. Empty means "not found".
type Probe func(*Page) string

// ListProbe reads a multi-valued field from a page.
type ListProbe func(*Page) []string

// FirstOf returns a probe yielding the first non-empty result of probes.
func FirstOf(probes ...Probe) Probe {
	return func(p *Page) string {
		for _, probe := range probes {
			if v := probe(p); v != "" {
				return v
			}
		}
		return ""
	}
}

// FirstListOf is FirstOf for list probes.
func FirstListOf(probes ...ListProbe) ListProbe {
	return func(p *Page) []string {
		for _, probe := range probes {
			if v := probe(p); len(v) > 0 {
				return v
			}
		}
		return nil
	}
}

// Text probes the trimmed text of the first element matching sel.
func Text(sel string) Probe {
	return func(p *Page) string { return p.First(sel) }
}

// Texts probes the text of every element matching sel.
func Texts(sel string) ListProbe {
	return func(p *Page) []string { return p.All(sel) }
}

// TextContaining probes the first element matching sel whose text contains
// any of needles.
func TextContaining(sel string, needles ...string) Probe {
	compiled := Compile(sel)
	return func(p *Page) string {
		for _, n := range QueryAll(p.Root(), compiled) {
			text := strings.TrimSpace(TextContent(n))
			for _, needle := range needles {
				if strings.Contains(text, needle) {
					return text
				}
			}
		}
		return ""
	}
}

// DocumentTitleBefore probes the document title up to the first sep.
func DocumentTitleBefore(sep string) Probe {
	return func(p *Page) string {
		title, _, _ := strings.Cut(p.Title(), sep)
		return strings.TrimSpace(title)
	}
}

// Submatch applies re to the probe's result and keeps the first group.
func Submatch(probe Probe, re *regexp.Regexp) Probe {
	return func(p *Page) string {
		m := re.FindStringSubmatch(probe(p))
		if len(m) < 2 {
			return ""
		}
		return m[1]
	}
}

// Filtered keeps the list entries accepted by keep.
func Filtered(probe ListProbe, keep func(string) bool) ListProbe {
	return func(p *Page) []string {
		var out []string
		for _, v := range probe(p) {
			if keep(v) {
				out = append(out, v)
			}
		}
		return out
	}
}

// Unique drops repeated entries, keeping the first occurrence.
func Unique(probe ListProbe) ListProbe {
	return func(p *Page) []string {
		values := probe(p)
		seen := make(map[string]struct{}, len(values))
		out := make([]string, 0, len(values))
		for _, v := range values {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
		return out
	}
}

// Single lifts a Probe into a ListProbe of at most one element.
func Single(probe Probe) ListProbe {
	return func(p *Page) []string {
		if v := probe(p); v != "" {
			return []string{v}
		}
		return nil
	}
}
