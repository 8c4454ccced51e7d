// Package extract turns a judge's problem page into domain.Metadata.
//
// The pipeline: raw HTML → parse → classify URL → run the judge's field
// probes → clean. Every step is best effort; a page nothing can be read from
// still yields the document title.
package extract

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page is a parsed HTML document plus the URL it was loaded from.
type Page struct {
	URL   string
	doc   *html.Node
	title string
}

// ParsePage parses an HTML document.
func ParsePage(url string, r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return &Page{URL: url, doc: doc, title: findTitle(doc)}, nil
}

// ParsePageString is ParsePage over an in-memory document.
func ParsePageString(url, doc string) (*Page, error) {
	return ParsePage(url, strings.NewReader(doc))
}

// Title returns the document <title>, trimmed.
func (p *Page) Title() string {
	return p.title
}

// Root returns the document node.
func (p *Page) Root() *html.Node {
	return p.doc
}

// First returns the trimmed text of the first element matching sel.
func (p *Page) First(sel string) string {
	n := Query(p.doc, Compile(sel))
	if n == nil {
		return ""
	}
	return strings.TrimSpace(TextContent(n))
}

// All returns the trimmed text of every element matching sel, blanks skipped.
func (p *Page) All(sel string) []string {
	nodes := QueryAll(p.doc, Compile(sel))
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := strings.TrimSpace(TextContent(n)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// TextContent concatenates every text node under n, like the DOM property.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return sb.String()
}

func findTitle(doc *html.Node) string {
	var title string
	var f func(*html.Node) bool
	f = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			title = strings.TrimSpace(TextContent(n))
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if f(c) {
				return true
			}
		}
		return false
	}
	f(doc)
	return title
}
