package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Selector is a compiled selector group.
//
// Supported subset:
//   - tag, #id, .class (repeatable: ".a.b")
//   - [attr], [attr=val], [attr*=val], [attr^=val]
//   - descendant combinator (space)
//   - groups separated by commas
type Selector struct {
	groups [][]compound
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	key string
	op  byte // 0 (presence), '=', '*', '^'
	val string
}

// Compile parses sel. Unknown syntax degrades to a selector that matches
// nothing rather than failing, because selectors are static tables.
func Compile(sel string) Selector {
	var s Selector
	for _, group := range strings.Split(sel, ",") {
		parts := splitCompounds(group)
		if len(parts) == 0 {
			continue
		}
		chain := make([]compound, 0, len(parts))
		for _, p := range parts {
			chain = append(chain, parseCompound(p))
		}
		s.groups = append(s.groups, chain)
	}
	return s
}

// splitCompounds splits on whitespace outside brackets and quotes.
func splitCompounds(group string) []string {
	var (
		parts []string
		cur   strings.Builder
		depth int
		quote rune
	)
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	for _, r := range group {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case r == '[':
			depth++
			cur.WriteRune(r)
		case r == ']':
			depth--
			cur.WriteRune(r)
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return parts
}

func parseCompound(p string) compound {
	var c compound

	// attribute parts
	for {
		open := strings.IndexByte(p, '[')
		if open < 0 {
			break
		}
		end := strings.IndexByte(p[open:], ']')
		if end < 0 {
			break
		}
		c.attrs = append(c.attrs, parseAttr(p[open+1:open+end]))
		p = p[:open] + p[open+end+1:]
	}

	// tag is everything before the first '.' or '#'
	cut := strings.IndexAny(p, ".#")
	if cut < 0 {
		c.tag = strings.ToLower(p)
		return c
	}
	c.tag = strings.ToLower(p[:cut])
	rest := p[cut:]

	for rest != "" {
		kind := rest[0]
		rest = rest[1:]
		next := strings.IndexAny(rest, ".#")
		name := rest
		if next >= 0 {
			name, rest = rest[:next], rest[next:]
		} else {
			rest = ""
		}
		if name == "" {
			continue
		}
		if kind == '#' {
			c.id = name
		} else {
			c.classes = append(c.classes, name)
		}
	}
	return c
}

func parseAttr(a string) attrMatch {
	eq := strings.IndexByte(a, '=')
	if eq < 0 {
		return attrMatch{key: strings.TrimSpace(a)}
	}
	m := attrMatch{op: '=', val: strings.Trim(strings.TrimSpace(a[eq+1:]), `"'`)}
	key := strings.TrimSpace(a[:eq])
	if n := len(key); n > 0 && (key[n-1] == '*' || key[n-1] == '^') {
		m.op = key[n-1]
		key = key[:n-1]
	}
	m.key = key
	return m
}

// Match reports whether n matches any group.
func (s Selector) Match(n *html.Node) bool {
	for _, chain := range s.groups {
		if matchChain(n, chain) {
			return true
		}
	}
	return false
}

// matchChain matches right to left: n against the last compound, then each
// earlier compound against some ancestor.
func matchChain(n *html.Node, chain []compound) bool {
	last := len(chain) - 1
	if !chain[last].match(n) {
		return false
	}
	anc := n.Parent
	for i := last - 1; i >= 0; i-- {
		for anc != nil && !chain[i].match(anc) {
			anc = anc.Parent
		}
		if anc == nil {
			return false
		}
		anc = anc.Parent
	}
	return true
}

func (c compound) match(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if c.tag != "" && c.tag != "*" && n.Data != c.tag {
		return false
	}
	if c.id != "" && getAttr(n, "id") != c.id {
		return false
	}
	if len(c.classes) > 0 {
		have := strings.Fields(getAttr(n, "class"))
		for _, want := range c.classes {
			if !contains(have, want) {
				return false
			}
		}
	}
	for _, a := range c.attrs {
		val, ok := lookupAttr(n, a.key)
		if !ok {
			return false
		}
		switch a.op {
		case '=':
			if val != a.val {
				return false
			}
		case '*':
			if !strings.Contains(val, a.val) {
				return false
			}
		case '^':
			if !strings.HasPrefix(val, a.val) {
				return false
			}
		}
	}
	return true
}

// QueryAll returns the elements under root matching sel, in document order.
// root itself is not a candidate.
func QueryAll(root *html.Node, sel Selector) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if sel.Match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// Query returns the first element under root matching sel, or nil.
func Query(root *html.Node, sel Selector) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if sel.Match(c) {
				found = c
				return true
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	if root != nil {
		walk(root)
	}
	return found
}

func getAttr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
