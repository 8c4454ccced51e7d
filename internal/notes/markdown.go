// Package notes renders problem notes (markdown) to sanitized HTML.
package notes

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)

	// raw HTML is allowed through goldmark and filtered here
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &Renderer{md: md, policy: policy}
}

// Render converts a markdown note to safe HTML. An empty note renders empty.
func (r *Renderer) Render(note string) (string, error) {
	if note == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(note), &buf); err != nil {
		return "", fmt.Errorf("failed to render note: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}
