// Package markdown decodes Markdown files to plain text.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.Decoder = (*Decoder)(nil)

// Decoder handles Markdown documents.
type Decoder struct{}

// New creates a new Markdown decoder.
func New() *Decoder {
	return &Decoder{}
}

// Name returns the decoder name.
func (d *Decoder) Name() string { return "markdown" }

// Extensions returns the file extensions this decoder handles.
func (d *Decoder) Extensions() []string {
	return []string{".md", ".markdown", ".mdx"}
}

// MIMETypes returns the MIME types this decoder handles.
func (d *Decoder) MIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Decode strips Markdown syntax from raw. Fenced code is kept as text
// since identifiers in it are often what a query asks about.
func (d *Decoder) Decode(_ context.Context, raw []byte) (string, error) {
	return Strip(strings.ReplaceAll(string(raw), "\r\n", "\n")), nil
}

var (
	codeFence     = regexp.MustCompile("(?m)^```.*$")
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	images        = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis      = regexp.MustCompile(`(\*\*|__|\*|~~)`)
	blockquote    = regexp.MustCompile(`(?m)^>\s?`)
	horizontal    = regexp.MustCompile(`(?m)^\s*([-*_]\s*){3,}$`)
	listMarker    = regexp.MustCompile(`(?m)^(\s*)[-*+]\s+`)
	numberedList  = regexp.MustCompile(`(?m)^(\s*)\d+\.\s+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Strip removes common Markdown formatting.
func Strip(content string) string {
	content = codeFence.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "$1")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = horizontal.ReplaceAllString(content, "")
	content = listMarker.ReplaceAllString(content, "$1")
	content = numberedList.ReplaceAllString(content, "$1")
	content = blockquote.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "")
	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
