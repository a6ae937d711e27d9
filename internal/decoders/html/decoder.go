// Package html extracts readable text from HTML documents, dropping
// scripts, styles and markup and decoding entities.
package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.Decoder = (*Decoder)(nil)

// Decoder handles HTML documents.
type Decoder struct{}

// New creates a new HTML decoder.
func New() *Decoder {
	return &Decoder{}
}

// Name returns the decoder name.
func (d *Decoder) Name() string { return "html" }

// Extensions returns the file extensions this decoder handles.
func (d *Decoder) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// MIMETypes returns the MIME types this decoder handles.
func (d *Decoder) MIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Decode strips markup from raw. The <title>, when present, becomes the
// first line.
func (d *Decoder) Decode(_ context.Context, raw []byte) (string, error) {
	content := string(raw)
	body := Strip(content)

	title := Title(content)
	if title == "" || strings.HasPrefix(body, title) {
		return body, nil
	}
	if body == "" {
		return title, nil
	}
	return title + "\n" + body, nil
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag        = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag       = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag        = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag     = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag         = regexp.MustCompile(`(?is)<head(\s[^>]*)?>.*?</head>`)
	svgTag          = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments    = regexp.MustCompile(`(?s)<!--.*?-->`)
	closeBlockTags  = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|td|th|blockquote|pre|table|section|article)>`)
	openBlockTags   = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	lineBreakTags   = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	anyTag          = regexp.MustCompile(`<[^>]+>`)
	horizontalSpace = regexp.MustCompile(`[ \t\x{00a0}]+`)
)

// Title returns the decoded contents of the <title> element, if any.
func Title(content string) string {
	matches := titleTag.FindStringSubmatch(content)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(matches[1]))
}

// Strip removes markup and returns one non-empty line per block.
func Strip(content string) string {
	for _, re := range []*regexp.Regexp{scriptTag, styleTag, noscriptTag, headTag, svgTag, htmlComments} {
		content = re.ReplaceAllString(content, "")
	}

	content = openBlockTags.ReplaceAllString(content, "\n")
	content = closeBlockTags.ReplaceAllString(content, "\n")
	content = lineBreakTags.ReplaceAllString(content, "\n")
	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = horizontalSpace.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
