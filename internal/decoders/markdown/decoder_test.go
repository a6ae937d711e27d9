package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_Metadata(t *testing.T) {
	d := New()
	assert.Equal(t, "markdown", d.Name())
	assert.Contains(t, d.MIMETypes(), "text/markdown")
	assert.Contains(t, d.Extensions(), ".md")
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"heading", "# Title\n## Sub", "Title\nSub"},
		{"emphasis", "**bold** and *italic* and ~~gone~~", "bold and italic and gone"},
		{"link", "see [the docs](https://example.com)", "see the docs"},
		{"image", "![diagram](img.png) caption", "diagram caption"},
		{"inline code", "call `Sync()` first", "call Sync() first"},
		{"fenced code", "```go\nfmt.Println()\n```", "fmt.Println()"},
		{"list", "- one\n* two\n1. three", "one\ntwo\nthree"},
		{"blockquote", "> quoted", "quoted"},
		{"rule", "above\n\n---\n\nbelow", "above\n\nbelow"},
		{"snake case kept", "max_residue_limit", "max_residue_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.content))
		})
	}
}

func TestDecode_CRLF(t *testing.T) {
	got, err := New().Decode(context.Background(), []byte("# A\r\ntext\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "A\ntext", got)
}
