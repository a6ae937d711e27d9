// Package plaintext decodes text files that need no format-specific
// extraction: prose, source code, CSV and structured text.
package plaintext

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.Decoder = (*Decoder)(nil)

// ErrBinary is returned for content that contains NUL bytes.
var ErrBinary = errors.New("binary content")

// Decoder passes text through, normalising line endings.
type Decoder struct{}

// New creates a new plain text decoder.
func New() *Decoder {
	return &Decoder{}
}

// Name returns the decoder name.
func (d *Decoder) Name() string { return "plaintext" }

// Extensions returns the file extensions this decoder handles.
func (d *Decoder) Extensions() []string {
	return []string{
		".txt", ".text", ".log", ".csv", ".tsv",
		".json", ".yaml", ".yml", ".toml", ".xml",
		".go", ".py", ".js", ".ts", ".java", ".c", ".h", ".rs", ".rb", ".sh", ".sql",
	}
}

// MIMETypes returns the MIME types this decoder handles.
func (d *Decoder) MIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/tab-separated-values",
		"text/yaml",
		"text/toml",
		"text/x-go",
		"text/x-python",
		"text/x-java",
		"text/x-c",
		"text/x-shellscript",
		"text/x-sql",
		"text/javascript",
		"application/json",
		"application/xml",
		"text/xml",
	}
}

// Decode returns raw as text. Invalid UTF-8 sequences are replaced.
func (d *Decoder) Decode(_ context.Context, raw []byte) (string, error) {
	if bytes.IndexByte(raw, 0) >= 0 {
		return "", ErrBinary
	}

	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	text := strings.ToValidUTF8(string(raw), "�")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text), nil
}
