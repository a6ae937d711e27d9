// Package pdf extracts the text layer of PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.Decoder = (*Decoder)(nil)

// Decoder handles PDF documents. Scanned pages without a text layer
// decode to empty text.
type Decoder struct{}

// New creates a new PDF decoder.
func New() *Decoder {
	return &Decoder{}
}

// Name returns the decoder name.
func (d *Decoder) Name() string { return "pdf" }

// Extensions returns the file extensions this decoder handles.
func (d *Decoder) Extensions() []string { return []string{".pdf"} }

// MIMETypes returns the MIME types this decoder handles.
func (d *Decoder) MIMETypes() []string { return []string{"application/pdf"} }

// Decode returns the plain text of every page in order.
func (d *Decoder) Decode(ctx context.Context, raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String()), nil
}

