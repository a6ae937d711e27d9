package decoders

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
	"github.com/custodia-labs/ragdrive/internal/decoders/docx"
	"github.com/custodia-labs/ragdrive/internal/decoders/eml"
	"github.com/custodia-labs/ragdrive/internal/decoders/html"
	"github.com/custodia-labs/ragdrive/internal/decoders/markdown"
	"github.com/custodia-labs/ragdrive/internal/decoders/pdf"
	"github.com/custodia-labs/ragdrive/internal/decoders/plaintext"
	"github.com/custodia-labs/ragdrive/internal/decoders/xlsx"
)

// Ensure Registry implements the interface.
var _ driven.DecoderRegistry = (*Registry)(nil)

// Registry selects decoders by MIME type, extension or sniffed content.
// Later registrations win for a shared key.
type Registry struct {
	byMIME      map[string]driven.Decoder
	byExtension map[string]driven.Decoder
}

// NewRegistry creates a registry holding the given decoders.
func NewRegistry(decoders ...driven.Decoder) *Registry {
	r := &Registry{
		byMIME:      make(map[string]driven.Decoder),
		byExtension: make(map[string]driven.Decoder),
	}
	for _, d := range decoders {
		r.Register(d)
	}
	return r
}

// Default returns a registry with every built-in decoder.
func Default() *Registry {
	return NewRegistry(
		plaintext.New(),
		markdown.New(),
		html.New(),
		docx.New(),
		xlsx.New(),
		pdf.New(),
		eml.New(),
	)
}

// Register adds a decoder for its MIME types and extensions.
func (r *Registry) Register(d driven.Decoder) {
	for _, m := range d.MIMETypes() {
		r.byMIME[normaliseMIME(m)] = d
	}
	for _, ext := range d.Extensions() {
		r.byExtension[strings.ToLower(ext)] = d
	}
}

// Supports reports whether name's extension or mimeType has a decoder.
func (r *Registry) Supports(name, mimeType string) bool {
	return r.lookup(name, mimeType) != nil
}

// SupportsMIME reports whether mimeType has a decoder.
func (r *Registry) SupportsMIME(mimeType string) bool {
	_, ok := r.byMIME[normaliseMIME(mimeType)]
	return ok
}

// Decode runs the decoder chosen for the input. Without a name or MIME
// match the content is sniffed.
func (r *Registry) Decode(ctx context.Context, name, mimeType string, raw []byte) (result domain.DecodeResult) {
	if err := ctx.Err(); err != nil {
		return domain.DecodeFailed(&domain.DecodeError{Name: name, Err: err})
	}

	d := r.lookup(name, mimeType)
	if d == nil {
		sniffed := mimetype.Detect(raw).String()
		d = r.byMIME[normaliseMIME(sniffed)]
		if d == nil {
			return domain.DecodeFailed(&domain.DecodeError{
				Name: name,
				Err:  fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, sniffed),
			})
		}
	}

	defer func() {
		if p := recover(); p != nil {
			result = domain.DecodeFailed(&domain.DecodeError{
				Name:    name,
				Decoder: d.Name(),
				Err:     fmt.Errorf("decoder panicked: %v", p),
			})
		}
	}()

	text, err := d.Decode(ctx, raw)
	if err != nil {
		return domain.DecodeFailed(&domain.DecodeError{Name: name, Decoder: d.Name(), Err: err})
	}
	return domain.Decoded(text)
}

// lookup prefers the declared MIME type, then the file extension.
func (r *Registry) lookup(name, mimeType string) driven.Decoder {
	if d, ok := r.byMIME[normaliseMIME(mimeType)]; ok {
		return d
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		return r.byExtension[ext]
	}
	return nil
}

// normaliseMIME drops parameters and lowercases the media type.
func normaliseMIME(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mediaType
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
