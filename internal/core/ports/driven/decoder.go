package driven

import (
	"context"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// Decoder converts raw bytes of one family of formats to plain text.
type Decoder interface {
	// Name identifies the decoder in logs and errors.
	Name() string

	// Extensions returns the lowercase file extensions handled, with dot.
	Extensions() []string

	// MIMETypes returns the MIME types handled.
	MIMETypes() []string

	// Decode extracts text from raw.
	Decode(ctx context.Context, raw []byte) (string, error)
}

// DecoderRegistry selects a decoder for an input by extension or MIME type.
type DecoderRegistry interface {
	// Supports reports whether an input with this name or MIME type can be decoded.
	Supports(name, mimeType string) bool

	// SupportsMIME reports whether a decoder is registered for mimeType.
	SupportsMIME(mimeType string) bool

	// Decode runs the matching decoder. Failures, including panics inside
	// the decoder, are returned in the result and never propagated.
	Decode(ctx context.Context, name, mimeType string, raw []byte) domain.DecodeResult
}
