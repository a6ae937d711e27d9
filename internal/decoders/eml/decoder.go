// Package eml decodes RFC 5322 email messages, such as saved .eml files,
// into a header summary followed by the message body.
package eml

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
	"github.com/custodia-labs/ragdrive/internal/decoders/html"
)

// Ensure Decoder implements the interface.
var _ driven.Decoder = (*Decoder)(nil)

// Decoder handles email messages.
type Decoder struct{}

// New creates a new email decoder.
func New() *Decoder {
	return &Decoder{}
}

// Name returns the decoder name.
func (d *Decoder) Name() string { return "eml" }

// Extensions returns the file extensions this decoder handles.
func (d *Decoder) Extensions() []string { return []string{".eml"} }

// MIMETypes returns the MIME types this decoder handles.
func (d *Decoder) MIMETypes() []string { return []string{"message/rfc822"} }

// Decode renders From, To, Date and Subject lines, a blank line, then the
// body. Plain text parts are preferred over HTML ones.
func (d *Decoder) Decode(_ context.Context, raw []byte) (string, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("read message: %w", err)
	}

	body, err := extractBody(msg.Header.Get("Content-Type"), msg.Body)
	if err != nil {
		return "", err
	}

	var content strings.Builder
	for _, name := range []string{"From", "To", "Date", "Subject"} {
		if value := decodeHeader(msg.Header.Get(name)); value != "" {
			fmt.Fprintf(&content, "%s: %s\n", name, value)
		}
	}
	content.WriteString("\n")
	content.WriteString(body)

	return strings.TrimSpace(content.String()), nil
}

// decodeHeader decodes RFC 2047 encoded words, returning the input when
// it cannot be decoded.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	decoded, err := new(mime.WordDecoder).DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

func extractBody(contentType string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return extractMultipart(r, params["boundary"]), nil
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if mediaType == "text/html" {
		return html.Strip(string(body)), nil
	}
	return string(body), nil
}

// extractMultipart walks nested parts. Unreadable parts are skipped.
func extractMultipart(r io.Reader, boundary string) string {
	if boundary == "" {
		return ""
	}

	mr := multipart.NewReader(r, boundary)
	var textParts, htmlParts []string
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}

		mediaType, params, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			mediaType = "text/plain"
		}
		content, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			continue
		}

		switch {
		case mediaType == "text/plain":
			textParts = append(textParts, string(content))
		case mediaType == "text/html":
			htmlParts = append(htmlParts, html.Strip(string(content)))
		case strings.HasPrefix(mediaType, "multipart/"):
			if nested := extractMultipart(bytes.NewReader(content), params["boundary"]); nested != "" {
				textParts = append(textParts, nested)
			}
		}
	}

	if len(textParts) > 0 {
		return strings.Join(textParts, "\n")
	}
	return strings.Join(htmlParts, "\n")
}
