// Package docx extracts paragraph text from Office Open XML word
// processing documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.Decoder = (*Decoder)(nil)

// MIMEType is the registered type of .docx files.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const documentPart = "word/document.xml"

// ErrNoDocumentPart is returned for archives without word/document.xml.
var ErrNoDocumentPart = errors.New("missing " + documentPart)

// Decoder handles DOCX documents.
type Decoder struct{}

// New creates a new DOCX decoder.
func New() *Decoder {
	return &Decoder{}
}

// Name returns the decoder name.
func (d *Decoder) Name() string { return "docx" }

// Extensions returns the file extensions this decoder handles.
func (d *Decoder) Extensions() []string { return []string{".docx"} }

// MIMETypes returns the MIME types this decoder handles.
func (d *Decoder) MIMETypes() []string { return []string{MIMEType} }

// Decode returns one line per paragraph of the main document part.
func (d *Decoder) Decode(_ context.Context, raw []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", documentPart, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read %s: %w", documentPart, err)
		}
		return parseDocumentXML(content)
	}
	return "", ErrNoDocumentPart
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type table struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []paragraph `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []string `xml:"t"`
}

func (p paragraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t)
		}
	}
	return b.String()
}

// parseDocumentXML extracts body paragraphs followed by table rows, with
// cells separated by tabs.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("parse %s: %w", documentPart, err)
	}

	var lines []string
	for _, para := range doc.Body.Paragraphs {
		lines = append(lines, para.text())
	}

	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				parts := make([]string, 0, len(cell.Paragraphs))
				for _, para := range cell.Paragraphs {
					parts = append(parts, para.text())
				}
				cells = append(cells, strings.Join(parts, " "))
			}
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
