// Package xlsx decodes Excel workbooks, rendering each sheet as a block
// of tab-separated rows under the sheet name.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.Decoder = (*Decoder)(nil)

// MIMEType is the registered type of .xlsx files.
const MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Decoder handles XLSX workbooks.
type Decoder struct{}

// New creates a new XLSX decoder.
func New() *Decoder {
	return &Decoder{}
}

// Name returns the decoder name.
func (d *Decoder) Name() string { return "xlsx" }

// Extensions returns the file extensions this decoder handles.
func (d *Decoder) Extensions() []string { return []string{".xlsx", ".xlsm"} }

// MIMETypes returns the MIME types this decoder handles.
func (d *Decoder) MIMETypes() []string { return []string{MIMEType} }

// Decode renders every sheet. Blank rows are dropped; unreadable sheets
// are skipped.
func (d *Decoder) Decode(ctx context.Context, raw []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var blocks []string
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		lines := []string{"# " + sheet}
		for _, row := range rows {
			line := strings.TrimRight(strings.Join(row, "\t"), "\t ")
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 1 {
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
	}

	return strings.Join(blocks, "\n\n"), nil
}
