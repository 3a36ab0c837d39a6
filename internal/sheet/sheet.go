// Package sheet is the spreadsheet codec: it decodes an uploaded xlsx
// workbook into loose row records for the import reconciler, and
// serializes the export projection back into a workbook.
package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"rolodex/internal/contacts"
)

// ExportHeaders is the column layout of an exported workbook, one column
// per Contact field.
var ExportHeaders = []string{
	"ID", "First Name", "Last Name", "Email", "Phone", "Company", "Notes", "Created At", "Updated At",
}

// Decode reads the first worksheet of an xlsx workbook. The first row is
// taken as the header; every following non-blank row becomes one record
// keyed by header text. Cells beyond the header width are dropped.
func Decode(r io.Reader) ([]contacts.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	headers := rows[0]
	records := make([]contacts.Row, 0, len(rows)-1)

	for _, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		record := make(contacts.Row, len(headers))
		for i, header := range headers {
			header = strings.TrimSpace(header)
			if header == "" {
				continue
			}
			if i < len(cells) {
				record[header] = cells[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// Encode writes contacts as an xlsx workbook: one header row, one row per
// record, columns per ExportHeaders.
func Encode(w io.Writer, cs []contacts.Contact) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if err := f.SetSheetRow(sheetName, "A1", &ExportHeaders); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, c := range cs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		row := []interface{}{
			strconv.FormatInt(c.ID, 10),
			c.FirstName,
			c.LastName,
			optional(c.Email),
			optional(c.Phone),
			optional(c.Company),
			optional(c.Notes),
			c.CreatedAt.Format(time.RFC3339),
			c.UpdatedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportFilename returns the dated attachment name for an export.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("contacts_%s.xlsx", t.Format("2006-01-02"))
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
