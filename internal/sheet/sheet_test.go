package sheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"rolodex/internal/contacts"
)

func strPtr(s string) *string { return &s }

func TestEncodeDecodeRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	cs := []contacts.Contact{
		{
			ID:        1,
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     strPtr("ada@example.com"),
			Company:   strPtr("Analytical Engines"),
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:        2,
			FirstName: "Grace",
			LastName:  "Hopper",
			Phone:     strPtr("555-0100"),
			CreatedAt: created,
			UpdatedAt: created,
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, cs); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	rows, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first["ID"] != "1" {
		t.Errorf("ID = %q, want 1", first["ID"])
	}
	if first["First Name"] != "Ada" || first["Last Name"] != "Lovelace" {
		t.Errorf("name = %q %q", first["First Name"], first["Last Name"])
	}
	if first["Email"] != "ada@example.com" {
		t.Errorf("Email = %q", first["Email"])
	}
	if first["Phone"] != "" {
		t.Errorf("nil field should decode empty, got %q", first["Phone"])
	}
	if first["Created At"] != "2024-03-01T09:30:00Z" {
		t.Errorf("Created At = %q", first["Created At"])
	}

	second := rows[1]
	if second["Phone"] != "555-0100" {
		t.Errorf("Phone = %q", second["Phone"])
	}
	if second["Company"] != "" {
		t.Errorf("Company = %q, want empty", second["Company"])
	}
}

func TestDecodeSkipsBlankRows(t *testing.T) {
	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)

	headers := []interface{}{"first_name", "last_name", "email"}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		t.Fatal(err)
	}
	row2 := []interface{}{"Ada", "Lovelace", "ada@example.com"}
	if err := f.SetSheetRow(sheetName, "A2", &row2); err != nil {
		t.Fatal(err)
	}
	// Row 3 left entirely blank; row 4 has trailing cells missing.
	row4 := []interface{}{"Grace", "Hopper"}
	if err := f.SetSheetRow(sheetName, "A4", &row4); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	rows, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after skipping blanks, got %d", len(rows))
	}
	if rows[1]["first_name"] != "Grace" {
		t.Errorf("first_name = %q", rows[1]["first_name"])
	}
	if rows[1]["email"] != "" {
		t.Errorf("missing trailing cell should decode empty, got %q", rows[1]["email"])
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Fatal("expected error for non-xlsx input")
	}
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2025, 7, 4, 16, 45, 0, 0, time.UTC)
	if got := ExportFilename(ts); got != "contacts_2025-07-04.xlsx" {
		t.Errorf("ExportFilename = %q", got)
	}
}
