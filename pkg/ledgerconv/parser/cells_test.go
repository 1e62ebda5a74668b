package parser

import (
	"path/filepath"
	"testing"

	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/grid"
	"github.com/xuri/excelize/v2"
)

func TestExtractGrid(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "B4", "基本給")
	f.SetCellValue(sheetName, "B5", 250000)
	f.SetCellValue(sheetName, "C5", 200.5)
	f.SetCellValue(sheetName, "A1", "Header")

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	g, err := ExtractGrid(f2, sheetName, true)
	if err != nil {
		t.Fatalf("ExtractGrid failed: %v", err)
	}

	if len(g) != 5 {
		t.Fatalf("Expected 5 rows, got %d", len(g))
	}
	if g.Cell(0, 0) != "Header" {
		t.Errorf("Expected 'Header', got %q", g.Cell(0, 0))
	}
	if g.Cell(3, 1) != "基本給" {
		t.Errorf("Expected '基本給', got %q", g.Cell(3, 1))
	}
	if g.Cell(4, 1) != "250000" {
		t.Errorf("Expected '250000', got %q", g.Cell(4, 1))
	}
	if g.Cell(4, 2) != "200.5" {
		t.Errorf("Expected '200.5', got %q", g.Cell(4, 2))
	}

	if _, err := ExtractGrid(f2, "NoSuchSheet", true); err == nil {
		t.Error("Expected an error for a missing sheet")
	}
}

func TestExtractSheets(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "one")
	if _, err := f.NewSheet("明細2"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	f.SetCellValue("明細2", "A1", "two")

	var failed []string
	sheets := ExtractSheets(f, false, func(sheet string, err error) {
		failed = append(failed, sheet)
	})

	if len(failed) != 0 {
		t.Errorf("unexpected failures: %v", failed)
	}
	if len(sheets) != 2 {
		t.Fatalf("Expected 2 sheets, got %d", len(sheets))
	}
	if sheets[0].Name != "Sheet1" || sheets[1].Name != "明細2" {
		t.Errorf("unexpected sheet order: %s, %s", sheets[0].Name, sheets[1].Name)
	}
	if sheets[1].Grid.Cell(0, 0) != "two" {
		t.Errorf("Expected 'two', got %q", sheets[1].Grid.Cell(0, 0))
	}
}

func TestCellRows(t *testing.T) {
	g := grid.Grid{
		{"Header1", "Header2"},
		{},
		{"100", "200.5", ""},
		{"", "Text"},
	}

	rows := CellRows(g)
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].R != 1 || rows[0].C["1"] != "Header1" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].R != 3 {
		t.Errorf("Expected row 3, got %d", rows[1].R)
	}
	if rows[1].C["1"] != int64(100) {
		t.Errorf("Expected int64(100), got %v (type: %T)", rows[1].C["1"], rows[1].C["1"])
	}
	if rows[1].C["2"] != 200.5 {
		t.Errorf("Expected 200.5, got %v", rows[1].C["2"])
	}
	if _, ok := rows[1].C["3"]; ok {
		t.Error("empty cells must be omitted")
	}
	if rows[2].C["2"] != "Text" {
		t.Errorf("Expected 'Text', got %v", rows[2].C["2"])
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"hello", "hello"},
		{"250,000", "250,000"},
		{"", ""},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}

func TestRawCellText(t *testing.T) {
	tests := []struct {
		input    any
		expected string
	}{
		{nil, ""},
		{"基本給", "基本給"},
		{float64(250000), "250000"},
		{12.5, "12.5"},
		{true, "TRUE"},
		{false, "FALSE"},
	}
	for _, tt := range tests {
		if got := rawCellText(tt.input); got != tt.expected {
			t.Errorf("rawCellText(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
