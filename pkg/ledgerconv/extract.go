package ledgerconv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/grid"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/models"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/parser"
	"github.com/xuri/excelize/v2"
)

// Format is an input file type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLSB Format = "xlsb"
	FormatCSV  Format = "csv"
)

// DetectFormat picks the reader for path by its extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xlsb":
		return FormatXLSB, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Workbook is a loaded input file.
type Workbook struct {
	// BookName is the file name (no path).
	BookName string
	Format   Format
	// Sheets are in workbook order. A CSV file is one sheet named after the file.
	Sheets []models.SheetGrid
	// PrintAreas maps sheet name to its print areas (xlsx only).
	PrintAreas map[string][]models.PrintArea
	// Charset is the decoding used for CSV input.
	Charset parser.Charset

	opts Options
}

// Open loads every sheet of path.
func Open(path string, opts Options) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	wb := &Workbook{
		BookName: filepath.Base(path),
		Format:   format,
		opts:     opts,
	}
	onErr := func(sheet string, err error) {
		opts.sheetError(sheet, "cells", err)
	}

	switch format {
	case FormatXLSX:
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()
		wb.Sheets = parser.ExtractSheets(f, opts.RawValues, onErr)
		if opts.ShouldIncludePrintAreas() {
			wb.PrintAreas = parser.ExtractPrintAreas(f)
		}
	case FormatXLSB:
		wb.Sheets, err = parser.ExtractXLSBGrids(path, opts.RawValues, onErr)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
	case FormatCSV:
		data, err := os.ReadFile(path) // #nosec G304 -- path provided by the user
		if err != nil {
			return nil, err
		}
		g, cs, err := parser.ReadCSVBytes(data, opts.Marker)
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		name := strings.TrimSuffix(wb.BookName, filepath.Ext(wb.BookName))
		wb.Sheets = []models.SheetGrid{{Name: name, Grid: g}}
		wb.Charset = cs
	}

	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, wb.BookName)
	}
	return wb, nil
}

// LoadGrids returns the cell text of every sheet of path.
func LoadGrids(path string, opts Options) ([]models.SheetGrid, error) {
	wb, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	return wb.Sheets, nil
}

// Extract extracts the structured grid dump of a file.
func Extract(path string, opts Options) (*models.WorkbookData, error) {
	wb, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	return wb.Data(), nil
}

// Data builds the structured dump of the loaded sheets.
func (wb *Workbook) Data() *models.WorkbookData {
	data := &models.WorkbookData{
		BookName: wb.BookName,
		Sheets:   make(map[string]models.SheetData, len(wb.Sheets)),
	}
	params := wb.opts.tableParams()

	for _, sheet := range wb.Sheets {
		sd := models.SheetData{
			Rows:            parser.CellRows(sheet.Grid),
			TableCandidates: parser.DetectTables(sheet.Grid, params),
			PrintAreas:      wb.PrintAreas[sheet.Name],
		}
		if wb.opts.IncludeLabels {
			sd.Labels = labelPositions(sheet.Grid)
		}
		data.SheetOrder = append(data.SheetOrder, sheet.Name)
		data.Sheets[sheet.Name] = sd
	}
	return data
}

// PrintAreaViews restricts each sheet to each of its print areas, in sheet
// order.
func (wb *Workbook) PrintAreaViews() []models.PrintAreaView {
	var views []models.PrintAreaView
	for _, sheet := range wb.Sheets {
		for _, area := range wb.PrintAreas[sheet.Name] {
			views = append(views, parser.AreaView(wb.BookName, sheet.Name, sheet.Grid, area))
		}
	}
	return views
}

func labelPositions(g grid.Grid) map[string]grid.Coord {
	idx := grid.BuildLabelIndex(g)
	if idx.Len() == 0 {
		return nil
	}
	labels := make(map[string]grid.Coord, idx.Len())
	for _, key := range idx.Keys() {
		at, _ := idx.Lookup(key)
		labels[key] = at
	}
	return labels
}
