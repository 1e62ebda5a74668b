// Package parser turns xlsx, xlsb, and CSV input into label-searchable grids.
package parser

import (
	"strconv"

	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/grid"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/models"
	"github.com/xuri/excelize/v2"
)

// ExtractGrid reads every row of a sheet as cell text.
// With raw set, numbers are returned unformatted (no thousands separators or
// date rendering), which is what amount fields need.
func ExtractGrid(f *excelize.File, sheetName string, raw bool) (grid.Grid, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: raw})
	if err != nil {
		return nil, err
	}
	return grid.Grid(rows), nil
}

// ExtractSheets reads every sheet of a workbook in workbook order.
// A sheet that fails to read is reported through onErr and skipped.
func ExtractSheets(f *excelize.File, raw bool, onErr func(sheet string, err error)) []models.SheetGrid {
	var sheets []models.SheetGrid
	for _, name := range f.GetSheetList() {
		g, err := ExtractGrid(f, name, raw)
		if err != nil {
			if onErr != nil {
				onErr(name, err)
			}
			continue
		}
		sheets = append(sheets, models.SheetGrid{Name: name, Grid: g})
	}
	return sheets
}

// CellRows converts a grid to the sparse row form used by the grid dump.
// It returns only non-empty rows; indexes are 1-based.
func CellRows(g grid.Grid) []models.CellRow {
	var result []models.CellRow
	for rowIdx, row := range g {
		cellMap := make(map[string]interface{})
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			cellMap[strconv.Itoa(colIdx+1)] = parseValue(cellValue)
		}
		if len(cellMap) > 0 {
			result = append(result, models.CellRow{R: rowIdx + 1, C: cellMap})
		}
	}
	return result
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
