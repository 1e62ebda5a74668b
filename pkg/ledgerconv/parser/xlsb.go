package parser

import (
	"fmt"
	"strconv"

	"github.com/TsubasaBE/go-xlsb"
	"github.com/TsubasaBE/go-xlsb/workbook"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/grid"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/models"
)

// ExtractXLSBGrids reads every sheet of an .xlsb workbook in workbook order.
// A sheet that fails to open is reported through onErr and skipped.
func ExtractXLSBGrids(path string, raw bool, onErr func(sheet string, err error)) ([]models.SheetGrid, error) {
	wb, err := xlsb.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	var sheets []models.SheetGrid
	for i, name := range wb.Sheets() {
		g, err := xlsbSheetGrid(wb, i+1, raw)
		if err != nil {
			if onErr != nil {
				onErr(name, err)
			}
			continue
		}
		sheets = append(sheets, models.SheetGrid{Name: name, Grid: g})
	}
	return sheets, nil
}

func xlsbSheetGrid(wb *workbook.Workbook, idx int, raw bool) (grid.Grid, error) {
	ws, err := wb.Sheet(idx)
	if err != nil {
		return nil, err
	}

	var g grid.Grid
	for row := range ws.Rows(false) {
		cells := make([]string, len(row))
		for _, cell := range row {
			if cell.C < 0 || cell.C >= len(cells) {
				continue
			}
			if raw {
				cells[cell.C] = rawCellText(cell.V)
			} else {
				cells[cell.C] = wb.FormatCell(cell.V, cell.Style)
			}
		}
		g = append(g, cells)
	}
	return g, nil
}

// rawCellText renders an xlsb cell value without its number format.
func rawCellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(val)
	}
}
