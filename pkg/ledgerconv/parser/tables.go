package parser

import (
	"fmt"

	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/grid"
	"github.com/xuri/excelize/v2"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// DetectTables returns the bounding range (e.g. "A1:D10") of the non-empty
// cells when they are dense enough to look like a table.
func DetectTables(g grid.Grid, params TableDetectionParams) []string {
	minRow, maxRow, minCol, maxCol := findDataBounds(g)
	if minRow < 0 {
		return nil
	}

	totalCells := (maxRow - minRow + 1) * (maxCol - minCol + 1)
	nonEmptyCells := countNonEmptyCells(g, minRow, maxRow, minCol, maxCol)
	if nonEmptyCells < params.MinNonemptyCells {
		return nil
	}

	density := float64(nonEmptyCells) / float64(totalCells)
	if density < params.DensityMin {
		return nil
	}

	startCell, _ := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	endCell, _ := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	return []string{fmt.Sprintf("%s:%s", startCell, endCell)}
}

// findDataBounds finds the bounding box of non-empty cells (0-based, -1 when empty).
func findDataBounds(g grid.Grid) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range g {
		for colIdx := range row {
			if g.Cell(rowIdx, colIdx) == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

func countNonEmptyCells(g grid.Grid, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow; rowIdx++ {
		for colIdx := minCol; colIdx <= maxCol; colIdx++ {
			if g.Cell(rowIdx, colIdx) != "" {
				count++
			}
		}
	}
	return count
}
