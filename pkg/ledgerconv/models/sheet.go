package models

import "github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/grid"

// SheetGrid is the cell text of one sheet, ready for label lookup.
type SheetGrid struct {
	// Name is the sheet name (the file base name for CSV input).
	Name string
	// Grid holds the rows of cell text.
	Grid grid.Grid
}

// SheetData is the grid dump of a single sheet.
type SheetData struct {
	// Rows contains the non-empty rows.
	Rows []CellRow `json:"rows,omitempty"`
	// Labels maps normalized label keys to their first position.
	Labels map[string]grid.Coord `json:"labels,omitempty"`
	// TableCandidates contains cell ranges likely representing tables.
	TableCandidates []string `json:"table_candidates,omitempty"`
	// PrintAreas contains user-defined print areas.
	PrintAreas []PrintArea `json:"print_areas,omitempty"`
}
