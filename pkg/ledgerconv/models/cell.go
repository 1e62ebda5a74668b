// Package models defines the data structures shared by the converters.
package models

// CellRow is one non-empty sheet row as written by the grid dump.
type CellRow struct {
	// R is the row index (1-based).
	R int `json:"r"`
	// C maps column index (1-based, as string) to the cell value.
	C map[string]interface{} `json:"c"`
}
