// Package grid locates values in semi-structured spreadsheet sheets by label.
//
// A Grid is the row-major cell text of one sheet. A LabelIndex maps the
// normalized text of every cell to the first position it appears at, so a
// field such as "基本給" can be read from the cell directly below its label
// regardless of where a given template places it.
package grid

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Grid is an ordered list of rows of cell text. Rows may differ in length.
type Grid [][]string

// Cell returns the trimmed text at (row, col), both 0-based.
// Coordinates outside the grid yield "".
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Coord is a 0-based cell position.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Below returns the position one row down.
func (c Coord) Below() Coord {
	return Coord{Row: c.Row + 1, Col: c.Col}
}

// NormalizeKey folds label text into a comparison key: NFKC (full-width and
// half-width forms unified), whitespace removed, colons removed.
func NormalizeKey(s string) string {
	s = strings.TrimSpace(norm.NFKC.String(s))
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == ':' || r == '：' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
