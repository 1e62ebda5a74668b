// Package asset converts a fixed asset ledger export into the import CSV of
// the depreciation software.
//
// The ledger is a CSV whose detail lines start with "[明細行]". Each detail
// line becomes one output row of len(Headers) columns; only the columns the
// ledger can fill are set, the rest stay blank.
package asset

import (
	_ "embed"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/grid"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/wareki"
)

//go:embed headers.txt
var headersText string

// Headers lists the output columns in order.
var Headers = strings.Split(strings.TrimRight(headersText, "\n"), "\n")

// DetailMarker starts every asset line of the ledger.
const DetailMarker = "[明細行]"

// ErrNoDetailRows reports a ledger without any detail line.
var ErrNoDetailRows = errors.New("no asset detail rows found")

// Ledger columns (0-based).
const (
	colCategory    = 3
	colName        = 9
	colQuantity    = 10
	colUnit        = 11
	colAcquired    = 12
	colInService   = 13
	colMethod      = 19
	colUsefulLife  = 20
	colRate        = 21
	colRatio       = 22
	colCost        = 23
	colCompression = 24
	colNetCost     = 25
)

const (
	clientNameRow   = 2
	clientNameCol   = 1
	immediateMethod = "即時償却"
)

// Output columns (0-based indexes into Headers).
const (
	OutAssetCode       = 0
	OutSplitCode       = 1
	OutTypeCode        = 2
	OutTypeName        = 3
	OutMethod          = 4
	OutName            = 10
	OutAcquired        = 13
	OutInService       = 14
	OutQuantity        = 15
	OutUnit            = 16
	OutUsefulLife      = 17
	OutRate            = 21
	OutCostInput       = 27
	OutCost            = 28
	OutCompression     = 30
	OutNetCost         = 33
	OutDepreciationPct = 74
)

// Depreciation methods written to OutMethod.
const (
	MethodSmallAsset   = "少額資産"
	MethodStraightLine = "定額法"
)

// Detail is one "[明細行]" line of the ledger.
type Detail struct {
	// Line is the 1-based line number in the ledger.
	Line int
	Cols []string
}

func (d Detail) col(i int) string {
	if i < 0 || i >= len(d.Cols) {
		return ""
	}
	return strings.TrimSpace(d.Cols[i])
}

// Category returns the asset type name (科目).
func (d Detail) Category() string {
	return d.col(colCategory)
}

// Ledger is a parsed asset ledger.
type Ledger struct {
	ClientName string
	Details    []Detail
}

// ParseLedger collects the detail lines and the client name (cell B3).
func ParseLedger(g grid.Grid) (*Ledger, error) {
	l := &Ledger{ClientName: g.Cell(clientNameRow, clientNameCol)}
	for r, row := range g {
		if len(row) == 0 || g.Cell(r, 0) != DetailMarker {
			continue
		}
		l.Details = append(l.Details, Detail{Line: r + 1, Cols: row})
	}
	if len(l.Details) == 0 {
		return nil, ErrNoDetailRows
	}
	return l, nil
}

var nonNumeric = regexp.MustCompile(`[^0-9.-]`)

// CleanNumber strips everything but digits, '.', and '-' ("1,200円" -> "1200").
func CleanNumber(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return nonNumeric.ReplaceAllString(s, "")
}

// Row is one output line in Headers order.
type Row []string

// NewRow builds the output row for a detail line. seq is the 1-based asset
// code and typeCode the (possibly blank) asset type code.
func NewRow(d Detail, seq int, typeCode string) Row {
	out := make(Row, len(Headers))

	cost := CleanNumber(d.col(colCost))
	method := MethodStraightLine
	if d.col(colMethod) == immediateMethod {
		method = MethodSmallAsset
	}

	out[OutAssetCode] = strconv.Itoa(seq)
	out[OutSplitCode] = "1"
	out[OutTypeCode] = typeCode
	out[OutTypeName] = d.Category()
	out[OutMethod] = method
	out[OutName] = d.col(colName)
	out[OutAcquired] = wareki.ToCompact(d.col(colAcquired))
	out[OutInService] = wareki.ToCompact(d.col(colInService))
	out[OutQuantity] = CleanNumber(d.col(colQuantity))
	out[OutUnit] = d.col(colUnit)
	out[OutUsefulLife] = CleanNumber(d.col(colUsefulLife))
	out[OutRate] = CleanNumber(d.col(colRate))
	out[OutDepreciationPct] = CleanNumber(d.col(colRatio))
	out[OutCostInput] = cost
	out[OutCost] = cost
	out[OutCompression] = CleanNumber(d.col(colCompression))
	out[OutNetCost] = CleanNumber(d.col(colNetCost))
	return out
}
