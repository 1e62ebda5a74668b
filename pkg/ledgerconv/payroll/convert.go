package payroll

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/models"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/output"
)

// DefaultMinRows is the shortest sheet treated as a payslip.
const DefaultMinRows = 15

// ErrNoSlips reports that no sheet produced a row with a family name.
var ErrNoSlips = errors.New("no payslip data found")

// ParseSheets converts every sheet that looks like a payslip. Sheets shorter
// than minRows and slips without a family name are skipped.
func ParseSheets(sheets []models.SheetGrid, minRows int, log *slog.Logger) ([]Row, error) {
	if minRows <= 0 {
		minRows = DefaultMinRows
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var rows []Row
	for _, sheet := range sheets {
		if len(sheet.Grid) < minRows {
			log.Debug("skip short sheet", "sheet", sheet.Name, "rows", len(sheet.Grid))
			continue
		}
		row := ParseSheet(sheet.Grid)
		if row[ColFamilyName] == "" {
			log.Warn("skip sheet without employee name", "sheet", sheet.Name)
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrNoSlips
	}
	return rows, nil
}

// WriteCSV writes the header and rows as UTF-8 with BOM, every field quoted.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := output.NewCSVWriter(w, output.UTF8BOM, output.LF)
	if err := cw.WriteRaw(strings.Join(Headers, ",")); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.WriteQuoted(row.Values()); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// FileName is the download name used by the payroll tool.
func FileName(t time.Time) string {
	return "給与集計データ_" + t.Format("2006-01-02") + ".csv"
}
