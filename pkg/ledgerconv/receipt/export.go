package receipt

import (
	"io"
	"strings"
	"time"

	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/output"
)

// CSVHeaders are the columns of the accounting import.
var CSVHeaders = []string{
	"取込日", "取引日", "支払先", "金額", "消費税率",
	"消費税区分", "勘定科目", "補助科目", "部門", "摘要",
}

// TSVHeaders are the columns copied for spreadsheet paste.
var TSVHeaders = []string{"取引日", "支払先", "金額", "勘定科目", "税率", "区分", "摘要"}

// amountColumn is written without quotes.
const amountColumn = 3

// WriteCSV writes the import CSV as UTF-8 with BOM. importDate fills the
// first column of every row.
func WriteCSV(w io.Writer, expenses []Expense, importDate time.Time) error {
	cw := output.NewCSVWriter(w, output.UTF8BOM, output.LF)
	if err := cw.WriteRaw(strings.Join(CSVHeaders, ",")); err != nil {
		return err
	}
	imported := importDate.Format(DateLayout)
	for _, e := range expenses {
		fields := []string{
			imported,
			e.Date,
			e.Payee,
			e.Amount.String(),
			e.TaxRate,
			e.TaxType,
			e.AccountTitle,
			e.SubAccount,
			e.Department,
			e.Summary,
		}
		if err := cw.WriteQuoted(fields, amountColumn); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// WriteTSV writes the tab separated copy. Tabs and newlines inside values
// are replaced by spaces.
func WriteTSV(w io.Writer, expenses []Expense) error {
	cw := output.NewCSVWriter(w, output.UTF8, output.LF)
	if err := cw.WriteRaw(strings.Join(TSVHeaders, "\t")); err != nil {
		return err
	}
	for _, e := range expenses {
		fields := []string{e.Date, e.Payee, e.Amount.String(), e.AccountTitle, e.TaxRate, e.TaxType, e.Summary}
		for i, f := range fields {
			fields[i] = tsvEscaper.Replace(f)
		}
		if err := cw.WriteRaw(strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	return cw.Flush()
}

var tsvEscaper = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")
