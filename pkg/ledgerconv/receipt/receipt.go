// Package receipt turns receipt images into expense rows for the accounting
// import. A classifier reads the receipts and guesses the account title; the
// user may edit the resulting list (see LoadJSON) before exporting it.
package receipt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Defaults for fields the classifier leaves out.
const (
	DefaultTaxRate      = "10%"
	DefaultTaxType      = "課税仕入"
	DefaultAccountTitle = "消耗品費"
)

// DateLayout is the date format used for trade and import dates.
const DateLayout = "2006/01/02"

// Expense is one receipt line.
type Expense struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Payee        string          `json:"payee"`
	Amount       decimal.Decimal `json:"amount"`
	TaxRate      string          `json:"taxRate"`
	TaxType      string          `json:"taxType"`
	AccountTitle string          `json:"accountTitle"`
	Summary      string          `json:"summary"`
	SubAccount   string          `json:"subAccount"`
	Department   string          `json:"department"`
}

// applyDefaults fills blank fields the way a new row is presented to the user.
func (e *Expense) applyDefaults() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.TaxRate == "" {
		e.TaxRate = DefaultTaxRate
	}
	if e.TaxType == "" {
		e.TaxType = DefaultTaxType
	}
	if e.AccountTitle == "" {
		e.AccountTitle = DefaultAccountTitle
	}
	if e.Summary == "" {
		e.Summary = e.Payee
	}
}

// NewBlank returns an empty row dated today.
func NewBlank(today time.Time) Expense {
	return Expense{
		ID:           uuid.NewString(),
		Date:         today.Format(DateLayout),
		Amount:       decimal.Zero,
		TaxRate:      DefaultTaxRate,
		TaxType:      DefaultTaxType,
		AccountTitle: DefaultAccountTitle,
	}
}

// Total sums the amounts.
func Total(expenses []Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// LoadJSON reads an expense list saved by SaveJSON (or edited by hand).
// Missing IDs and blank defaults are filled in.
func LoadJSON(r io.Reader) ([]Expense, error) {
	var expenses []Expense
	if err := json.NewDecoder(r).Decode(&expenses); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	for i := range expenses {
		expenses[i].applyDefaults()
	}
	return expenses, nil
}

// LoadJSONFile opens path and calls LoadJSON.
func LoadJSONFile(path string) ([]Expense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadJSON(f)
}

// SaveJSON writes the list as indented JSON.
func SaveJSON(w io.Writer, expenses []Expense) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(expenses)
}

// FileName is the download name for an export made on t.
func FileName(t time.Time) string {
	return "expenses_" + t.Format("20060102") + ".csv"
}

func cleanText(s string) string {
	return strings.TrimSpace(s)
}
