// Package ledgerconv loads spreadsheet and CSV input for the slip and ledger
// converters and dumps it as structured JSON for authoring label lists.
package ledgerconv

import "github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/parser"

// Options configures loading behavior.
type Options struct {
	// RawValues reads xlsx and xlsb numbers without their display format.
	RawValues bool
	// Marker is a string expected in correctly decoded CSV text. It selects
	// Shift_JIS over UTF-8; see parser.DecodeText.
	Marker string
	// IncludePrintAreas specifies whether to include print areas.
	// If nil, defaults to true.
	IncludePrintAreas *bool
	// IncludeLabels adds the normalized label index of each sheet to the dump.
	IncludeLabels bool
	// TableParams tunes table candidate detection. Zero means defaults.
	TableParams parser.TableDetectionParams
	// OnSheetError is called for every sheet that cannot be read. Such
	// sheets are skipped.
	OnSheetError func(err *ExtractionError)
}

// DefaultOptions returns default loading options.
func DefaultOptions() Options {
	return Options{
		TableParams: parser.DefaultTableParams(),
	}
}

// ShouldIncludePrintAreas returns whether to include print areas.
func (o Options) ShouldIncludePrintAreas() bool {
	if o.IncludePrintAreas != nil {
		return *o.IncludePrintAreas
	}
	return true
}

func (o Options) tableParams() parser.TableDetectionParams {
	if o.TableParams == (parser.TableDetectionParams{}) {
		return parser.DefaultTableParams()
	}
	return o.TableParams
}

func (o Options) sheetError(sheet, component string, err error) {
	if o.OnSheetError != nil {
		o.OnSheetError(NewExtractionError(sheet, component, err))
	}
}
