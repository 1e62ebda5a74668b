package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Encoding is the byte encoding of a CSV file.
type Encoding int

const (
	// UTF8 writes plain UTF-8.
	UTF8 Encoding = iota
	// UTF8BOM writes UTF-8 preceded by a byte order mark (Excel-friendly).
	UTF8BOM
	// ShiftJIS writes CP932-compatible Shift_JIS.
	ShiftJIS
)

// Line endings.
const (
	LF   = "\n"
	CRLF = "\r\n"
)

// CSVWriter writes records line by line. Lines are separated, not
// terminated: the last line has no trailing line ending.
//
// encoding/csv is not used because the target formats quote every field
// except selected numeric columns, and encoding/csv only quotes on demand.
type CSVWriter struct {
	w          *bufio.Writer
	closer     io.Closer
	lineEnding string
	lines      int
	err        error
}

// NewCSVWriter wraps w. Call Flush when done.
func NewCSVWriter(w io.Writer, enc Encoding, lineEnding string) *CSVWriter {
	if lineEnding == "" {
		lineEnding = LF
	}
	cw := &CSVWriter{lineEnding: lineEnding}
	switch enc {
	case ShiftJIS:
		tw := transform.NewWriter(w, japanese.ShiftJIS.NewEncoder())
		cw.w = bufio.NewWriter(tw)
		cw.closer = tw
	case UTF8BOM:
		cw.w = bufio.NewWriter(w)
		_, cw.err = cw.w.WriteString("\ufeff")
	default:
		cw.w = bufio.NewWriter(w)
	}
	return cw
}

// WriteRaw writes a line verbatim.
func (cw *CSVWriter) WriteRaw(line string) error {
	if cw.err != nil {
		return cw.err
	}
	if cw.lines > 0 {
		if _, cw.err = cw.w.WriteString(cw.lineEnding); cw.err != nil {
			return cw.err
		}
	}
	cw.lines++
	_, cw.err = cw.w.WriteString(line)
	return cw.err
}

// WriteQuoted writes fields, each wrapped in double quotes, except the
// indexes listed in bare.
func (cw *CSVWriter) WriteQuoted(fields []string, bare ...int) error {
	skip := make(map[int]bool, len(bare))
	for _, i := range bare {
		skip[i] = true
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		if skip[i] {
			parts[i] = f
			continue
		}
		parts[i] = Quote(f)
	}
	return cw.WriteRaw(strings.Join(parts, ","))
}

// Flush writes buffered data and finishes the encoder.
func (cw *CSVWriter) Flush() error {
	if cw.err != nil {
		return cw.err
	}
	if err := cw.w.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if cw.closer != nil {
		if err := cw.closer.Close(); err != nil {
			return fmt.Errorf("encode csv: %w", err)
		}
	}
	return nil
}

// Quote wraps s in double quotes, doubling embedded quotes.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
