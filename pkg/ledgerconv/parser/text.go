package parser

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/grid"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Charset names the encoding DecodeText settled on.
type Charset string

const (
	CharsetUTF8     Charset = "utf-8"
	CharsetShiftJIS Charset = "shift_jis"
)

// DecodeText converts CSV bytes to a UTF-8 string.
//
// Accounting exports are usually Shift_JIS. With a marker the data is decoded
// as Shift_JIS first and re-read as UTF-8 when the marker is missing from the
// result. Without a marker, valid UTF-8 is taken as is.
func DecodeText(data []byte, marker string) (string, Charset) {
	if bytes.HasPrefix(data, utf8BOM) {
		return string(data[len(utf8BOM):]), CharsetUTF8
	}

	if marker == "" {
		if utf8.Valid(data) {
			return string(data), CharsetUTF8
		}
		if s, err := decodeShiftJIS(data); err == nil {
			return s, CharsetShiftJIS
		}
		return strings.ToValidUTF8(string(data), "�"), CharsetUTF8
	}

	if s, err := decodeShiftJIS(data); err == nil && strings.Contains(s, marker) {
		return s, CharsetShiftJIS
	}
	return string(data), CharsetUTF8
}

func decodeShiftJIS(data []byte) (string, error) {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ReadCSV parses CSV text into a grid. Rows may have different lengths and
// stray quotes are tolerated; fields are trimmed.
func ReadCSV(r io.Reader) (grid.Grid, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var g grid.Grid
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return g, err
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		g = append(g, rec)
	}
	return g, nil
}

// ReadCSVBytes decodes and parses CSV bytes. See DecodeText for marker.
func ReadCSVBytes(data []byte, marker string) (grid.Grid, Charset, error) {
	text, cs := DecodeText(data, marker)
	g, err := ReadCSV(strings.NewReader(text))
	return g, cs, err
}
