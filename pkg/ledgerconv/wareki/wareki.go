// Package wareki converts Japanese era (Reiwa) dates to Gregorian dates.
package wareki

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ReiwaOffset is added to a Reiwa year to get the Gregorian year (令和1年 = 2019).
const ReiwaOffset = 2018

// MaxReiwaYear is the last era year that still renders as four digits.
const MaxReiwaYear = 9999 - ReiwaOffset

// Format selects the output shape of Convert.
type Format int

const (
	// FormatCompact renders YYYYMMDD.
	FormatCompact Format = iota
	// FormatISO renders YYYY-MM-DD.
	FormatISO
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatISO {
		return "iso"
	}
	return "compact"
}

// ParseFormat maps "compact" / "iso" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compact", "yyyymmdd":
		return FormatCompact, nil
	case "iso", "yyyy-mm-dd":
		return FormatISO, nil
	default:
		return FormatCompact, fmt.Errorf("unknown date format: %s", s)
	}
}

var (
	eraPattern   = regexp.MustCompile(`(?:令和|令)(\d+)年(\d+)月(\d+)日`)
	labelPrefix  = regexp.MustCompile(`^支給日[:：]?\s*`)
	noiseChars   = regexp.MustCompile(`["\s]`)
	nonDigitChar = regexp.MustCompile(`[^0-9]`)
)

// Date is a parsed Reiwa date in Gregorian terms.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Format renders d in the requested shape.
func (d Date) Format(f Format) string {
	if f == FormatISO {
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// Parse finds a Reiwa date anywhere in raw. Quotes and whitespace are
// ignored. Only ASCII digits are recognized.
func Parse(raw string) (Date, bool) {
	m := eraPattern.FindStringSubmatch(noiseChars.ReplaceAllString(raw, ""))
	if m == nil {
		return Date{}, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil || year > MaxReiwaYear {
		return Date{}, false
	}
	month, err := strconv.Atoi(m[2])
	if err != nil {
		return Date{}, false
	}
	day, err := strconv.Atoi(m[3])
	if err != nil {
		return Date{}, false
	}
	return Date{Year: year + ReiwaOffset, Month: month, Day: day}, true
}

// Convert rewrites an era date into f. Unrecognized input is passed through.
// A value that is eight digits once separators go is returned as those
// digits in compact format. Otherwise a leading "支給日：" label is removed.
// Compact output also drops quotes and whitespace; ISO output is only trimmed.
func Convert(raw string, f Format) string {
	if raw == "" {
		return ""
	}
	if d, ok := Parse(raw); ok {
		return d.Format(f)
	}
	if f == FormatCompact {
		cleaned := noiseChars.ReplaceAllString(raw, "")
		if digits := nonDigitChar.ReplaceAllString(cleaned, ""); len(digits) == 8 {
			return digits
		}
		return labelPrefix.ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(labelPrefix.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// ToCompact is Convert with FormatCompact.
func ToCompact(raw string) string {
	return Convert(raw, FormatCompact)
}

// ToISO is Convert with FormatISO.
func ToISO(raw string) string {
	return Convert(raw, FormatISO)
}
