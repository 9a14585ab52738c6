// Package elements decodes individual X12 element values.
//
// Decoders are pure functions. Code lookups take their table as a parameter and never
// fail; the date decoder is the only one that returns an error.
package elements

import (
	"math"
	"strconv"
	"strings"
	"time"

	"fjacquet/edi835-csv/internal/dateutils"
	"fjacquet/edi835-csv/internal/parsererror"

	"github.com/shopspring/decimal"
)

// DateFormat is a fixed-width numeric date layout.
type DateFormat string

const (
	// CCYYMMDD is the 8-digit date used by DTM, BPR16 and most 835 dates.
	CCYYMMDD DateFormat = "CCYYMMDD"
	// YYMMDD is the 6-digit date used by ISA09.
	YYMMDD DateFormat = "YYMMDD"
)

// Code is a coded element with its decoded meaning. Description is nil when the
// code is not in the table.
type Code struct {
	Code        string  `json:"code"`
	Description *string `json:"description,omitempty"`
}

// Describe returns the description, or the raw code when it is unknown.
func (c Code) Describe() string {
	if c.Description == nil {
		return c.Code
	}
	return *c.Description
}

// Matches reports whether the raw code equals code.
func (c Code) Matches(code string) bool {
	return c.Code == code
}

func (c Code) String() string {
	return c.Code
}

// Identifier returns the trimmed value unchanged.
func Identifier(raw string) string {
	return strings.TrimSpace(raw)
}

// DecodeCode looks the trimmed value up in table.
func DecodeCode(raw string, table CodeTable) Code {
	value := strings.TrimSpace(raw)
	code := Code{Code: value}
	if description, ok := table.Lookup(value); ok {
		code.Description = &description
	}
	return code
}

// DecodeDate parses a fixed-width numeric date.
func DecodeDate(raw string, format DateFormat) (time.Time, error) {
	value := strings.TrimSpace(raw)

	var layout string
	switch format {
	case CCYYMMDD:
		layout = dateutils.DateLayoutCCYYMMDD
	case YYMMDD:
		layout = dateutils.DateLayoutYYMMDD
	default:
		return time.Time{}, &parsererror.DateDecodeError{Value: value, Format: string(format), Reason: "unsupported format"}
	}

	if len(value) != len(layout) {
		return time.Time{}, &parsererror.DateDecodeError{
			Value:  value,
			Format: string(format),
			Reason: "expected " + strconv.Itoa(len(layout)) + " digits",
		}
	}
	if !isDigits(value) {
		return time.Time{}, &parsererror.DateDecodeError{Value: value, Format: string(format), Reason: "not numeric"}
	}

	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, &parsererror.DateDecodeError{Value: value, Format: string(format), Reason: "not a calendar date"}
	}
	return t, nil
}

// Composite splits raw on sep and returns the component at index, or false when the
// composite is shorter.
func Composite(raw, sep string, index int) (string, bool) {
	if index < 0 {
		return "", false
	}
	if sep == "" {
		if index == 0 {
			return strings.TrimSpace(raw), true
		}
		return "", false
	}
	components := strings.Split(raw, sep)
	if index >= len(components) {
		return "", false
	}
	return strings.TrimSpace(components[index]), true
}

// Integer parses a whole number in the int32 range. X12 quantities are sometimes sent
// as "1.0", which is accepted when the fraction is zero.
func Integer(raw string) (int, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(value, 10, 32); err == nil {
		return int(n), true
	}
	d, err := decimal.NewFromString(value)
	if err != nil || !d.IsInteger() {
		return 0, false
	}
	if d.LessThan(decimal.NewFromInt(math.MinInt32)) || d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, false
	}
	return int(d.IntPart()), true
}

// Decimal parses a monetary or quantity amount.
func Decimal(raw string) (decimal.Decimal, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
