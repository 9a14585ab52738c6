// Package segments decodes one raw X12 segment into a named-field record.
//
// Each decoder checks the identifier, requires a fixed prefix of elements and reads
// any trailing elements as optional values that are nil when the segment is shorter.
package segments

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/edi835-csv/internal/elements"
	"fjacquet/edi835-csv/internal/parsererror"
	"fjacquet/edi835-csv/internal/x12"

	"github.com/shopspring/decimal"
)

// Segment identifiers handled by this package.
const (
	InterchangeID            = "ISA"
	FinancialInformationID   = "BPR"
	OrganizationID           = "N1"
	AddressID                = "N3"
	LocationID               = "N4"
	ContactID                = "PER"
	ReferenceID              = "REF"
	ClaimID                  = "CLP"
	EntityID                 = "NM1"
	DateID                   = "DTM"
	AmountID                 = "AMT"
	QuantityID               = "QTY"
	OutpatientAdjudicationID = "MOA"
	InpatientAdjudicationID  = "MIA"
	ServiceID                = "SVC"
	AdjustmentID             = "CAS"
	RemarkID                 = "LQ"
)

// Decoder holds what segment decoding needs beyond the segment itself: the code tables
// and the component separator for composite elements.
type Decoder struct {
	tables    *elements.Tables
	component string
}

// NewDecoder creates a Decoder. A nil tables value decodes every code without a description.
func NewDecoder(tables *elements.Tables, componentSeparator string) *Decoder {
	if componentSeparator == "" {
		componentSeparator = x12.DefaultComponentSeparator
	}
	return &Decoder{tables: tables, component: componentSeparator}
}

// Tables returns the code tables used by the decoder.
func (d *Decoder) Tables() *elements.Tables {
	return d.tables
}

// fields reads elements out of one segment and remembers the first failure,
// so decoders can read every field and check the error once.
type fields struct {
	seg x12.RawSegment
	d   *Decoder
	err error
}

func (d *Decoder) open(seg x12.RawSegment, id string) (*fields, error) {
	if seg.ID != id {
		return nil, &parsererror.MalformedSegmentError{Index: seg.Index, Expected: id, Found: seg.ID}
	}
	return &fields{seg: seg, d: d}, nil
}

func (f *fields) fail(pos int, name string, cause error) {
	if f.err != nil {
		return
	}
	f.err = &parsererror.MalformedSegmentError{
		Index:    f.seg.Index,
		Expected: f.seg.ID,
		Found:    f.seg.ID,
		Field:    name,
		Position: pos,
		Err:      cause,
	}
}

func (f *fields) raw(pos int) (string, bool) {
	v, ok := f.seg.Element(pos)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (f *fields) required(pos int, name string) string {
	v, ok := f.raw(pos)
	if !ok {
		f.fail(pos, name, nil)
		return ""
	}
	return elements.Identifier(v)
}

func (f *fields) optional(pos int) *string {
	v, ok := f.raw(pos)
	if !ok {
		return nil
	}
	return &v
}

func (f *fields) code(pos int, name, table string) elements.Code {
	v := f.required(pos, name)
	return elements.DecodeCode(v, f.d.tables.Get(table))
}

func (f *fields) optionalCode(pos int, table string) *elements.Code {
	v, ok := f.raw(pos)
	if !ok {
		return nil
	}
	c := elements.DecodeCode(v, f.d.tables.Get(table))
	return &c
}

func (f *fields) amount(pos int, name string) decimal.Decimal {
	v, ok := f.raw(pos)
	if !ok {
		f.fail(pos, name, nil)
		return decimal.Zero
	}
	d, ok := elements.Decimal(v)
	if !ok {
		f.fail(pos, name, errInvalidNumber(v))
	}
	return d
}

func (f *fields) optionalAmount(pos int, name string) *decimal.Decimal {
	v, ok := f.raw(pos)
	if !ok {
		return nil
	}
	d, ok := elements.Decimal(v)
	if !ok {
		f.fail(pos, name, errInvalidNumber(v))
		return nil
	}
	return &d
}

func (f *fields) optionalInteger(pos int, name string) *int {
	v, ok := f.raw(pos)
	if !ok {
		return nil
	}
	n, ok := elements.Integer(v)
	if !ok {
		f.fail(pos, name, errInvalidNumber(v))
		return nil
	}
	return &n
}

func (f *fields) date(pos int, name string, format elements.DateFormat) time.Time {
	v, ok := f.raw(pos)
	if !ok {
		f.fail(pos, name, nil)
		return time.Time{}
	}
	t, err := elements.DecodeDate(v, format)
	if err != nil {
		f.fail(pos, name, err)
	}
	return t
}

func (f *fields) optionalDate(pos int, name string, format elements.DateFormat) *time.Time {
	v, ok := f.raw(pos)
	if !ok {
		return nil
	}
	t, err := elements.DecodeDate(v, format)
	if err != nil {
		f.fail(pos, name, err)
		return nil
	}
	return &t
}

func (f *fields) component(pos, index int) (string, bool) {
	v, ok := f.raw(pos)
	if !ok {
		return "", false
	}
	c, ok := elements.Composite(v, f.d.component, index)
	return c, ok && c != ""
}

func (f *fields) remarkCodes(positions ...int) []elements.Code {
	var codes []elements.Code
	for _, pos := range positions {
		if c := f.optionalCode(pos, elements.TableRemarkCode); c != nil {
			codes = append(codes, *c)
		}
	}
	return codes
}

func errInvalidNumber(v string) error {
	return fmt.Errorf("invalid number %q", v)
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
