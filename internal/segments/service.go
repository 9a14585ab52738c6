package segments

import (
	"fjacquet/edi835-csv/internal/elements"
	"fjacquet/edi835-csv/internal/x12"

	"github.com/shopspring/decimal"
)

// AmountAllowed is the AMT01 qualifier for the allowed amount of a service line.
const AmountAllowed = "B6"

// Service is the SVC segment.
type Service struct {
	Index             int
	Qualifier         elements.Code
	Code              string
	Modifiers         []string
	ChargeAmount      decimal.Decimal
	PaidAmount        decimal.Decimal
	RevenueCode       *string
	AllowedUnits      *int
	OriginalProcedure *string
	BilledUnits       *int
}

// maxModifiers is the number of procedure modifiers an SVC01 composite can carry.
const maxModifiers = 4

// Service decodes an SVC segment. SVC01-SVC03 are required, and SVC01 must carry
// at least a qualifier and a procedure code.
func (d *Decoder) Service(seg x12.RawSegment) (Service, error) {
	f, err := d.open(seg, ServiceID)
	if err != nil {
		return Service{}, err
	}

	f.required(1, "procedure")
	qualifier, _ := f.component(1, 0)
	code, ok := f.component(1, 1)
	if !ok {
		f.fail(1, "procedure code", nil)
	}

	// Modifiers keep their SVC01 position; empty slots stay empty strings and
	// trailing empty slots are dropped.
	var modifiers []string
	for i := 2; i < 2+maxModifiers; i++ {
		if m, ok := f.component(1, i); ok {
			for len(modifiers) < i-2 {
				modifiers = append(modifiers, "")
			}
			modifiers = append(modifiers, m)
		}
	}

	svc := Service{
		Index:             seg.Index,
		Qualifier:         elements.DecodeCode(qualifier, d.tables.Get(elements.TableServiceQualifier)),
		Code:              code,
		Modifiers:         modifiers,
		ChargeAmount:      f.amount(2, "charge amount"),
		PaidAmount:        f.amount(3, "paid amount"),
		RevenueCode:       f.optional(4),
		AllowedUnits:      f.optionalInteger(5, "units paid"),
		OriginalProcedure: f.optional(6),
		BilledUnits:       f.optionalInteger(7, "original units"),
	}
	if f.err != nil {
		return Service{}, f.err
	}
	return svc, nil
}

// Modifier returns the third component of SVC01, or nil when it is absent or empty.
func (s Service) Modifier() *string {
	if len(s.Modifiers) == 0 || s.Modifiers[0] == "" {
		return nil
	}
	m := s.Modifiers[0]
	return &m
}

// Adjustment is the CAS segment. Only the first reason/amount triplet is decoded.
type Adjustment struct {
	Index    int
	Group    elements.Code
	Reason   elements.Code
	Amount   decimal.Decimal
	Quantity *decimal.Decimal
}

// Adjustment decodes a CAS segment. CAS01-CAS03 are required.
func (d *Decoder) Adjustment(seg x12.RawSegment) (Adjustment, error) {
	f, err := d.open(seg, AdjustmentID)
	if err != nil {
		return Adjustment{}, err
	}

	cas := Adjustment{
		Index:    seg.Index,
		Group:    f.code(1, "adjustment group", elements.TableAdjustmentGroup),
		Reason:   f.code(2, "adjustment reason", elements.TableAdjustmentReason),
		Amount:   f.amount(3, "adjustment amount"),
		Quantity: f.optionalAmount(4, "adjustment quantity"),
	}
	if f.err != nil {
		return Adjustment{}, f.err
	}
	return cas, nil
}

// Amount is the AMT segment.
type Amount struct {
	Index     int
	Qualifier elements.Code
	Amount    decimal.Decimal
}

// Amount decodes an AMT segment. AMT01-AMT02 are required.
func (d *Decoder) Amount(seg x12.RawSegment) (Amount, error) {
	f, err := d.open(seg, AmountID)
	if err != nil {
		return Amount{}, err
	}

	amt := Amount{
		Index:     seg.Index,
		Qualifier: f.code(1, "amount qualifier", elements.TableAmountQualifier),
		Amount:    f.amount(2, "amount"),
	}
	if f.err != nil {
		return Amount{}, f.err
	}
	return amt, nil
}

// Quantity is the QTY segment.
type Quantity struct {
	Index     int
	Qualifier elements.Code
	Quantity  decimal.Decimal
}

// Quantity decodes a QTY segment. QTY01-QTY02 are required.
func (d *Decoder) Quantity(seg x12.RawSegment) (Quantity, error) {
	f, err := d.open(seg, QuantityID)
	if err != nil {
		return Quantity{}, err
	}

	qty := Quantity{
		Index:     seg.Index,
		Qualifier: f.code(1, "quantity qualifier", elements.TableQuantityQualifier),
		Quantity:  f.amount(2, "quantity"),
	}
	if f.err != nil {
		return Quantity{}, f.err
	}
	return qty, nil
}

// Remark is the LQ segment.
type Remark struct {
	Index     int
	Qualifier elements.Code
	Code      elements.Code
}

// Remark decodes an LQ segment. LQ01-LQ02 are required.
func (d *Decoder) Remark(seg x12.RawSegment) (Remark, error) {
	f, err := d.open(seg, RemarkID)
	if err != nil {
		return Remark{}, err
	}

	lq := Remark{
		Index:     seg.Index,
		Qualifier: f.code(1, "remark qualifier", elements.TableRemarkQualifier),
		Code:      f.code(2, "remark code", elements.TableRemarkCode),
	}
	if f.err != nil {
		return Remark{}, f.err
	}
	return lq, nil
}
