package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Fixed service line columns, in output order.
const (
	ColumnMarker            = "marker"
	ColumnPatient           = "patient"
	ColumnCode              = "code"
	ColumnModifier          = "modifier"
	ColumnAllowedUnits      = "allowed_units"
	ColumnBilledUnits       = "billed_units"
	ColumnTransactionDate   = "transaction_date"
	ColumnChargedAmount     = "charged_amount"
	ColumnAllowedAmount     = "allowed_amount"
	ColumnPaidAmount        = "paid_amount"
	ColumnPayer             = "payer"
	ColumnStartDate         = "start_date"
	ColumnEndDate           = "end_date"
	ColumnRenderingProvider = "rendering_provider"
	ColumnClaimNumber       = "claim_number"
)

// ServiceLineColumns lists the columns present on every row.
var ServiceLineColumns = []string{
	ColumnMarker,
	ColumnPatient,
	ColumnCode,
	ColumnModifier,
	ColumnAllowedUnits,
	ColumnBilledUnits,
	ColumnTransactionDate,
	ColumnChargedAmount,
	ColumnAllowedAmount,
	ColumnPaidAmount,
	ColumnPayer,
	ColumnStartDate,
	ColumnEndDate,
	ColumnRenderingProvider,
	ColumnClaimNumber,
}

// AdjustmentDetail is one CAS adjustment of a service line.
type AdjustmentDetail struct {
	Group  string          `json:"group"`
	Reason string          `json:"reason"`
	Amount decimal.Decimal `json:"amount"`
}

// ReferenceDetail is one REF reference of a service line.
type ReferenceDetail struct {
	Qualifier string `json:"qualifier"`
	Value     string `json:"value"`
}

// RemarkDetail is one LQ remark of a service line.
type RemarkDetail struct {
	Qualifier string `json:"qualifier"`
	Code      string `json:"code"`
}

// ServiceLine is one paid service merged with its claim and transaction context.
// Pointer fields are nil when the source element is absent.
type ServiceLine struct {
	Marker            string
	Patient           *string
	Code              string
	Modifier          *string
	AllowedUnits      *int
	BilledUnits       *int
	TransactionDate   *time.Time
	ChargedAmount     decimal.Decimal
	AllowedAmount     *decimal.Decimal
	PaidAmount        decimal.Decimal
	Payer             string
	StartDate         *time.Time
	EndDate           *time.Time
	RenderingProvider *string
	ClaimNumber       *string
	Adjustments       []AdjustmentDetail
	References        []ReferenceDetail
	Remarks           []RemarkDetail
}

// Row projects the line to its fixed columns followed by one indexed group per adjustment,
// reference and remark.
func (l ServiceLine) Row() Row {
	row := make(Row, 0, len(ServiceLineColumns)+3*len(l.Adjustments)+2*len(l.References)+2*len(l.Remarks))
	row = append(row,
		Column{ColumnMarker, l.Marker},
		Column{ColumnPatient, value(l.Patient)},
		Column{ColumnCode, l.Code},
		Column{ColumnModifier, value(l.Modifier)},
		Column{ColumnAllowedUnits, value(l.AllowedUnits)},
		Column{ColumnBilledUnits, value(l.BilledUnits)},
		Column{ColumnTransactionDate, value(l.TransactionDate)},
		Column{ColumnChargedAmount, l.ChargedAmount},
		Column{ColumnAllowedAmount, value(l.AllowedAmount)},
		Column{ColumnPaidAmount, l.PaidAmount},
		Column{ColumnPayer, l.Payer},
		Column{ColumnStartDate, value(l.StartDate)},
		Column{ColumnEndDate, value(l.EndDate)},
		Column{ColumnRenderingProvider, value(l.RenderingProvider)},
		Column{ColumnClaimNumber, value(l.ClaimNumber)},
	)
	for i, a := range l.Adjustments {
		row = append(row,
			Column{AdjustmentColumn(i, "group"), a.Group},
			Column{AdjustmentColumn(i, "code"), a.Reason},
			Column{AdjustmentColumn(i, "amount"), a.Amount},
		)
	}
	for i, r := range l.References {
		row = append(row,
			Column{ReferenceColumn(i, "qual"), r.Qualifier},
			Column{ReferenceColumn(i, "value"), r.Value},
		)
	}
	for i, r := range l.Remarks {
		row = append(row,
			Column{RemarkColumn(i, "qual"), r.Qualifier},
			Column{RemarkColumn(i, "code"), r.Code},
		)
	}
	return row
}

// AdjustmentColumn names the field column of the i-th adjustment group, e.g. adj_0_group.
func AdjustmentColumn(i int, field string) string {
	return fmt.Sprintf("adj_%d_%s", i, field)
}

// ReferenceColumn names the field column of the i-th reference group, e.g. ref_0_qual.
func ReferenceColumn(i int, field string) string {
	return fmt.Sprintf("ref_%d_%s", i, field)
}

// RemarkColumn names the field column of the i-th remark group, e.g. rem_0_code.
func RemarkColumn(i int, field string) string {
	return fmt.Sprintf("rem_%d_%s", i, field)
}

// ServiceLineHeader returns the column names needed to hold every line: the fixed columns,
// then as many adjustment, reference and remark groups as the widest line carries.
func ServiceLineHeader(lines []ServiceLine) []string {
	var adjustments, references, remarks int
	for _, l := range lines {
		adjustments = max(adjustments, len(l.Adjustments))
		references = max(references, len(l.References))
		remarks = max(remarks, len(l.Remarks))
	}

	header := append([]string{}, ServiceLineColumns...)
	for i := 0; i < adjustments; i++ {
		header = append(header, AdjustmentColumn(i, "group"), AdjustmentColumn(i, "code"), AdjustmentColumn(i, "amount"))
	}
	for i := 0; i < references; i++ {
		header = append(header, ReferenceColumn(i, "qual"), ReferenceColumn(i, "value"))
	}
	for i := 0; i < remarks; i++ {
		header = append(header, RemarkColumn(i, "qual"), RemarkColumn(i, "code"))
	}
	return header
}

// value dereferences an optional field, keeping nil for absent values.
func value[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
