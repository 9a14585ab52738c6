package transaction

import (
	"time"

	"fjacquet/edi835-csv/internal/loops"
	"fjacquet/edi835-csv/internal/models"
	"fjacquet/edi835-csv/internal/segments"

	"github.com/shopspring/decimal"
)

// ServiceLines flattens the transaction set to one record per service line, in claim then
// service order. The payer is resolved once, and only when there is a service line to
// carry it.
func (ts *TransactionSet) ServiceLines() ([]models.ServiceLine, error) {
	if ts.ServiceCount() == 0 {
		return nil, nil
	}
	payer, err := ts.Payer()
	if err != nil {
		return nil, err
	}

	var transactionDate *time.Time
	if ts.FinancialInformation != nil {
		transactionDate = ts.FinancialInformation.TransactionDate
	}

	lines := make([]models.ServiceLine, 0, ts.ServiceCount())
	for _, claim := range ts.Claims {
		for _, svc := range claim.Services {
			lines = append(lines, serviceLine(claim, svc, payer.Organization.Name, transactionDate))
		}
	}
	return lines, nil
}

// Rows flattens the transaction set to ordered name/value rows.
func (ts *TransactionSet) Rows() ([]models.Row, error) {
	lines, err := ts.ServiceLines()
	if err != nil {
		return nil, err
	}
	rows := make([]models.Row, len(lines))
	for i, l := range lines {
		rows[i] = l.Row()
	}
	return rows, nil
}

// ClaimSummaries returns one record per claim.
func (ts *TransactionSet) ClaimSummaries() ([]models.ClaimSummary, error) {
	if len(ts.Claims) == 0 {
		return nil, nil
	}
	payer, err := ts.Payer()
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ClaimSummary, 0, len(ts.Claims))
	for _, claim := range ts.Claims {
		summaries = append(summaries, models.ClaimSummary{
			Marker:                claim.Claim.Marker,
			ClaimNumber:           deref(claim.Claim.ClaimNumber),
			Status:                claim.Claim.Status.Describe(),
			Patient:               deref(entityName(claim.Patient())),
			ChargedAmount:         claim.Claim.ChargeAmount,
			PaidAmount:            claim.Claim.PaidAmount,
			PatientResponsibility: claim.Claim.PatientResponsibility,
			Services:              len(claim.Services),
			Payer:                 payer.Organization.Name,
		})
	}
	return summaries, nil
}

func serviceLine(claim loops.ClaimLoop, svc loops.ServiceLoop, payer string, transactionDate *time.Time) models.ServiceLine {
	line := models.ServiceLine{
		Marker:            claim.Claim.Marker,
		Patient:           entityName(claim.Patient()),
		Code:              svc.Service.Code,
		Modifier:          svc.Service.Modifier(),
		AllowedUnits:      svc.Service.AllowedUnits,
		BilledUnits:       svc.Service.BilledUnits,
		TransactionDate:   transactionDate,
		ChargedAmount:     claim.Claim.ChargeAmount,
		PaidAmount:        claim.Claim.PaidAmount,
		Payer:             payer,
		StartDate:         firstDate(svc.ServiceStart(), claim.StatementStart()),
		EndDate:           firstDate(svc.ServiceEnd(), claim.StatementEnd()),
		RenderingProvider: entityName(claim.RenderingProvider()),
		ClaimNumber:       claim.Claim.ClaimNumber,
	}

	if amt := svc.AllowedAmount(); amt != nil {
		allowed := amt.Amount
		line.AllowedAmount = &allowed
	}

	for _, cas := range svc.Adjustments {
		line.Adjustments = append(line.Adjustments, models.AdjustmentDetail{
			Group:  cas.Group.Code,
			Reason: cas.Reason.Code,
			Amount: cas.Amount,
		})
	}
	for _, ref := range svc.References {
		line.References = append(line.References, models.ReferenceDetail{
			Qualifier: ref.Qualifier.Code,
			Value:     ref.Value,
		})
	}
	for _, lq := range svc.Remarks {
		line.Remarks = append(line.Remarks, models.RemarkDetail{
			Qualifier: lq.Qualifier.Code,
			Code:      lq.Code.Code,
		})
	}
	return line
}

func entityName(e *segments.Entity) *string {
	if e == nil {
		return nil
	}
	name := e.Name()
	return &name
}

// firstDate returns the first non-nil date. Start and end fall back independently.
func firstDate(dates ...*time.Time) *time.Time {
	for _, d := range dates {
		if d != nil {
			return d
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TotalPaid sums the claim paid amounts.
func (ts *TransactionSet) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, c := range ts.Claims {
		total = total.Add(c.Claim.PaidAmount)
	}
	return total
}
