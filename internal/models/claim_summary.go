package models

import "github.com/shopspring/decimal"

// ClaimSummary is one line per claim, written with gocsv.
type ClaimSummary struct {
	Marker                string           `csv:"marker"`
	ClaimNumber           string           `csv:"claim_number"`
	Status                string           `csv:"status"`
	Patient               string           `csv:"patient"`
	ChargedAmount         decimal.Decimal  `csv:"charged_amount"`
	PaidAmount            decimal.Decimal  `csv:"paid_amount"`
	PatientResponsibility *decimal.Decimal `csv:"patient_responsibility"`
	Services              int              `csv:"services"`
	Payer                 string           `csv:"payer"`
}
