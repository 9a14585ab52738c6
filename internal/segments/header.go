package segments

import (
	"time"

	"fjacquet/edi835-csv/internal/elements"
	"fjacquet/edi835-csv/internal/x12"

	"github.com/shopspring/decimal"
)

// Interchange is the ISA control header.
type Interchange struct {
	Index          int
	SenderID       string
	ReceiverID     string
	Date           time.Time
	Time           string
	Version        string
	ControlNumber  string
	Acknowledgment *string
	Usage          *elements.Code
}

// Interchange decodes an ISA segment. ISA01-ISA13 are required.
func (d *Decoder) Interchange(seg x12.RawSegment) (Interchange, error) {
	f, err := d.open(seg, InterchangeID)
	if err != nil {
		return Interchange{}, err
	}

	// ISA01-ISA04 carry authorization/security data that may legitimately be blank,
	// so only the element count is checked.
	if seg.Len() < 13 {
		f.fail(seg.Len()+1, "interchange header", nil)
	}

	isa := Interchange{
		Index:          seg.Index,
		SenderID:       f.required(6, "sender id"),
		ReceiverID:     f.required(8, "receiver id"),
		Date:           f.date(9, "interchange date", elements.YYMMDD),
		Time:           f.required(10, "interchange time"),
		Version:        f.required(12, "version"),
		ControlNumber:  f.required(13, "control number"),
		Acknowledgment: f.optional(14),
		Usage:          f.optionalCode(15, elements.TableUsageIndicator),
	}
	if f.err != nil {
		return Interchange{}, f.err
	}
	return isa, nil
}

// FinancialInformation is the BPR segment: the total payment and how it was made.
type FinancialInformation struct {
	Index           int
	Handling        elements.Code
	AmountPaid      decimal.Decimal
	CreditDebit     elements.Code
	PaymentMethod   *elements.Code
	PaymentFormat   *string
	PayerAccount    *string
	OriginatorID    *string
	ReceiverAccount *string
	TransactionDate *time.Time
}

// FinancialInformation decodes a BPR segment. BPR01-BPR03 are required.
func (d *Decoder) FinancialInformation(seg x12.RawSegment) (FinancialInformation, error) {
	f, err := d.open(seg, FinancialInformationID)
	if err != nil {
		return FinancialInformation{}, err
	}

	bpr := FinancialInformation{
		Index:           seg.Index,
		Handling:        f.code(1, "transaction handling", elements.TableTransactionHandling),
		AmountPaid:      f.amount(2, "amount paid"),
		CreditDebit:     f.code(3, "credit/debit flag", elements.TableCreditDebit),
		PaymentMethod:   f.optionalCode(4, elements.TablePaymentMethod),
		PaymentFormat:   f.optional(5),
		PayerAccount:    f.optional(9),
		OriginatorID:    f.optional(10),
		ReceiverAccount: f.optional(15),
		TransactionDate: f.optionalDate(16, "transaction date", elements.CCYYMMDD),
	}
	if f.err != nil {
		return FinancialInformation{}, f.err
	}
	return bpr, nil
}
