package segments

import (
	"strings"
	"time"

	"fjacquet/edi835-csv/internal/elements"
	"fjacquet/edi835-csv/internal/x12"

	"github.com/shopspring/decimal"
)

// Entity identifier codes (NM101) used to pick claim participants.
const (
	EntityPatient           = "QC"
	EntityInsured           = "IL"
	EntityRenderingProvider = "82"
	EntityCorrectedInsured  = "74"
)

// Date qualifiers (DTM01) used for statement and service periods.
const (
	DateClaimStatementStart = "232"
	DateClaimStatementEnd   = "233"
	DateServicePeriodStart  = "150"
	DateServicePeriodEnd    = "151"
	DateService             = "472"
)

// Claim is the CLP segment.
type Claim struct {
	Index                 int
	Marker                string
	Status                elements.Code
	ChargeAmount          decimal.Decimal
	PaidAmount            decimal.Decimal
	PatientResponsibility *decimal.Decimal
	FilingIndicator       *elements.Code
	ClaimNumber           *string
	FacilityType          *string
	Frequency             *string
}

// Claim decodes a CLP segment. CLP01-CLP04 are required.
func (d *Decoder) Claim(seg x12.RawSegment) (Claim, error) {
	f, err := d.open(seg, ClaimID)
	if err != nil {
		return Claim{}, err
	}

	clp := Claim{
		Index:                 seg.Index,
		Marker:                f.required(1, "patient control number"),
		Status:                f.code(2, "claim status", elements.TableClaimStatus),
		ChargeAmount:          f.amount(3, "charge amount"),
		PaidAmount:            f.amount(4, "paid amount"),
		PatientResponsibility: f.optionalAmount(5, "patient responsibility"),
		FilingIndicator:       f.optionalCode(6, elements.TableClaimFiling),
		ClaimNumber:           f.optional(7),
		FacilityType:          f.optional(8),
		Frequency:             f.optional(9),
	}
	if f.err != nil {
		return Claim{}, f.err
	}
	return clp, nil
}

// Entity is the NM1 segment naming a person or organization on a claim.
type Entity struct {
	Index       int
	Entity      elements.Code
	Type        elements.Code
	LastName    *string
	FirstName   *string
	MiddleName  *string
	Suffix      *string
	IDQualifier *elements.Code
	ID          *string
}

// Entity decodes an NM1 segment. NM101-NM102 are required.
func (d *Decoder) Entity(seg x12.RawSegment) (Entity, error) {
	f, err := d.open(seg, EntityID)
	if err != nil {
		return Entity{}, err
	}

	nm1 := Entity{
		Index:       seg.Index,
		Entity:      f.code(1, "entity identifier", elements.TableEntityCode),
		Type:        f.code(2, "entity type", elements.TableEntityType),
		LastName:    f.optional(3),
		FirstName:   f.optional(4),
		MiddleName:  f.optional(5),
		Suffix:      f.optional(7),
		IDQualifier: f.optionalCode(8, elements.TableIDQualifier),
		ID:          f.optional(9),
	}
	if f.err != nil {
		return Entity{}, f.err
	}
	return nm1, nil
}

// Name returns "LAST, FIRST" in upper case, or whichever part is present.
func (e Entity) Name() string {
	last, first := optionalString(e.LastName), optionalString(e.FirstName)
	switch {
	case last != "" && first != "":
		return strings.ToUpper(last + ", " + first)
	case last != "":
		return strings.ToUpper(last)
	default:
		return strings.ToUpper(first)
	}
}

// Date is the DTM segment.
type Date struct {
	Index     int
	Qualifier elements.Code
	Date      time.Time
}

// Date decodes a DTM segment. DTM01-DTM02 are required.
func (d *Decoder) Date(seg x12.RawSegment) (Date, error) {
	f, err := d.open(seg, DateID)
	if err != nil {
		return Date{}, err
	}

	dtm := Date{
		Index:     seg.Index,
		Qualifier: f.code(1, "date qualifier", elements.TableDateQualifier),
		Date:      f.date(2, "date", elements.CCYYMMDD),
	}
	if f.err != nil {
		return Date{}, f.err
	}
	return dtm, nil
}

// OutpatientAdjudication is the MOA segment.
type OutpatientAdjudication struct {
	Index             int
	ReimbursementRate *decimal.Decimal
	PayableAmount     *decimal.Decimal
	RemarkCodes       []elements.Code
}

// OutpatientAdjudication decodes an MOA segment. Every element is optional.
func (d *Decoder) OutpatientAdjudication(seg x12.RawSegment) (OutpatientAdjudication, error) {
	f, err := d.open(seg, OutpatientAdjudicationID)
	if err != nil {
		return OutpatientAdjudication{}, err
	}

	moa := OutpatientAdjudication{
		Index:             seg.Index,
		ReimbursementRate: f.optionalAmount(1, "reimbursement rate"),
		PayableAmount:     f.optionalAmount(2, "HCPCS payable amount"),
		RemarkCodes:       f.remarkCodes(3, 4, 5, 6, 7),
	}
	if f.err != nil {
		return OutpatientAdjudication{}, f.err
	}
	return moa, nil
}

// InpatientAdjudication is the MIA segment.
type InpatientAdjudication struct {
	Index       int
	CoveredDays *decimal.Decimal
	RemarkCodes []elements.Code
}

// InpatientAdjudication decodes an MIA segment. Every element is optional.
func (d *Decoder) InpatientAdjudication(seg x12.RawSegment) (InpatientAdjudication, error) {
	f, err := d.open(seg, InpatientAdjudicationID)
	if err != nil {
		return InpatientAdjudication{}, err
	}

	mia := InpatientAdjudication{
		Index:       seg.Index,
		CoveredDays: f.optionalAmount(1, "covered days"),
		RemarkCodes: f.remarkCodes(5, 20, 21, 22, 23),
	}
	if f.err != nil {
		return InpatientAdjudication{}, f.err
	}
	return mia, nil
}
