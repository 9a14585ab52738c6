package segments

import (
	"errors"
	"testing"
	"time"

	"fjacquet/edi835-csv/internal/elements"
	"fjacquet/edi835-csv/internal/parsererror"
	"fjacquet/edi835-csv/internal/x12"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDecoder() *Decoder {
	return NewDecoder(elements.DefaultTables(), ":")
}

// raw tokenizes a single segment and places it at index.
func raw(t *testing.T, text string, index int) x12.RawSegment {
	t.Helper()
	segs := x12.Tokenize(text, x12.DefaultDelimiters())
	require.Len(t, segs, 1)
	seg := segs[0]
	seg.Index = index
	return seg
}

func requireMalformed(t *testing.T, err error) *parsererror.MalformedSegmentError {
	t.Helper()
	require.Error(t, err)
	var malformed *parsererror.MalformedSegmentError
	require.True(t, errors.As(err, &malformed), "expected MalformedSegmentError, got %T", err)
	return malformed
}

func TestDecoder_IdentifierMismatch(t *testing.T) {
	d := newTestDecoder()

	_, err := d.Claim(raw(t, "SVC*HC:99213*100*80", 4))
	m := requireMalformed(t, err)
	assert.Equal(t, 4, m.Index)
	assert.Equal(t, "CLP", m.Expected)
	assert.Equal(t, "SVC", m.Found)
}

func TestInterchange(t *testing.T) {
	d := newTestDecoder()
	seg := x12.Tokenize("ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       *230105*1200*^*00501*000000001*0*P*:~", x12.DefaultDelimiters())[0]

	isa, err := d.Interchange(seg)
	require.NoError(t, err)
	assert.Equal(t, "SENDER", isa.SenderID)
	assert.Equal(t, "RECEIVER", isa.ReceiverID)
	assert.Equal(t, time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), isa.Date)
	assert.Equal(t, "00501", isa.Version)
	assert.Equal(t, "000000001", isa.ControlNumber)
	require.NotNil(t, isa.Usage)
	assert.Equal(t, "production", isa.Usage.Describe())
}

func TestInterchange_Short(t *testing.T) {
	d := newTestDecoder()
	_, err := d.Interchange(raw(t, "ISA*00**00**ZZ*S", 0))
	requireMalformed(t, err)
}

func TestFinancialInformation(t *testing.T) {
	d := newTestDecoder()

	bpr, err := d.FinancialInformation(raw(t, "BPR*I*1500.25*C*ACH*CCP*01*999999999*DA*123456*1512345678**01*999988880*DA*98765*20230110", 1))
	require.NoError(t, err)
	assert.Equal(t, "I", bpr.Handling.Code)
	assert.True(t, decimal.RequireFromString("1500.25").Equal(bpr.AmountPaid))
	assert.Equal(t, "credit", bpr.CreditDebit.Describe())
	require.NotNil(t, bpr.PaymentMethod)
	assert.Equal(t, "automatic deposit", bpr.PaymentMethod.Describe())
	require.NotNil(t, bpr.TransactionDate)
	assert.Equal(t, time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), *bpr.TransactionDate)
}

func TestFinancialInformation_OptionalTrailingElements(t *testing.T) {
	d := newTestDecoder()

	bpr, err := d.FinancialInformation(raw(t, "BPR*H*0*C*NON", 1))
	require.NoError(t, err)
	assert.Nil(t, bpr.PaymentFormat)
	assert.Nil(t, bpr.TransactionDate)
	assert.Equal(t, "no payment", bpr.PaymentMethod.Describe())
}

func TestFinancialInformation_MalformedAmount(t *testing.T) {
	d := newTestDecoder()

	_, err := d.FinancialInformation(raw(t, "BPR*I*12.3.4*C", 7))
	m := requireMalformed(t, err)
	assert.Equal(t, 7, m.Index)
	assert.Equal(t, 2, m.Position)
	assert.Equal(t, "amount paid", m.Field)
	assert.Error(t, m.Err)
}

func TestFinancialInformation_MalformedDate(t *testing.T) {
	d := newTestDecoder()

	_, err := d.FinancialInformation(raw(t, "BPR*I*1*C*CHK************20231340", 2))
	m := requireMalformed(t, err)
	assert.Equal(t, 16, m.Position)

	var dateErr *parsererror.DateDecodeError
	assert.True(t, errors.As(err, &dateErr))
}

func TestOrganization(t *testing.T) {
	d := newTestDecoder()

	n1, err := d.Organization(raw(t, "N1*PR*ACME HEALTH*XV*12345", 3))
	require.NoError(t, err)
	assert.Equal(t, "payer", n1.Type.Describe())
	assert.Equal(t, "ACME HEALTH", n1.Name)
	require.NotNil(t, n1.ID)
	assert.Equal(t, "12345", *n1.ID)

	n1, err = d.Organization(raw(t, "N1*PE*CLINIC", 3))
	require.NoError(t, err)
	assert.Equal(t, "payee", n1.Type.Describe())
	assert.Nil(t, n1.IDQualifier)
	assert.Nil(t, n1.ID)
}

func TestOrganization_MissingName(t *testing.T) {
	d := newTestDecoder()

	_, err := d.Organization(raw(t, "N1*PR", 3))
	m := requireMalformed(t, err)
	assert.Equal(t, 2, m.Position)
	assert.NoError(t, m.Err)
}

func TestAddressLocationContactReference(t *testing.T) {
	d := newTestDecoder()

	n3, err := d.Address(raw(t, "N3*1 MAIN ST*SUITE 4", 0))
	require.NoError(t, err)
	assert.Equal(t, "1 MAIN ST", n3.Line1)
	require.NotNil(t, n3.Line2)

	n4, err := d.Location(raw(t, "N4*SPRINGFIELD*IL*62701", 0))
	require.NoError(t, err)
	assert.Equal(t, "SPRINGFIELD", n4.City)
	assert.Equal(t, "62701", *n4.PostalCode)
	assert.Nil(t, n4.Country)

	per, err := d.Contact(raw(t, "PER*BL*SUPPORT*TE*5551234", 0))
	require.NoError(t, err)
	assert.Equal(t, "BL", per.Function.Code)
	assert.Equal(t, "5551234", *per.Number)

	ref, err := d.Reference(raw(t, "REF*6R*LINE001", 0))
	require.NoError(t, err)
	assert.Equal(t, "LINE001", ref.Value)
	assert.Equal(t, "provider control number", ref.Qualifier.Describe())

	_, err = d.Reference(raw(t, "REF*6R", 0))
	requireMalformed(t, err)
}

func TestClaim(t *testing.T) {
	d := newTestDecoder()

	clp, err := d.Claim(raw(t, "CLP*PCN001*1*200*150*20*12*CLAIM123*11*1", 10))
	require.NoError(t, err)
	assert.Equal(t, 10, clp.Index)
	assert.Equal(t, "PCN001", clp.Marker)
	assert.Equal(t, "1", clp.Status.Code)
	assert.True(t, decimal.NewFromInt(200).Equal(clp.ChargeAmount))
	assert.True(t, decimal.NewFromInt(150).Equal(clp.PaidAmount))
	require.NotNil(t, clp.PatientResponsibility)
	assert.True(t, decimal.NewFromInt(20).Equal(*clp.PatientResponsibility))
	require.NotNil(t, clp.ClaimNumber)
	assert.Equal(t, "CLAIM123", *clp.ClaimNumber)
}

func TestClaim_MissingRequired(t *testing.T) {
	d := newTestDecoder()

	_, err := d.Claim(raw(t, "CLP*PCN001*1*200", 10))
	m := requireMalformed(t, err)
	assert.Equal(t, 4, m.Position)
	assert.Equal(t, "paid amount", m.Field)
}

func TestEntity(t *testing.T) {
	d := newTestDecoder()

	nm1, err := d.Entity(raw(t, "NM1*QC*1*DOE*JANE****MI*W123", 0))
	require.NoError(t, err)
	assert.True(t, nm1.Entity.Matches(EntityPatient))
	assert.Equal(t, "DOE, JANE", nm1.Name())
	assert.Equal(t, "W123", *nm1.ID)

	nm1, err = d.Entity(raw(t, "NM1*82*2*General Clinic", 0))
	require.NoError(t, err)
	assert.True(t, nm1.Entity.Matches(EntityRenderingProvider))
	assert.Equal(t, "GENERAL CLINIC", nm1.Name())
}

func TestEntity_NameCasing(t *testing.T) {
	last, first := "smith", "john"
	assert.Equal(t, "SMITH, JOHN", Entity{LastName: &last, FirstName: &first}.Name())
	assert.Equal(t, "SMITH", Entity{LastName: &last}.Name())
	assert.Equal(t, "", Entity{}.Name())
}

func TestDate(t *testing.T) {
	d := newTestDecoder()

	dtm, err := d.Date(raw(t, "DTM*472*20230102", 0))
	require.NoError(t, err)
	assert.True(t, dtm.Qualifier.Matches(DateService))
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), dtm.Date)

	_, err = d.Date(raw(t, "DTM*472*230102", 0))
	m := requireMalformed(t, err)
	var dateErr *parsererror.DateDecodeError
	assert.True(t, errors.As(m, &dateErr))
	assert.Equal(t, "expected 8 digits", dateErr.Reason)
}

func TestAdjudication(t *testing.T) {
	d := newTestDecoder()

	moa, err := d.OutpatientAdjudication(raw(t, "MOA***MA01*MA130", 0))
	require.NoError(t, err)
	assert.Nil(t, moa.ReimbursementRate)
	require.Len(t, moa.RemarkCodes, 2)
	assert.Equal(t, "MA01", moa.RemarkCodes[0].Code)

	mia, err := d.InpatientAdjudication(raw(t, "MIA*3****MA02", 0))
	require.NoError(t, err)
	require.NotNil(t, mia.CoveredDays)
	assert.True(t, decimal.NewFromInt(3).Equal(*mia.CoveredDays))
	require.Len(t, mia.RemarkCodes, 1)
}

func TestService(t *testing.T) {
	d := newTestDecoder()

	svc, err := d.Service(raw(t, "SVC*HC:99213:25:59*100*80**1*HC:99214*2", 11))
	require.NoError(t, err)
	assert.Equal(t, "HC", svc.Qualifier.Code)
	assert.Equal(t, "99213", svc.Code)
	assert.Equal(t, []string{"25", "59"}, svc.Modifiers)
	require.NotNil(t, svc.Modifier())
	assert.Equal(t, "25", *svc.Modifier())
	assert.True(t, decimal.NewFromInt(100).Equal(svc.ChargeAmount))
	assert.True(t, decimal.NewFromInt(80).Equal(svc.PaidAmount))
	assert.Nil(t, svc.RevenueCode)
	require.NotNil(t, svc.AllowedUnits)
	assert.Equal(t, 1, *svc.AllowedUnits)
	require.NotNil(t, svc.BilledUnits)
	assert.Equal(t, 2, *svc.BilledUnits)
}

func TestService_ModifierPositions(t *testing.T) {
	d := newTestDecoder()

	svc, err := d.Service(raw(t, "SVC*HC:99213::59*120*90", 11))
	require.NoError(t, err)
	assert.Equal(t, []string{"", "59"}, svc.Modifiers)
	assert.Nil(t, svc.Modifier())

	svc, err = d.Service(raw(t, "SVC*HC:99213:25:::76*120*90", 11))
	require.NoError(t, err)
	assert.Equal(t, []string{"25", "", "", "76"}, svc.Modifiers)
	assert.Equal(t, "25", *svc.Modifier())

	svc, err = d.Service(raw(t, "SVC*HC:99213:*120*90", 11))
	require.NoError(t, err)
	assert.Empty(t, svc.Modifiers)
	assert.Nil(t, svc.Modifier())
}

func TestService_UnitsOutOfRange(t *testing.T) {
	d := newTestDecoder()

	_, err := d.Service(raw(t, "SVC*HC:99213*120*90**2147483648", 11))
	m := requireMalformed(t, err)
	assert.Equal(t, 5, m.Position)
	assert.Equal(t, "units paid", m.Field)
}

func TestService_NoModifier(t *testing.T) {
	d := newTestDecoder()

	svc, err := d.Service(raw(t, "SVC*HC:99213*100*80", 11))
	require.NoError(t, err)
	assert.Nil(t, svc.Modifier())
	assert.Nil(t, svc.AllowedUnits)
	assert.Nil(t, svc.BilledUnits)
}

func TestService_Malformed(t *testing.T) {
	d := newTestDecoder()

	_, err := d.Service(raw(t, "SVC*HC*100*80", 11))
	m := requireMalformed(t, err)
	assert.Equal(t, 1, m.Position)

	_, err = d.Service(raw(t, "SVC*HC:99213*100*80**one", 11))
	m = requireMalformed(t, err)
	assert.Equal(t, 5, m.Position)
}

func TestAdjustmentAmountQuantityRemark(t *testing.T) {
	d := newTestDecoder()

	cas, err := d.Adjustment(raw(t, "CAS*CO*45*20*1*PR*2*5", 0))
	require.NoError(t, err)
	assert.Equal(t, "contractual obligation", cas.Group.Describe())
	assert.Equal(t, "45", cas.Reason.Code)
	assert.True(t, decimal.NewFromInt(20).Equal(cas.Amount))
	require.NotNil(t, cas.Quantity)

	amt, err := d.Amount(raw(t, "AMT*B6*95.5", 0))
	require.NoError(t, err)
	assert.True(t, amt.Qualifier.Matches(AmountAllowed))
	assert.True(t, decimal.RequireFromString("95.5").Equal(amt.Amount))

	qty, err := d.Quantity(raw(t, "QTY*CA*2", 0))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(qty.Quantity))

	lq, err := d.Remark(raw(t, "LQ*HE*N130", 0))
	require.NoError(t, err)
	assert.Equal(t, "HE", lq.Qualifier.Code)
	assert.Equal(t, "N130", lq.Code.Code)

	_, err = d.Adjustment(raw(t, "CAS*CO*45", 0))
	requireMalformed(t, err)
}

func TestDecoder_NilTables(t *testing.T) {
	d := NewDecoder(nil, "")

	n1, err := d.Organization(raw(t, "N1*PR*ACME", 0))
	require.NoError(t, err)
	assert.Equal(t, "PR", n1.Type.Code)
	assert.Nil(t, n1.Type.Description)
}
