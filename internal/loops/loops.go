// Package loops groups flat 835 segments into organization, claim and service loops.
//
// Every Assemble function takes a cursor and the position of a loop header and returns the
// loop together with the position of the first segment it did not consume. Assembly stops at
// the first identifier that is not a member of the loop, so the caller resumes exactly there.
package loops

import (
	"time"

	"fjacquet/edi835-csv/internal/parsererror"
	"fjacquet/edi835-csv/internal/segments"
	"fjacquet/edi835-csv/internal/x12"
)

// Loop names used in errors.
const (
	OrganizationLoopName = "organization"
	ClaimLoopName        = "claim"
	ServiceLoopName      = "service"
)

// header returns the segment at pos or an UnterminatedLoopError when input has ended.
func header(c *x12.Cursor, pos int, loop string) (x12.RawSegment, error) {
	seg, ok := c.At(pos)
	if !ok {
		return x12.RawSegment{}, &parsererror.UnterminatedLoopError{Loop: loop, Index: pos}
	}
	return seg, nil
}

// OrganizationLoop is an N1 segment with its address, location, references and contacts.
type OrganizationLoop struct {
	Organization segments.Organization
	Addresses    []segments.Address
	Locations    []segments.Location
	References   []segments.Reference
	Contacts     []segments.Contact
}

// AssembleOrganization assembles the organization loop whose N1 header is at pos.
func AssembleOrganization(c *x12.Cursor, pos int, d *segments.Decoder) (OrganizationLoop, int, error) {
	seg, err := header(c, pos, OrganizationLoopName)
	if err != nil {
		return OrganizationLoop{}, pos, err
	}

	var loop OrganizationLoop
	if loop.Organization, err = d.Organization(seg); err != nil {
		return OrganizationLoop{}, pos, err
	}

	for pos++; !c.Done(pos); pos++ {
		seg, _ = c.At(pos)
		switch seg.ID {
		case segments.AddressID:
			n3, err := d.Address(seg)
			if err != nil {
				return OrganizationLoop{}, pos, err
			}
			loop.Addresses = append(loop.Addresses, n3)
		case segments.LocationID:
			n4, err := d.Location(seg)
			if err != nil {
				return OrganizationLoop{}, pos, err
			}
			loop.Locations = append(loop.Locations, n4)
		case segments.ReferenceID:
			ref, err := d.Reference(seg)
			if err != nil {
				return OrganizationLoop{}, pos, err
			}
			loop.References = append(loop.References, ref)
		case segments.ContactID:
			per, err := d.Contact(seg)
			if err != nil {
				return OrganizationLoop{}, pos, err
			}
			loop.Contacts = append(loop.Contacts, per)
		default:
			return loop, pos, nil
		}
	}
	return loop, pos, nil
}

// HasType reports whether the N101 organization type is code, e.g. "PR".
func (l OrganizationLoop) HasType(code string) bool {
	return l.Organization.Type.Matches(code)
}

// ClaimLoop is a CLP segment with its participants, dates, claim-level detail and service lines.
type ClaimLoop struct {
	Claim       segments.Claim
	Entities    []segments.Entity
	Dates       []segments.Date
	Adjustments []segments.Adjustment
	References  []segments.Reference
	Amounts     []segments.Amount
	Quantities  []segments.Quantity
	Contacts    []segments.Contact
	Outpatient  *segments.OutpatientAdjudication
	Inpatient   *segments.InpatientAdjudication
	Services    []ServiceLoop
}

// AssembleClaim assembles the claim loop whose CLP header is at pos. SVC segments start
// nested service loops.
func AssembleClaim(c *x12.Cursor, pos int, d *segments.Decoder) (ClaimLoop, int, error) {
	seg, err := header(c, pos, ClaimLoopName)
	if err != nil {
		return ClaimLoop{}, pos, err
	}

	var loop ClaimLoop
	if loop.Claim, err = d.Claim(seg); err != nil {
		return ClaimLoop{}, pos, err
	}

	pos++
	for !c.Done(pos) {
		seg, _ = c.At(pos)
		switch seg.ID {
		case segments.ServiceID:
			svc, next, err := AssembleService(c, pos, d)
			if err != nil {
				return ClaimLoop{}, pos, err
			}
			loop.Services = append(loop.Services, svc)
			pos = next
			continue
		case segments.EntityID:
			nm1, err := d.Entity(seg)
			if err != nil {
				return ClaimLoop{}, pos, err
			}
			loop.Entities = append(loop.Entities, nm1)
		case segments.DateID:
			dtm, err := d.Date(seg)
			if err != nil {
				return ClaimLoop{}, pos, err
			}
			loop.Dates = append(loop.Dates, dtm)
		case segments.AdjustmentID:
			cas, err := d.Adjustment(seg)
			if err != nil {
				return ClaimLoop{}, pos, err
			}
			loop.Adjustments = append(loop.Adjustments, cas)
		case segments.ReferenceID:
			ref, err := d.Reference(seg)
			if err != nil {
				return ClaimLoop{}, pos, err
			}
			loop.References = append(loop.References, ref)
		case segments.AmountID:
			amt, err := d.Amount(seg)
			if err != nil {
				return ClaimLoop{}, pos, err
			}
			loop.Amounts = append(loop.Amounts, amt)
		case segments.QuantityID:
			qty, err := d.Quantity(seg)
			if err != nil {
				return ClaimLoop{}, pos, err
			}
			loop.Quantities = append(loop.Quantities, qty)
		case segments.ContactID:
			per, err := d.Contact(seg)
			if err != nil {
				return ClaimLoop{}, pos, err
			}
			loop.Contacts = append(loop.Contacts, per)
		case segments.OutpatientAdjudicationID:
			moa, err := d.OutpatientAdjudication(seg)
			if err != nil {
				return ClaimLoop{}, pos, err
			}
			loop.Outpatient = &moa
		case segments.InpatientAdjudicationID:
			mia, err := d.InpatientAdjudication(seg)
			if err != nil {
				return ClaimLoop{}, pos, err
			}
			loop.Inpatient = &mia
		default:
			return loop, pos, nil
		}
		pos++
	}
	return loop, pos, nil
}

// Entity returns the first NM1 whose entity identifier code is code.
func (l ClaimLoop) Entity(code string) *segments.Entity {
	for i := range l.Entities {
		if l.Entities[i].Entity.Matches(code) {
			return &l.Entities[i]
		}
	}
	return nil
}

// Patient returns the QC entity, or nil.
func (l ClaimLoop) Patient() *segments.Entity {
	return l.Entity(segments.EntityPatient)
}

// RenderingProvider returns the 82 entity, or nil.
func (l ClaimLoop) RenderingProvider() *segments.Entity {
	return l.Entity(segments.EntityRenderingProvider)
}

// StatementStart returns the DTM*232 date, or nil.
func (l ClaimLoop) StatementStart() *time.Time {
	return findDate(l.Dates, segments.DateClaimStatementStart)
}

// StatementEnd returns the DTM*233 date, or nil.
func (l ClaimLoop) StatementEnd() *time.Time {
	return findDate(l.Dates, segments.DateClaimStatementEnd)
}

// ServiceLoop is an SVC segment with its dates, adjustments, references, amounts and remarks.
type ServiceLoop struct {
	Service     segments.Service
	Dates       []segments.Date
	Adjustments []segments.Adjustment
	References  []segments.Reference
	Amounts     []segments.Amount
	Quantities  []segments.Quantity
	Remarks     []segments.Remark
}

// AssembleService assembles the service loop whose SVC header is at pos. Any identifier
// outside the loop, including the next SVC or CLP, ends it.
func AssembleService(c *x12.Cursor, pos int, d *segments.Decoder) (ServiceLoop, int, error) {
	seg, err := header(c, pos, ServiceLoopName)
	if err != nil {
		return ServiceLoop{}, pos, err
	}

	var loop ServiceLoop
	if loop.Service, err = d.Service(seg); err != nil {
		return ServiceLoop{}, pos, err
	}

	for pos++; !c.Done(pos); pos++ {
		seg, _ = c.At(pos)
		switch seg.ID {
		case segments.DateID:
			dtm, err := d.Date(seg)
			if err != nil {
				return ServiceLoop{}, pos, err
			}
			loop.Dates = append(loop.Dates, dtm)
		case segments.AdjustmentID:
			cas, err := d.Adjustment(seg)
			if err != nil {
				return ServiceLoop{}, pos, err
			}
			loop.Adjustments = append(loop.Adjustments, cas)
		case segments.ReferenceID:
			ref, err := d.Reference(seg)
			if err != nil {
				return ServiceLoop{}, pos, err
			}
			loop.References = append(loop.References, ref)
		case segments.AmountID:
			amt, err := d.Amount(seg)
			if err != nil {
				return ServiceLoop{}, pos, err
			}
			loop.Amounts = append(loop.Amounts, amt)
		case segments.QuantityID:
			qty, err := d.Quantity(seg)
			if err != nil {
				return ServiceLoop{}, pos, err
			}
			loop.Quantities = append(loop.Quantities, qty)
		case segments.RemarkID:
			lq, err := d.Remark(seg)
			if err != nil {
				return ServiceLoop{}, pos, err
			}
			loop.Remarks = append(loop.Remarks, lq)
		default:
			return loop, pos, nil
		}
	}
	return loop, pos, nil
}

// ServiceStart returns the DTM*150 date, else the DTM*472 date, else nil.
func (l ServiceLoop) ServiceStart() *time.Time {
	if t := findDate(l.Dates, segments.DateServicePeriodStart); t != nil {
		return t
	}
	return findDate(l.Dates, segments.DateService)
}

// ServiceEnd returns the DTM*151 date, else the DTM*472 date, else nil.
func (l ServiceLoop) ServiceEnd() *time.Time {
	if t := findDate(l.Dates, segments.DateServicePeriodEnd); t != nil {
		return t
	}
	return findDate(l.Dates, segments.DateService)
}

// AllowedAmount returns the AMT*B6 segment, else the first AMT, else nil.
func (l ServiceLoop) AllowedAmount() *segments.Amount {
	for i := range l.Amounts {
		if l.Amounts[i].Qualifier.Matches(segments.AmountAllowed) {
			return &l.Amounts[i]
		}
	}
	if len(l.Amounts) > 0 {
		return &l.Amounts[0]
	}
	return nil
}

func findDate(dates []segments.Date, qualifier string) *time.Time {
	for _, dtm := range dates {
		if dtm.Qualifier.Matches(qualifier) {
			t := dtm.Date
			return &t
		}
	}
	return nil
}
