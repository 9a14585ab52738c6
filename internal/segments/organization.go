package segments

import (
	"fjacquet/edi835-csv/internal/elements"
	"fjacquet/edi835-csv/internal/x12"
)

// Organization is the N1 segment naming the payer or payee.
type Organization struct {
	Index       int
	Type        elements.Code
	Name        string
	IDQualifier *elements.Code
	ID          *string
}

// Organization decodes an N1 segment. N101-N102 are required.
func (d *Decoder) Organization(seg x12.RawSegment) (Organization, error) {
	f, err := d.open(seg, OrganizationID)
	if err != nil {
		return Organization{}, err
	}

	n1 := Organization{
		Index:       seg.Index,
		Type:        f.code(1, "organization type", elements.TableOrganizationType),
		Name:        f.required(2, "name"),
		IDQualifier: f.optionalCode(3, elements.TableIDQualifier),
		ID:          f.optional(4),
	}
	if f.err != nil {
		return Organization{}, f.err
	}
	return n1, nil
}

// Address is the N3 segment.
type Address struct {
	Index int
	Line1 string
	Line2 *string
}

// Address decodes an N3 segment. N301 is required.
func (d *Decoder) Address(seg x12.RawSegment) (Address, error) {
	f, err := d.open(seg, AddressID)
	if err != nil {
		return Address{}, err
	}

	n3 := Address{
		Index: seg.Index,
		Line1: f.required(1, "address line"),
		Line2: f.optional(2),
	}
	if f.err != nil {
		return Address{}, f.err
	}
	return n3, nil
}

// Location is the N4 segment.
type Location struct {
	Index      int
	City       string
	State      *string
	PostalCode *string
	Country    *string
}

// Location decodes an N4 segment. N401 is required.
func (d *Decoder) Location(seg x12.RawSegment) (Location, error) {
	f, err := d.open(seg, LocationID)
	if err != nil {
		return Location{}, err
	}

	n4 := Location{
		Index:      seg.Index,
		City:       f.required(1, "city"),
		State:      f.optional(2),
		PostalCode: f.optional(3),
		Country:    f.optional(4),
	}
	if f.err != nil {
		return Location{}, f.err
	}
	return n4, nil
}

// Contact is the PER segment.
type Contact struct {
	Index         int
	Function      elements.Code
	Name          *string
	Qualifier     *string
	Number        *string
	SecondaryQual *string
	Secondary     *string
}

// Contact decodes a PER segment. PER01 is required.
func (d *Decoder) Contact(seg x12.RawSegment) (Contact, error) {
	f, err := d.open(seg, ContactID)
	if err != nil {
		return Contact{}, err
	}

	per := Contact{
		Index:         seg.Index,
		Function:      f.code(1, "contact function", elements.TableContactFunction),
		Name:          f.optional(2),
		Qualifier:     f.optional(3),
		Number:        f.optional(4),
		SecondaryQual: f.optional(5),
		Secondary:     f.optional(6),
	}
	if f.err != nil {
		return Contact{}, f.err
	}
	return per, nil
}

// Reference is the REF segment.
type Reference struct {
	Index     int
	Qualifier elements.Code
	Value     string
}

// Reference decodes a REF segment. REF01-REF02 are required.
func (d *Decoder) Reference(seg x12.RawSegment) (Reference, error) {
	f, err := d.open(seg, ReferenceID)
	if err != nil {
		return Reference{}, err
	}

	ref := Reference{
		Index:     seg.Index,
		Qualifier: f.code(1, "reference qualifier", elements.TableReferenceQualifier),
		Value:     f.required(2, "reference value"),
	}
	if f.err != nil {
		return Reference{}, f.err
	}
	return ref, nil
}
