// Package transaction builds an 835 transaction set from tokenized segments and flattens it
// to one record per service line.
package transaction

import (
	"fjacquet/edi835-csv/internal/elements"
	"fjacquet/edi835-csv/internal/loops"
	"fjacquet/edi835-csv/internal/parsererror"
	"fjacquet/edi835-csv/internal/segments"
	"fjacquet/edi835-csv/internal/x12"
)

// Organization type codes (N101) resolved on the transaction set.
const (
	OrganizationPayer = "PR"
	OrganizationPayee = "PE"
)

// TransactionSet is a decoded 835 document. It is built once and only read afterwards.
type TransactionSet struct {
	Interchange          *segments.Interchange
	FinancialInformation *segments.FinancialInformation
	Organizations        []loops.OrganizationLoop
	Claims               []loops.ClaimLoop
}

// Warnings lists the top-level segments skipped during a build.
type Warnings []*parsererror.UnrecognizedTopLevelSegmentError

// Build walks the cursor from the first segment and assembles the transaction set.
// Unrecognized top-level segments are skipped and returned as warnings. On any other
// error no transaction set is returned.
func Build(c *x12.Cursor, d *segments.Decoder) (*TransactionSet, Warnings, error) {
	ts := &TransactionSet{}
	var warnings Warnings

	for pos := 0; !c.Done(pos); {
		seg, _ := c.At(pos)

		switch seg.ID {
		case segments.InterchangeID:
			if ts.Interchange != nil {
				return nil, warnings, &parsererror.DuplicateHeaderError{
					Segment: seg.ID, FirstIndex: ts.Interchange.Index, Index: seg.Index,
				}
			}
			isa, err := d.Interchange(seg)
			if err != nil {
				return nil, warnings, err
			}
			ts.Interchange = &isa
			pos++

		case segments.FinancialInformationID:
			if ts.FinancialInformation != nil {
				return nil, warnings, &parsererror.DuplicateHeaderError{
					Segment: seg.ID, FirstIndex: ts.FinancialInformation.Index, Index: seg.Index,
				}
			}
			bpr, err := d.FinancialInformation(seg)
			if err != nil {
				return nil, warnings, err
			}
			ts.FinancialInformation = &bpr
			pos++

		case segments.OrganizationID:
			org, next, err := loops.AssembleOrganization(c, pos, d)
			if err != nil {
				return nil, warnings, err
			}
			ts.Organizations = append(ts.Organizations, org)
			pos = next

		case segments.ClaimID:
			claim, next, err := loops.AssembleClaim(c, pos, d)
			if err != nil {
				return nil, warnings, err
			}
			ts.Claims = append(ts.Claims, claim)
			pos = next

		default:
			warnings = append(warnings, &parsererror.UnrecognizedTopLevelSegmentError{
				Index: seg.Index, Identifier: seg.ID,
			})
			pos++
		}
	}
	return ts, warnings, nil
}

// Options controls tokenizing and decoding in Decode.
type Options struct {
	Delimiters       x12.Delimiters
	DetectDelimiters bool
	Tables           *elements.Tables
}

// DefaultOptions uses the default delimiters, ISA detection and the built-in code tables.
func DefaultOptions() Options {
	return Options{
		Delimiters:       x12.DefaultDelimiters(),
		DetectDelimiters: true,
		Tables:           elements.DefaultTables(),
	}
}

// Decode tokenizes text and builds its transaction set.
func Decode(text string, opts Options) (*TransactionSet, Warnings, error) {
	delimiters := opts.Delimiters
	if opts.DetectDelimiters {
		if detected, ok := x12.DetectDelimiters(text); ok {
			delimiters = detected
		}
	}
	c := x12.NewCursor(x12.Tokenize(text, delimiters))
	return Build(c, segments.NewDecoder(opts.Tables, delimiters.Component))
}

// Payer returns the single organization of type PR. Zero or several matches are a
// PayerResolutionError.
func (ts *TransactionSet) Payer() (*loops.OrganizationLoop, error) {
	var matches []int
	for i := range ts.Organizations {
		if ts.Organizations[i].HasType(OrganizationPayer) {
			matches = append(matches, i)
		}
	}
	if len(matches) != 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = ts.Organizations[m].Organization.Name
		}
		return nil, &parsererror.PayerResolutionError{Matches: names}
	}
	return &ts.Organizations[matches[0]], nil
}

// Payee returns the first organization of type payee, or nil.
func (ts *TransactionSet) Payee() *loops.OrganizationLoop {
	for i := range ts.Organizations {
		if ts.Organizations[i].HasType(OrganizationPayee) {
			return &ts.Organizations[i]
		}
	}
	return nil
}

// ServiceCount returns the number of service lines over all claims.
func (ts *TransactionSet) ServiceCount() int {
	n := 0
	for _, c := range ts.Claims {
		n += len(c.Services)
	}
	return n
}
