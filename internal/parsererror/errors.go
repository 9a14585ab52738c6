// Package parsererror defines the error types returned while decoding 835 remittance documents.
package parsererror

import (
	"fmt"
	"strings"
)

// ParseError represents an error during parsing
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents an error where the input file does not conform
// to the expected format for a specific parser.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string // Optional: a snippet of the actual content for debugging
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// MalformedSegmentError reports a segment whose identifier does not match the decoder,
// or that lacks a required element.
type MalformedSegmentError struct {
	Index    int    // position of the segment in the document
	Expected string // identifier the decoder expects
	Found    string // identifier actually present
	Field    string // element name, empty for identifier mismatches
	Position int    // element position, 0 for identifier mismatches
	Err      error  // underlying element error, if any
}

func (e *MalformedSegmentError) Error() string {
	if e.Expected != e.Found {
		return fmt.Sprintf("segment %d: expected %s segment, found %q", e.Index, e.Expected, e.Found)
	}
	if e.Err != nil {
		return fmt.Sprintf("segment %d: %s%02d (%s): %v", e.Index, e.Expected, e.Position, e.Field, e.Err)
	}
	return fmt.Sprintf("segment %d: %s%02d (%s) is required but missing", e.Index, e.Expected, e.Position, e.Field)
}

func (e *MalformedSegmentError) Unwrap() error {
	return e.Err
}

// UnterminatedLoopError reports that input ended where a loop header was expected.
type UnterminatedLoopError struct {
	Loop  string
	Index int
}

func (e *UnterminatedLoopError) Error() string {
	return fmt.Sprintf("%s loop: input ended at segment %d before the loop header", e.Loop, e.Index)
}

// DuplicateHeaderError reports a second interchange or financial information segment.
type DuplicateHeaderError struct {
	Segment    string
	FirstIndex int
	Index      int
}

func (e *DuplicateHeaderError) Error() string {
	return fmt.Sprintf("segment %d: duplicate %s header (first seen at segment %d)", e.Index, e.Segment, e.FirstIndex)
}

// PayerResolutionError reports that the transaction does not name exactly one payer.
type PayerResolutionError struct {
	Matches []string
}

func (e *PayerResolutionError) Error() string {
	if len(e.Matches) == 0 {
		return "payer resolution: no organization of type payer"
	}
	return fmt.Sprintf("payer resolution: %d organizations of type payer (%s)",
		len(e.Matches), strings.Join(e.Matches, ", "))
}

// UnrecognizedTopLevelSegmentError is collected as a warning when the transaction builder
// skips a segment it has no decoder or loop for.
type UnrecognizedTopLevelSegmentError struct {
	Index      int
	Identifier string
}

func (e *UnrecognizedTopLevelSegmentError) Error() string {
	return fmt.Sprintf("segment %d: unrecognized top-level segment %q skipped", e.Index, e.Identifier)
}

// DateDecodeError reports a fixed-width date element that could not be read.
type DateDecodeError struct {
	Value  string
	Format string
	Reason string
}

func (e *DateDecodeError) Error() string {
	return fmt.Sprintf("invalid %s date %q: %s", e.Format, e.Value, e.Reason)
}
