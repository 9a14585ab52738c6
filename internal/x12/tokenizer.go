// Package x12 splits raw X12 text into segments and elements.
package x12

import (
	"strings"
)

// Default X12 delimiters.
const (
	DefaultSegmentTerminator  = "~"
	DefaultElementSeparator   = "*"
	DefaultComponentSeparator = ":"
)

// isaLength is the fixed width of an ISA segment including its terminator.
const isaLength = 106

// Delimiters holds the three separator characters of an interchange.
type Delimiters struct {
	Segment   string
	Element   string
	Component string
}

// DefaultDelimiters returns the `~`, `*`, `:` delimiter set.
func DefaultDelimiters() Delimiters {
	return Delimiters{
		Segment:   DefaultSegmentTerminator,
		Element:   DefaultElementSeparator,
		Component: DefaultComponentSeparator,
	}
}

// DetectDelimiters reads the delimiters from a fixed-width ISA header.
// It reports false when the text does not start with a well-formed ISA segment.
func DetectDelimiters(text string) (Delimiters, bool) {
	text = strings.TrimLeft(text, " \t\r\n")
	if len(text) < isaLength || !strings.HasPrefix(text, "ISA") {
		return Delimiters{}, false
	}

	element := text[3:4]
	// ISA carries exactly 16 data elements, the last one being the component separator.
	if strings.Count(text[:isaLength-1], element) != 16 || text[103:104] != element {
		return Delimiters{}, false
	}

	d := Delimiters{
		Segment:   text[105:106],
		Element:   element,
		Component: text[104:105],
	}
	if d.Segment == d.Element || d.Component == d.Element || d.Segment == d.Component {
		return Delimiters{}, false
	}
	// A terminator that already occurs inside the header, such as a space, cannot be one.
	if strings.Contains(text[:isaLength-1], d.Segment) {
		return Delimiters{}, false
	}
	return d, true
}

// RawSegment is one tokenized segment. Elements[0] is the identifier, so X12 element
// positions (CLP01, CLP02, ...) index Elements directly.
type RawSegment struct {
	Index    int
	ID       string
	Elements []string
}

// Element returns the raw element at an X12 position, or false when the segment is shorter.
func (s RawSegment) Element(pos int) (string, bool) {
	if pos < 1 || pos >= len(s.Elements) {
		return "", false
	}
	return s.Elements[pos], true
}

// Len returns the number of data elements after the identifier.
func (s RawSegment) Len() int {
	if len(s.Elements) == 0 {
		return 0
	}
	return len(s.Elements) - 1
}

// String rebuilds the segment text with the default element separator.
func (s RawSegment) String() string {
	return strings.Join(s.Elements, DefaultElementSeparator)
}

// Tokenize splits text on the segment terminator, trims each piece, drops empty pieces
// and splits what remains on the element separator.
func Tokenize(text string, d Delimiters) []RawSegment {
	if d.Segment == "" {
		d.Segment = DefaultSegmentTerminator
	}
	if d.Element == "" {
		d.Element = DefaultElementSeparator
	}

	pieces := strings.Split(text, d.Segment)
	segments := make([]RawSegment, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		elements := strings.Split(piece, d.Element)
		segments = append(segments, RawSegment{
			Index:    len(segments),
			ID:       strings.TrimSpace(elements[0]),
			Elements: elements,
		})
	}
	return segments
}
