package x12

// Cursor gives random access to a tokenized document. Positions are plain integers so
// loop assembly can hand back the first segment it did not consume.
type Cursor struct {
	segments []RawSegment
}

// NewCursor wraps a segment slice. The slice must not be modified afterwards.
func NewCursor(segments []RawSegment) *Cursor {
	return &Cursor{segments: segments}
}

// Len returns the number of segments.
func (c *Cursor) Len() int {
	return len(c.segments)
}

// At returns the segment at pos, or false past the end of input.
func (c *Cursor) At(pos int) (RawSegment, bool) {
	if pos < 0 || pos >= len(c.segments) {
		return RawSegment{}, false
	}
	return c.segments[pos], true
}

// Identifier returns the identifier at pos, or "" past the end of input.
func (c *Cursor) Identifier(pos int) string {
	seg, ok := c.At(pos)
	if !ok {
		return ""
	}
	return seg.ID
}

// Done reports whether pos is past the last segment.
func (c *Cursor) Done(pos int) bool {
	return pos >= len(c.segments)
}
