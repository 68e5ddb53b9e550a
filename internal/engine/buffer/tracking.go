package buffer

// PointTrackingMode decides where an offset goes when an edit touches it.
type PointTrackingMode uint8

const (
	// PointNegative keeps the offset before text inserted at it.
	PointNegative PointTrackingMode = iota

	// PointPositive moves the offset past text inserted at it.
	PointPositive
)

// TrackingMode decides how the edges of a span move when an edit touches them.
type TrackingMode uint8

const (
	// EdgeExclusive keeps text inserted at either edge outside the span.
	EdgeExclusive TrackingMode = iota

	// EdgeInclusive grows the span to include text inserted at either edge.
	EdgeInclusive

	// EdgePositive moves both edges past text inserted at them.
	EdgePositive

	// EdgeNegative keeps both edges before text inserted at them.
	EdgeNegative
)

// String returns the string representation of the tracking mode.
func (m TrackingMode) String() string {
	switch m {
	case EdgeExclusive:
		return "edge-exclusive"
	case EdgeInclusive:
		return "edge-inclusive"
	case EdgePositive:
		return "edge-positive"
	case EdgeNegative:
		return "edge-negative"
	default:
		return "unknown"
	}
}

// ParseTrackingMode parses the String form of a tracking mode.
func ParseTrackingMode(s string) (TrackingMode, bool) {
	switch s {
	case "edge-exclusive":
		return EdgeExclusive, true
	case "edge-inclusive":
		return EdgeInclusive, true
	case "edge-positive":
		return EdgePositive, true
	case "edge-negative":
		return EdgeNegative, true
	default:
		return EdgeExclusive, false
	}
}

// edges returns the point modes used for the start and end of a span.
func (m TrackingMode) edges() (start, end PointTrackingMode) {
	switch m {
	case EdgeInclusive:
		return PointNegative, PointPositive
	case EdgePositive:
		return PointPositive, PointPositive
	case EdgeNegative:
		return PointNegative, PointNegative
	default:
		return PointPositive, PointNegative
	}
}

// TransformOffset moves an offset across a single change.
//
// Transformation rules:
//   - Change entirely after offset: offset unchanged
//   - Change entirely before offset, or ending exactly at it: shift by delta
//   - Insertion exactly at offset: mode decides (negative stays, positive moves past)
//   - Offset inside replaced text: negative goes to the change start,
//     positive goes to the end of the new text
func TransformOffset(offset ByteOffset, c Change, mode PointTrackingMode) ByteOffset {
	if offset < c.Range.Start {
		return offset
	}
	if offset > c.Range.End || (offset == c.Range.End && !c.Range.IsEmpty()) {
		return offset + c.Delta()
	}
	if mode == PointPositive {
		return c.NewRange.End
	}
	return c.Range.Start
}

// TransformRange moves a range across a sequence of changes applied in order.
// The result never has End before Start.
func TransformRange(r Range, changes []Change, mode TrackingMode) Range {
	startMode, endMode := mode.edges()
	for _, c := range changes {
		r.Start = TransformOffset(r.Start, c, startMode)
		r.End = TransformOffset(r.End, c, endMode)
		if r.End < r.Start {
			r.End = r.Start
		}
	}
	return r
}

// invertChanges returns the changes that undo the given sequence, in the
// order they must be applied.
func invertChanges(changes []Change) []Change {
	inverted := make([]Change, len(changes))
	for i, c := range changes {
		inverted[len(changes)-1-i] = c.Invert()
	}
	return inverted
}
