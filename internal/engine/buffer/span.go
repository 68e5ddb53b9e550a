package buffer

import (
	"cmp"
	"fmt"
	"slices"
)

// SnapshotSpan is a Range anchored to the Snapshot it was measured on.
// Two spans are only comparable when they share a snapshot.
type SnapshotSpan struct {
	Snapshot *Snapshot
	Range    Range
}

// NewSnapshotSpan anchors r to snap.
func NewSnapshotSpan(snap *Snapshot, r Range) SnapshotSpan {
	return SnapshotSpan{Snapshot: snap, Range: r}
}

// Start returns the inclusive start offset.
func (s SnapshotSpan) Start() ByteOffset {
	return s.Range.Start
}

// End returns the exclusive end offset.
func (s SnapshotSpan) End() ByteOffset {
	return s.Range.End
}

// IsEmpty returns true if the span has zero length.
func (s SnapshotSpan) IsEmpty() bool {
	return s.Range.IsEmpty()
}

// Text returns the text covered by the span.
func (s SnapshotSpan) Text() string {
	return s.Snapshot.TextRange(s.Range.Start, s.Range.End)
}

// Equal reports whether both spans use the same snapshot and bounds.
func (s SnapshotSpan) Equal(other SnapshotSpan) bool {
	return s.Snapshot == other.Snapshot && s.Range == other.Range
}

// TranslateTo maps the span onto target.
func (s SnapshotSpan) TranslateTo(target *Snapshot, mode TrackingMode) SnapshotSpan {
	return SnapshotSpan{
		Snapshot: target,
		Range:    s.Snapshot.TranslateRange(s.Range, target, mode),
	}
}

// Overlaps reports whether the spans share at least one byte.
// Both spans must be on the same snapshot.
func (s SnapshotSpan) Overlaps(other SnapshotSpan) bool {
	s.mustShareSnapshot(other)
	return s.Range.Overlaps(other.Range)
}

// String returns a human-readable representation of the span.
func (s SnapshotSpan) String() string {
	if s.Snapshot == nil {
		return s.Range.String()
	}
	return fmt.Sprintf("%s@%d", s.Range, s.Snapshot.RevisionID())
}

func (s SnapshotSpan) mustShareSnapshot(other SnapshotSpan) {
	if s.Snapshot != other.Snapshot {
		panic("buffer: spans are anchored to different snapshots")
	}
}

// NormalizedSpans is a sorted, non-overlapping sequence of spans that all
// share one snapshot. Adjacent and overlapping input spans are merged.
type NormalizedSpans struct {
	snapshot *Snapshot
	ranges   []Range
}

// NewNormalizedSpans normalizes ranges on snap.
func NewNormalizedSpans(snap *Snapshot, ranges ...Range) NormalizedSpans {
	if len(ranges) == 0 {
		return NormalizedSpans{snapshot: snap}
	}

	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b Range) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})

	merged := sorted[:1]
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			last.End = max(last.End, r.End)
			continue
		}
		merged = append(merged, r)
	}

	return NormalizedSpans{snapshot: snap, ranges: merged}
}

// Snapshot returns the snapshot every span is anchored to.
func (n NormalizedSpans) Snapshot() *Snapshot {
	return n.snapshot
}

// Len returns the number of spans.
func (n NormalizedSpans) Len() int {
	return len(n.ranges)
}

// At returns the i'th span.
func (n NormalizedSpans) At(i int) SnapshotSpan {
	return SnapshotSpan{Snapshot: n.snapshot, Range: n.ranges[i]}
}

// Envelope returns the span from the first start to the last end.
// It returns false when there are no spans.
func (n NormalizedSpans) Envelope() (SnapshotSpan, bool) {
	if len(n.ranges) == 0 {
		return SnapshotSpan{}, false
	}
	return SnapshotSpan{
		Snapshot: n.snapshot,
		Range:    Range{Start: n.ranges[0].Start, End: n.ranges[len(n.ranges)-1].End},
	}, true
}
