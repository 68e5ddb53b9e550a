package buffer

import (
	"sort"
	"strings"
)

// Snapshot provides a read-only view of a buffer at a specific version.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	text       string
	version    *Version
	lineStarts []ByteOffset
}

func newSnapshot(text string, version *Version) *Snapshot {
	starts := []ByteOffset{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, ByteOffset(i+1))
		}
	}
	return &Snapshot{
		text:       text,
		version:    version,
		lineStarts: starts,
	}
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.text
}

// TextRange returns text in the given byte range, clamped to the snapshot.
func (s *Snapshot) TextRange(start, end ByteOffset) string {
	start = s.clamp(start)
	end = s.clamp(end)
	if start >= end {
		return ""
	}
	return s.text[start:end]
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset {
	return ByteOffset(len(s.text))
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return len(s.text) == 0
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 {
	return uint32(len(s.lineStarts))
}

// LineStartOffset returns the byte offset of the start of a line.
func (s *Snapshot) LineStartOffset(line uint32) ByteOffset {
	if int(line) >= len(s.lineStarts) {
		return s.Len()
	}
	return s.lineStarts[line]
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (s *Snapshot) LineEndOffset(line uint32) ByteOffset {
	if int(line)+1 >= len(s.lineStarts) {
		return s.Len()
	}
	return s.lineStarts[line+1] - 1
}

// LineText returns the text of a specific line (without newline).
func (s *Snapshot) LineText(line uint32) string {
	if int(line) >= len(s.lineStarts) {
		return ""
	}
	return strings.TrimSuffix(s.text[s.LineStartOffset(line):s.LineEndOffset(line)], "\r")
}

// OffsetToPoint converts a byte offset to line/column.
// Offsets past the end clamp to the last position.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) Point {
	offset = s.clamp(offset)
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	}) - 1
	return Point{
		Line:   uint32(line),
		Column: uint32(offset - s.lineStarts[line]),
	}
}

// PointToOffset converts line/column to byte offset.
// Columns past the end of the line clamp to the line end.
func (s *Snapshot) PointToOffset(point Point) ByteOffset {
	if int(point.Line) >= len(s.lineStarts) {
		return s.Len()
	}
	offset := s.lineStarts[point.Line] + ByteOffset(point.Column)
	return min(offset, s.LineEndOffset(point.Line))
}

// Version returns the version this snapshot was taken at.
func (s *Snapshot) Version() *Version {
	return s.version
}

// RevisionID returns the revision ID of this snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.version.id
}

// Buffer returns the buffer this snapshot was taken from.
func (s *Snapshot) Buffer() *Buffer {
	return s.version.owner
}

// FullSpan returns a span covering the whole snapshot.
func (s *Snapshot) FullSpan() SnapshotSpan {
	return NewSnapshotSpan(s, Range{Start: 0, End: s.Len()})
}

// TranslateRange maps r from this snapshot to target using mode.
// Translation works in both directions along the version chain.
// It panics if target belongs to another buffer.
func (s *Snapshot) TranslateRange(r Range, target *Snapshot, mode TrackingMode) Range {
	if target == s {
		return r
	}
	if target.version.owner != s.version.owner {
		panic("buffer: cannot translate between snapshots of different buffers")
	}
	if target.version.number >= s.version.number {
		return TransformRange(r, s.version.changesBetween(target.version), mode)
	}
	backward := invertChanges(target.version.changesBetween(s.version))
	return TransformRange(r, backward, mode)
}

func (s *Snapshot) clamp(offset ByteOffset) ByteOffset {
	return max(0, min(offset, s.Len()))
}
