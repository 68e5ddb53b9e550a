// Package dirty tracks which parts of a document need redrawing.
// Regions are expressed in document lines and byte columns, and are
// coalesced when they overlap or touch.
package dirty

import (
	"fmt"

	"github.com/dshills/gotodef/internal/engine/buffer"
)

// Region is a block of document text that needs redrawing.
type Region struct {
	// StartLine is the first line of the region (inclusive).
	StartLine uint32

	// EndLine is the last line of the region (inclusive).
	EndLine uint32

	// StartCol is the first byte column of the region (inclusive).
	// Ignored when FullWidth is true.
	StartCol uint32

	// EndCol is the last byte column of the region (exclusive).
	// Ignored when FullWidth is true.
	EndCol uint32

	// FullWidth indicates the region spans whole lines.
	FullWidth bool
}

// NewLineRegion creates a region covering full lines.
func NewLineRegion(startLine, endLine uint32) Region {
	if endLine < startLine {
		startLine, endLine = endLine, startLine
	}
	return Region{
		StartLine: startLine,
		EndLine:   endLine,
		FullWidth: true,
	}
}

// NewColumnRegion creates a region covering part of one line.
func NewColumnRegion(line, startCol, endCol uint32) Region {
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}
	return Region{
		StartLine: line,
		EndLine:   line,
		StartCol:  startCol,
		EndCol:    endCol,
	}
}

// SpanRegion returns the region occupied by span on its snapshot.
// A span within one line yields a column region; a span crossing lines
// yields full lines. An empty span yields an empty region.
func SpanRegion(span buffer.SnapshotSpan) Region {
	snap := span.Snapshot
	start := snap.OffsetToPoint(span.Start())
	end := snap.OffsetToPoint(span.End())

	if start.Line == end.Line {
		return NewColumnRegion(start.Line, start.Column, end.Column)
	}
	return NewLineRegion(start.Line, end.Line)
}

// IsEmpty returns true if the region covers no text.
func (r Region) IsEmpty() bool {
	if r.StartLine > r.EndLine {
		return true
	}
	return !r.FullWidth && r.StartCol >= r.EndCol
}

// LineCount returns the number of lines covered by the region.
func (r Region) LineCount() uint32 {
	if r.StartLine > r.EndLine {
		return 0
	}
	return r.EndLine - r.StartLine + 1
}

// ContainsLine returns true if the region covers the given line.
func (r Region) ContainsLine(line uint32) bool {
	return line >= r.StartLine && line <= r.EndLine
}

// Overlaps returns true if two regions share any cell.
func (r Region) Overlaps(other Region) bool {
	if r.EndLine < other.StartLine || r.StartLine > other.EndLine {
		return false
	}
	if r.FullWidth || other.FullWidth {
		return true
	}
	return r.StartCol < other.EndCol && other.StartCol < r.EndCol
}

// Adjacent returns true if two regions touch without overlapping and
// merging them would not cover extra text.
func (r Region) Adjacent(other Region) bool {
	if r.FullWidth && other.FullWidth {
		return (r.EndLine < ^uint32(0) && r.EndLine+1 == other.StartLine) ||
			(other.EndLine < ^uint32(0) && other.EndLine+1 == r.StartLine)
	}
	if r.FullWidth || other.FullWidth {
		return false
	}
	if r.StartLine != other.StartLine || r.EndLine != other.EndLine {
		return false
	}
	return r.EndCol == other.StartCol || other.EndCol == r.StartCol
}

// Merge combines two regions into one covering both.
// It reports false when the regions neither overlap nor touch.
func (r Region) Merge(other Region) (Region, bool) {
	if !r.Overlaps(other) && !r.Adjacent(other) {
		return Region{}, false
	}

	merged := Region{
		StartLine: min(r.StartLine, other.StartLine),
		EndLine:   max(r.EndLine, other.EndLine),
	}
	if r.FullWidth || other.FullWidth || merged.StartLine != merged.EndLine {
		merged.FullWidth = true
	} else {
		merged.StartCol = min(r.StartCol, other.StartCol)
		merged.EndCol = max(r.EndCol, other.EndCol)
	}
	return merged, true
}

// String returns a compact description such as "3:4-9" or "3-5".
func (r Region) String() string {
	if r.FullWidth {
		if r.StartLine == r.EndLine {
			return fmt.Sprintf("%d", r.StartLine)
		}
		return fmt.Sprintf("%d-%d", r.StartLine, r.EndLine)
	}
	return fmt.Sprintf("%d:%d-%d", r.StartLine, r.StartCol, r.EndCol)
}
