// Package buffer provides a thread-safe text buffer whose every edit produces
// a new immutable, versioned Snapshot.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Immutable snapshots that can be read from any goroutine
//   - A forward-linked version chain recording the edits between snapshots
//   - Translation of offsets and spans from one snapshot to another
//   - Coordinate conversion between byte offsets and line/column positions
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	before := buf.Snapshot()
//
//	buf.Insert(7, "Beautiful ") // "Hello, Beautiful World!"
//
//	span := buffer.NewSnapshotSpan(before, buffer.NewRange(7, 12)) // "World"
//	moved := span.TranslateTo(buf.Snapshot(), buffer.EdgeInclusive)
//	// moved.Range == [17:22)
//
// Tracking Modes:
//
// When an edit touches the edge of a span, the TrackingMode decides whether
// the inserted text joins the span. EdgeInclusive grows the span for inserts
// at either edge; EdgeExclusive keeps them outside.
//
// Snapshots from different buffers cannot be translated into each other.
package buffer
