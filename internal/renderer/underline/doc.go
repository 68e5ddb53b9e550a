// Package underline tracks the single underlined region of a view, such as
// the go-to-definition target under the mouse, and reports the minimal
// region that must be redrawn whenever that region changes.
//
// A Tracker owns at most one span. Setting a new span replaces the old one;
// it never accumulates. Each observable change produces exactly one
// tagging.SpanChange, delivered synchronously to every subscriber before
// the setter returns:
//
//   - clearing an existing underline reports the old span
//   - setting a span reports the union of the old span (translated to the
//     new span's snapshot) and the new one
//   - setting nothing over nothing, or the identical span again, reports nothing
//
// Tags translates the stored span edge-inclusively to the snapshot of the
// request, so a span set before an edit keeps decorating the same text
// afterwards. The tracking mode option only affects CurrentAt.
//
// # Usage
//
//	tracker := underline.New(tagging.NewClassificationTag(ct))
//	unsubscribe := tracker.Subscribe(func(c tagging.SpanChange) {
//	    dirty.MarkSpan(c.Span)
//	})
//	defer unsubscribe()
//
//	tracker.SetUnderline(buffer.NewSnapshotSpan(snap, buffer.NewRange(10, 15)))
//	for tag := range tracker.Tags(buffer.NewNormalizedSpans(snap, visible)) {
//	    // paint tag.Span with tag.Tag
//	}
//
// # Thread Safety
//
// Hosts are expected to call a Tracker from one event loop. The state is
// nevertheless guarded so that a tag query from a render goroutine never
// observes a torn span.
package underline
