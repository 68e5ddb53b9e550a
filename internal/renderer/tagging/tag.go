// Package tagging defines the contract between decoration producers and the
// rendering pipeline.
//
// A Tagger answers "which decorated spans intersect these visible spans?"
// and announces, through SpanChange notifications, which region of the
// buffer must be re-queried after its decorations changed. Tags are opaque
// to taggers; the renderer interprets them. ClassificationTag is the only
// kind shipped today and maps a span to a named, styled classification.
package tagging

import (
	"iter"

	"github.com/dshills/gotodef/internal/engine/buffer"
)

// Tag marks a decoration kind. Implementations are compared by identity of
// their underlying data, never by type switch inside taggers.
type Tag interface {
	// Kind names the decoration kind, for logs and diagnostics.
	Kind() string
}

// TagSpan pairs a tag with the span it decorates.
type TagSpan struct {
	Span buffer.SnapshotSpan
	Tag  Tag
}

// SpanChange reports that decorations inside Span may have changed.
// Span is anchored to the snapshot that was current when the change happened.
type SpanChange struct {
	Span buffer.SnapshotSpan
}

// Tagger produces decorations for a view.
type Tagger interface {
	// Tags yields the decorated spans intersecting spans.
	// All yielded spans are anchored to spans.Snapshot().
	Tags(spans buffer.NormalizedSpans) iter.Seq[TagSpan]

	// Subscribe registers fn for change notifications and returns a
	// function that removes it.
	Subscribe(fn func(SpanChange)) (unsubscribe func())
}

// ClassificationTag decorates a span with a classification type.
type ClassificationTag struct {
	Type *ClassificationType
}

// NewClassificationTag creates a tag for the given classification type.
func NewClassificationTag(ct *ClassificationType) ClassificationTag {
	return ClassificationTag{Type: ct}
}

// Kind implements Tag.
func (t ClassificationTag) Kind() string {
	if t.Type == nil {
		return "classification"
	}
	return "classification:" + t.Type.Name()
}
