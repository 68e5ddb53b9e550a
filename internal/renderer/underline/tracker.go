package underline

import (
	"iter"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/gotodef/internal/engine/buffer"
	"github.com/dshills/gotodef/internal/renderer/tagging"
)

var _ tagging.Tagger = (*Tracker)(nil)

// Tracker holds the underlined span of one view.
type Tracker struct {
	mu     sync.RWMutex
	span   buffer.SnapshotSpan
	active bool

	tag    tagging.Tag
	mode   buffer.TrackingMode
	logger zerolog.Logger

	listenersMu sync.Mutex
	listeners   []listener
	nextID      uint64
}

type listener struct {
	id uint64
	fn func(tagging.SpanChange)
}

// New creates a tracker that decorates its span with tag.
// The tracker starts with nothing underlined.
func New(tag tagging.Tag, opts ...Option) *Tracker {
	t := &Tracker{
		tag:    tag,
		mode:   DefaultTrackingMode,
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Current returns the underlined span as last set, anchored to the snapshot
// it was set against.
func (t *Tracker) Current() (buffer.SnapshotSpan, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.span, t.active
}

// CurrentAt returns the underlined span translated to snap with the
// tracker's tracking mode.
func (t *Tracker) CurrentAt(snap *buffer.Snapshot) (buffer.SnapshotSpan, bool) {
	span, ok := t.Current()
	if !ok {
		return buffer.SnapshotSpan{}, false
	}
	return span.TranslateTo(snap, t.mode), true
}

// Tag returns the tag attached to the underlined span.
func (t *Tracker) Tag() tagging.Tag {
	return t.tag
}

// SetUnderline underlines span, replacing any previous underline.
func (t *Tracker) SetUnderline(span buffer.SnapshotSpan) {
	t.set(span, true)
}

// ClearUnderline removes the underline.
func (t *Tracker) ClearUnderline() {
	t.set(buffer.SnapshotSpan{}, false)
}

// SetUnderlineSpan sets the underline to *span, or clears it when span is nil.
func (t *Tracker) SetUnderlineSpan(span *buffer.SnapshotSpan) {
	if span == nil {
		t.ClearUnderline()
		return
	}
	t.SetUnderline(*span)
}

func (t *Tracker) set(span buffer.SnapshotSpan, active bool) {
	t.mu.Lock()
	old, hadOld := t.span, t.active
	t.span, t.active = span, active
	t.mu.Unlock()

	changed, ok := invalidation(old, hadOld, span, active)
	if !ok {
		return
	}

	t.logger.Debug().
		Stringer("old", old.Range).
		Bool("had_old", hadOld).
		Stringer("new", span.Range).
		Bool("active", active).
		Stringer("invalidated", changed).
		Msg("underline changed")

	t.broadcast(tagging.SpanChange{Span: changed})
}

// invalidation computes the region whose decoration changed when the
// underline went from old to next. It returns false when nothing changed.
func invalidation(old buffer.SnapshotSpan, hadOld bool, next buffer.SnapshotSpan, hasNext bool) (buffer.SnapshotSpan, bool) {
	switch {
	case !hadOld && !hasNext:
		return buffer.SnapshotSpan{}, false
	case hadOld && hasNext && old.Equal(next):
		return buffer.SnapshotSpan{}, false
	case !hasNext:
		return old, true
	case !hadOld:
		return next, true
	}

	// Offsets from different versions are not comparable; bring the old
	// span onto the new span's snapshot first.
	moved := old.TranslateTo(next.Snapshot, buffer.EdgeInclusive)
	return buffer.NewSnapshotSpan(next.Snapshot, moved.Range.Union(next.Range)), true
}

// Refresh re-announces the current underline so listeners redraw it.
// Used after the decoration style changed. Does nothing when nothing is
// underlined.
func (t *Tracker) Refresh() {
	span, ok := t.Current()
	if !ok {
		return
	}
	t.broadcast(tagging.SpanChange{Span: span})
}

// Tags yields the underline, translated edge-inclusively to the request
// snapshot, when it intersects the envelope of spans. It yields at most one
// TagSpan. The tracking mode option does not apply here.
func (t *Tracker) Tags(spans buffer.NormalizedSpans) iter.Seq[tagging.TagSpan] {
	return func(yield func(tagging.TagSpan) bool) {
		request, ok := spans.Envelope()
		if !ok {
			return
		}

		span, active := t.Current()
		if !active {
			return
		}

		translated := span.TranslateTo(request.Snapshot, buffer.EdgeInclusive)
		if translated.Overlaps(request) {
			yield(tagging.TagSpan{Span: translated, Tag: t.tag})
		}
	}
}

// Subscribe registers fn for change notifications.
// The returned function removes the subscription; calling it more than
// once is harmless.
func (t *Tracker) Subscribe(fn func(tagging.SpanChange)) (unsubscribe func()) {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()

	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { t.unsubscribe(id) })
	}
}

func (t *Tracker) unsubscribe(id uint64) {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()

	for i, l := range t.listeners {
		if l.id == id {
			t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
			return
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (t *Tracker) SubscriberCount() int {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()
	return len(t.listeners)
}

// broadcast delivers change to a snapshot of the current listeners.
// Listeners may subscribe or unsubscribe while being called.
func (t *Tracker) broadcast(change tagging.SpanChange) {
	t.listenersMu.Lock()
	listeners := make([]listener, len(t.listeners))
	copy(listeners, t.listeners)
	t.listenersMu.Unlock()

	for _, l := range listeners {
		l.fn(change)
	}
}
