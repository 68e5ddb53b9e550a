package buffer

import (
	"errors"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
)

// Buffer holds the current text and the head of its version chain.
// Every successful write produces a new Snapshot; older snapshots stay
// valid and can translate spans to newer ones.
// All methods are thread-safe.
type Buffer struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return NewBufferFromString("")
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	b := &Buffer{}
	b.current = newSnapshot(s, newVersion(b, 0))
	return b
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	return b.Snapshot().Text()
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	return b.Snapshot().Len()
}

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	return b.Snapshot().RevisionID()
}

// Snapshot returns the current snapshot.
// Repeated calls without an intervening edit return the same pointer.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	if offset < 0 || offset > b.Len() {
		return 0, ErrOffsetOutOfRange
	}
	if _, err := b.ApplyEdit(NewInsert(offset, text)); err != nil {
		return 0, err
	}
	return offset + ByteOffset(len(text)), nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.ApplyEdit(NewDelete(start, end))
	return err
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	if _, err := b.ApplyEdit(NewEdit(NewRange(start, end), text)); err != nil {
		return 0, err
	}
	return start + ByteOffset(len(text)), nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	old := b.current
	if !edit.Range.IsValid() || edit.Range.End > old.Len() {
		return EditResult{}, ErrRangeInvalid
	}

	oldText := old.text[edit.Range.Start:edit.Range.End]
	text := old.text[:edit.Range.Start] + edit.NewText + old.text[edit.Range.End:]
	change := newChange(edit.Range, ByteOffset(len(edit.NewText)))
	snap := b.advanceLocked(text, []Change{change})

	return EditResult{
		OldRange: edit.Range,
		NewRange: change.NewRange,
		OldText:  oldText,
		Delta:    change.Delta(),
		Snapshot: snap,
	}, nil
}

// ApplyEdits applies multiple edits atomically as one new version.
// Edits must be in reverse order (highest offset first) to maintain validity.
func (b *Buffer) ApplyEdits(edits []Edit) (*Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(edits) == 0 {
		return b.current, nil
	}

	// Validate edits are in reverse order and non-overlapping
	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return nil, ErrEditsOverlap
		}
	}

	text := b.current.text
	for _, edit := range edits {
		if !edit.Range.IsValid() || edit.Range.End > ByteOffset(len(b.current.text)) {
			return nil, ErrRangeInvalid
		}
	}

	// Applied highest first, each change's offsets stay valid in sequence.
	changes := make([]Change, 0, len(edits))
	for _, edit := range edits {
		text = text[:edit.Range.Start] + edit.NewText + text[edit.Range.End:]
		changes = append(changes, newChange(edit.Range, ByteOffset(len(edit.NewText))))
	}

	return b.advanceLocked(text, changes), nil
}

// advanceLocked links a new version carrying text onto the chain (must hold lock).
func (b *Buffer) advanceLocked(text string, changes []Change) *Snapshot {
	prev := b.current.version
	next := newVersion(b, prev.number+1)
	snap := newSnapshot(text, next)
	prev.link(changes, next)
	b.current = snap
	return snap
}
