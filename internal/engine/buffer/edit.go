package buffer

import "fmt"

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewEdit creates a new Edit.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{
		Range:   Range{Start: offset, End: offset},
		NewText: text,
	}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end ByteOffset) Edit {
	return Edit{
		Range:   Range{Start: start, End: end},
		NewText: "",
	}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// EditResult contains information about an applied edit.
type EditResult struct {
	OldRange Range     // The original range that was modified
	NewRange Range     // The resulting range after the edit
	OldText  string    // The text that was replaced (if any)
	Delta    int64     // Change in buffer length
	Snapshot *Snapshot // The snapshot produced by the edit
}

// ChangeType categorizes the type of change made to the buffer.
type ChangeType uint8

const (
	ChangeInsert  ChangeType = iota // Text was inserted
	ChangeDelete                    // Text was deleted
	ChangeReplace                   // Text was replaced
)

// String returns a string representation of the change type.
func (c ChangeType) String() string {
	switch c {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Change records one edit between two adjacent versions.
// Range is in the coordinates of the older version, NewRange in the
// coordinates of the newer one. Both share the same Start.
type Change struct {
	Type     ChangeType
	Range    Range
	NewRange Range
}

// newChange builds the Change that describes replacing r with newLen bytes.
func newChange(r Range, newLen ByteOffset) Change {
	var typ ChangeType
	switch {
	case r.IsEmpty():
		typ = ChangeInsert
	case newLen == 0:
		typ = ChangeDelete
	default:
		typ = ChangeReplace
	}
	return Change{
		Type:     typ,
		Range:    r,
		NewRange: Range{Start: r.Start, End: r.Start + newLen},
	}
}

// Delta returns the byte delta of this change.
func (c Change) Delta() ByteOffset {
	return c.NewRange.Len() - c.Range.Len()
}

// Invert returns the change that maps newer coordinates back to older ones.
func (c Change) Invert() Change {
	return newChange(c.NewRange, c.Range.Len())
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	return fmt.Sprintf("%s %s -> %s", c.Type, c.Range, c.NewRange)
}
