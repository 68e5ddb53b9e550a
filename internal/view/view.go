// Package view ties buffers, views and underline trackers together.
//
// Each view gets at most one underline.Tracker, created the first time a
// tagger is requested for it and released when the view closes. Provider
// is the entry point a rendering host uses to obtain the tagger.
package view

import (
	"github.com/google/uuid"

	"github.com/dshills/gotodef/internal/engine/buffer"
)

// ID identifies a view.
type ID string

// NewID returns a fresh random view ID.
func NewID() ID {
	return ID(uuid.New().String())
}

// View is one window onto a buffer.
type View struct {
	id  ID
	buf *buffer.Buffer
}

// New creates a view of buf with a fresh ID.
func New(buf *buffer.Buffer) *View {
	return &View{id: NewID(), buf: buf}
}

// ID returns the view's identifier.
func (v *View) ID() ID {
	return v.id
}

// Buffer returns the buffer the view displays.
func (v *View) Buffer() *buffer.Buffer {
	return v.buf
}
