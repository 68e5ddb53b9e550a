package underline

import (
	"github.com/rs/zerolog"

	"github.com/dshills/gotodef/internal/engine/buffer"
)

// DefaultTrackingMode is how CurrentAt follows edits at the span's edges.
const DefaultTrackingMode = buffer.EdgeInclusive

// Option configures a Tracker during creation.
type Option func(*Tracker)

// WithTrackingMode sets how CurrentAt translates the stored span. Tags and
// change notifications always track edge-inclusively.
func WithTrackingMode(mode buffer.TrackingMode) Option {
	return func(t *Tracker) {
		t.mode = mode
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger.With().Str("component", "underline").Logger()
	}
}
