package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dshills/gotodef/internal/engine/buffer"
	plua "github.com/dshills/gotodef/internal/plugin/lua"
	"github.com/dshills/gotodef/internal/renderer/dirty"
	"github.com/dshills/gotodef/internal/renderer/tagging"
	"github.com/dshills/gotodef/internal/renderer/underline"
	"github.com/dshills/gotodef/internal/view"
)

// ErrDisabled is returned when the provider refuses to underline the view.
var ErrDisabled = errors.New("underline disabled for this view")

// Runner executes scripts.
type Runner struct {
	provider *view.Provider
	resolver string
	logger   zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithResolver loads the Lua file at path before the first step, so lua
// steps can call the functions it defines.
func WithResolver(path string) Option {
	return func(r *Runner) {
		r.resolver = path
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger.With().Str("component", "replay").Logger()
	}
}

// NewRunner creates a runner that obtains trackers from provider.
func NewRunner(provider *view.Provider, opts ...Option) *Runner {
	r := &Runner{
		provider: provider,
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// session is the state of one script run.
type session struct {
	buf     *buffer.Buffer
	tracker *underline.Tracker
	dirty   *dirty.Tracker
	lua     *plua.State
	pending []buffer.SnapshotSpan
}

// Run executes script on a fresh buffer and view. It stops at the first
// failing step and returns the report gathered so far with the error.
func (r *Runner) Run(ctx context.Context, script *Script) (*Report, error) {
	buf := buffer.NewBufferFromString(script.Text)
	v := view.New(buf)

	tracker := r.provider.TrackerFor(v, buf)
	if tracker == nil {
		return nil, ErrDisabled
	}
	defer r.provider.Close(v)

	s := &session{
		buf:     buf,
		tracker: tracker,
		dirty:   dirty.NewTracker(),
		lua:     plua.NewState(),
	}
	defer s.lua.Close()

	plua.OpenUnderline(s.lua, buf, tracker)
	if r.resolver != "" {
		if err := s.lua.DoFile(r.resolver); err != nil {
			return nil, fmt.Errorf("load resolver: %w", err)
		}
	}

	detach := s.dirty.Attach(tracker)
	defer detach()
	unsubscribe := tracker.Subscribe(func(c tagging.SpanChange) {
		s.pending = append(s.pending, c.Span)
	})
	defer unsubscribe()

	report := &Report{Text: script.Text}
	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := s.run(step)
		result.Index = i + 1
		result.Op = step.Op
		result.Version = buf.Snapshot().Version().Number()

		r.logger.Debug().
			Int("step", result.Index).
			Str("op", step.Op).
			Int("notifications", len(result.Notifications)).
			Msg("step done")

		if err != nil {
			return report, fmt.Errorf("step %d (%s): %w", result.Index, step.Op, err)
		}
		report.Steps = append(report.Steps, result)
	}

	if current, ok := tracker.CurrentAt(buf.Snapshot()); ok {
		span := newSpan(current)
		report.Final = &span
	}
	return report, nil
}

func (s *session) run(step Step) (StepResult, error) {
	var res StepResult
	var err error

	switch step.Op {
	case OpInsert:
		_, err = s.buf.Insert(*step.At, step.Text)
	case OpDelete:
		err = s.buf.Delete(*step.Start, *step.End)
	case OpSet:
		snap := s.buf.Snapshot()
		r := buffer.NewRange(*step.Start, *step.End)
		if !r.IsValid() || r.End > snap.Len() {
			err = fmt.Errorf("%w: %v", buffer.ErrRangeInvalid, r)
			break
		}
		s.tracker.SetUnderline(buffer.NewSnapshotSpan(snap, r))
	case OpClear:
		s.tracker.ClearUnderline()
	case OpLua:
		err = s.lua.DoString(step.Code)
	case OpQuery:
		res.Tags, err = s.query(step)
	}

	for _, span := range s.pending {
		res.Notifications = append(res.Notifications, newSpan(span))
	}
	s.pending = s.pending[:0]

	if s.dirty.NeedsFullRedraw() {
		res.FullRedraw = true
	}
	for _, region := range s.dirty.Regions() {
		res.Dirty = append(res.Dirty, region.String())
	}
	s.dirty.Clear()

	return res, err
}

func (s *session) query(step Step) ([]Span, error) {
	snap := s.buf.Snapshot()
	r := buffer.NewRange(0, snap.Len())
	if step.Start != nil {
		r = buffer.NewRange(*step.Start, *step.End)
		if !r.IsValid() || r.End > snap.Len() {
			return nil, fmt.Errorf("%w: %v", buffer.ErrRangeInvalid, r)
		}
	}

	var tags []Span
	for ts := range s.tracker.Tags(buffer.NewNormalizedSpans(snap, r)) {
		span := newSpan(ts.Span)
		span.Kind = ts.Tag.Kind()
		tags = append(tags, span)
	}
	return tags, nil
}
