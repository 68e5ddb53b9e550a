package view

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/gotodef/internal/renderer/tagging"
	"github.com/dshills/gotodef/internal/renderer/underline"
)

// Registry caches one underline tracker per view.
type Registry struct {
	mu       sync.Mutex
	trackers map[ID]*underline.Tracker

	tag    tagging.Tag
	opts   []underline.Option
	logger zerolog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithTrackerOptions sets the options passed to every new tracker.
func WithTrackerOptions(opts ...underline.Option) RegistryOption {
	return func(r *Registry) {
		r.opts = append(r.opts, opts...)
	}
}

// WithLogger sets the registry logger.
func WithLogger(logger zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger.With().Str("component", "view-registry").Logger()
	}
}

// NewRegistry creates a registry whose trackers decorate with tag.
func NewRegistry(tag tagging.Tag, opts ...RegistryOption) *Registry {
	r := &Registry{
		trackers: make(map[ID]*underline.Tracker),
		tag:      tag,
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// TrackerFor returns the tracker for v, creating it on first use.
// The same tracker is returned until the view is closed.
func (r *Registry) TrackerFor(v *View) *underline.Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.trackers[v.ID()]; ok {
		return t
	}

	t := underline.New(r.tag, r.opts...)
	r.trackers[v.ID()] = t
	r.logger.Debug().Str("view", string(v.ID())).Msg("tracker created")
	return t
}

// Lookup returns the tracker for id without creating one.
func (r *Registry) Lookup(id ID) (*underline.Tracker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trackers[id]
	return t, ok
}

// Close releases the tracker of v. It reports whether one existed.
func (r *Registry) Close(v *View) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trackers[v.ID()]; !ok {
		return false
	}
	delete(r.trackers, v.ID())
	r.logger.Debug().Str("view", string(v.ID())).Msg("tracker released")
	return true
}

// Len returns the number of live trackers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trackers)
}

// Each calls fn for every live tracker. fn runs without the registry lock
// held and may call back into the registry.
func (r *Registry) Each(fn func(ID, *underline.Tracker)) {
	r.mu.Lock()
	ids := make([]ID, 0, len(r.trackers))
	trackers := make([]*underline.Tracker, 0, len(r.trackers))
	for id, t := range r.trackers {
		ids = append(ids, id)
		trackers = append(trackers, t)
	}
	r.mu.Unlock()

	for i, t := range trackers {
		fn(ids[i], t)
	}
}
