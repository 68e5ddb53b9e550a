package view

import (
	"github.com/rs/zerolog"

	"github.com/dshills/gotodef/internal/engine/buffer"
	"github.com/dshills/gotodef/internal/renderer/tagging"
	"github.com/dshills/gotodef/internal/renderer/underline"
)

// ConflictingExtension is the extension that provides its own
// go-to-definition underline. When it is installed, Provider stands down.
const ConflictingExtension = "GoToDef"

// ExtensionManager reports installed extensions.
// *plugin.Catalog satisfies it.
type ExtensionManager interface {
	IsInstalled(name string) bool
}

// Provider hands out underline taggers for views.
type Provider struct {
	registry   *Registry
	extensions ExtensionManager
	logger     zerolog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithProviderLogger sets the provider logger.
func WithProviderLogger(logger zerolog.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logger.With().Str("component", "underline-provider").Logger()
	}
}

// NewProvider creates a provider. A nil extensions manager disables the
// provider entirely.
func NewProvider(registry *Registry, extensions ExtensionManager, opts ...ProviderOption) *Provider {
	p := &Provider{
		registry:   registry,
		extensions: extensions,
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// CreateTagger returns the underline tagger for v, or nil when v does not
// display buf, no extension manager is available, or the conflicting
// extension is installed.
func (p *Provider) CreateTagger(v *View, buf *buffer.Buffer) tagging.Tagger {
	t := p.TrackerFor(v, buf)
	if t == nil {
		return nil
	}
	return t
}

// TrackerFor is CreateTagger returning the concrete tracker, for callers
// that also drive the underline.
func (p *Provider) TrackerFor(v *View, buf *buffer.Buffer) *underline.Tracker {
	if v == nil || v.Buffer() != buf {
		return nil
	}
	if p.extensions == nil {
		p.logger.Debug().Msg("no extension manager, underline disabled")
		return nil
	}
	if p.extensions.IsInstalled(ConflictingExtension) {
		p.logger.Info().Str("extension", ConflictingExtension).Msg("conflicting extension installed, underline disabled")
		return nil
	}
	return p.registry.TrackerFor(v)
}

// Close releases the tracker created for v. It reports whether one existed.
func (p *Provider) Close(v *View) bool {
	return p.registry.Close(v)
}

// RefreshAll makes every live tracker re-announce its underline, so views
// repaint after the decoration style changed.
func (p *Provider) RefreshAll() {
	p.registry.Each(func(_ ID, t *underline.Tracker) {
		t.Refresh()
	})
}
