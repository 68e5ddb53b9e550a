package tagging

import (
	"errors"
	"sort"
	"sync"

	"github.com/dshills/gotodef/internal/renderer/core"
)

// UnderlineClassification is the classification used to underline
// go-to-definition targets.
const UnderlineClassification = "UnderlineClassification"

// Errors returned by registry operations.
var (
	ErrClassificationExists   = errors.New("classification type already registered")
	ErrClassificationNotFound = errors.New("classification type not found")
)

// ClassificationType is a named decoration format.
// The style can be changed at runtime; readers always see the latest value.
type ClassificationType struct {
	mu    sync.RWMutex
	name  string
	style core.Style
}

// Name returns the classification name.
func (ct *ClassificationType) Name() string {
	return ct.name
}

// Style returns the current style.
func (ct *ClassificationType) Style() core.Style {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.style
}

func (ct *ClassificationType) setStyle(style core.Style) bool {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	if ct.style.Equals(style) {
		return false
	}
	ct.style = style
	return true
}

// DefaultUnderlineStyle is the "underline, blue" format.
func DefaultUnderlineStyle() core.Style {
	return core.NewStyle(core.ColorBlue).Underline()
}

// Registry maps classification names to types.
// All operations are thread-safe.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*ClassificationType
}

// NewRegistry creates a registry with the underline classification
// registered at its default style.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]*ClassificationType)}
	r.types[UnderlineClassification] = &ClassificationType{
		name:  UnderlineClassification,
		style: DefaultUnderlineStyle(),
	}
	return r
}

// Register adds a new classification type.
func (r *Registry) Register(name string, style core.Style) (*ClassificationType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[name]; ok {
		return nil, ErrClassificationExists
	}
	ct := &ClassificationType{name: name, style: style}
	r.types[name] = ct
	return ct, nil
}

// Lookup returns the classification type with the given name.
func (r *Registry) Lookup(name string) (*ClassificationType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.types[name]
	return ct, ok
}

// SetStyle changes the style of an existing classification type.
// It reports whether the style actually changed.
func (r *Registry) SetStyle(name string, style core.Style) (bool, error) {
	ct, ok := r.Lookup(name)
	if !ok {
		return false, ErrClassificationNotFound
	}
	return ct.setStyle(style), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
