package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// ManifestFile is the optional metadata file inside an extension directory.
const ManifestFile = "extension.json"

// Extension describes an installed extension.
type Extension struct {
	Name    string
	Version string
	Path    string // extension directory
	Main    string // entry script, relative to Path
}

// MainPath returns the absolute path of the entry script.
func (e *Extension) MainPath() string {
	return filepath.Join(e.Path, e.Main)
}

// Catalog discovers installed extensions from a list of search paths.
// The first path that provides a name wins.
type Catalog struct {
	mu         sync.RWMutex
	paths      []string
	discovered map[string]*Extension
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithPaths sets the extension search paths.
func WithPaths(paths ...string) CatalogOption {
	return func(c *Catalog) {
		c.paths = paths
	}
}

// NewCatalog creates a catalog. Call Discover to populate it.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		paths:      DefaultSearchPaths(),
		discovered: make(map[string]*Extension),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// DefaultSearchPaths returns the user and project extension directories.
func DefaultSearchPaths() []string {
	paths := make([]string, 0, 2)

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "gotodef", "extensions"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".gotodef", "extensions"))
	}

	return paths
}

// Paths returns the configured search paths.
func (c *Catalog) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.paths)
}

// Discover rescans the search paths and returns extensions sorted by name.
// Missing directories are skipped; unreadable ones are reported.
func (c *Catalog) Discover() ([]*Extension, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.discovered = make(map[string]*Extension)

	var errs []error
	for _, base := range c.paths {
		if err := c.discoverInPath(base); err != nil {
			errs = append(errs, err)
		}
	}

	exts := make([]*Extension, 0, len(c.discovered))
	for _, ext := range c.discovered {
		exts = append(exts, ext)
	}
	slices.SortFunc(exts, func(a, b *Extension) int {
		return strings.Compare(a.Name, b.Name)
	})

	if len(errs) > 0 {
		return exts, fmt.Errorf("discover extensions: %w", errs[0])
	}
	return exts, nil
}

func (c *Catalog) discoverInPath(base string) error {
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		var ext *Extension
		if entry.IsDir() {
			ext, err = inspect(entry.Name(), filepath.Join(base, entry.Name()))
			if err != nil {
				// A broken extension directory does not hide the others.
				continue
			}
		} else if filepath.Ext(entry.Name()) == ".lua" {
			ext = &Extension{
				Name:    strings.TrimSuffix(entry.Name(), ".lua"),
				Version: "0.0.0",
				Path:    base,
				Main:    entry.Name(),
			}
		} else {
			continue
		}

		if _, exists := c.discovered[ext.Name]; !exists {
			c.discovered[ext.Name] = ext
		}
	}

	return nil
}

// inspect reads an extension directory. The manifest is optional; without
// one the directory name is the extension name and init.lua the entry.
func inspect(name, dir string) (*Extension, error) {
	ext := &Extension{Name: name, Version: "0.0.0", Path: dir, Main: "init.lua"}

	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	switch {
	case err == nil:
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidManifest, dir)
		}
		m := gjson.ParseBytes(data)
		if v := m.Get("name"); v.Exists() {
			if v.Type != gjson.String || v.String() == "" {
				return nil, fmt.Errorf("%w: %s: name must be a non-empty string", ErrInvalidManifest, dir)
			}
			ext.Name = v.String()
		}
		if v := m.Get("version"); v.Exists() {
			ext.Version = v.String()
		}
		if v := m.Get("main"); v.Exists() {
			ext.Main = v.String()
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if _, err := os.Stat(ext.MainPath()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoEntryPoint, dir)
	}
	return ext, nil
}

// Get returns a discovered extension by name.
func (c *Catalog) Get(name string) (*Extension, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ext, ok := c.discovered[name]
	return ext, ok
}

// IsInstalled reports whether an extension with the given name was
// discovered.
func (c *Catalog) IsInstalled(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Names returns the discovered extension names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.discovered))
	for name := range c.discovered {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Find returns a discovered extension or ErrExtensionNotFound.
func (c *Catalog) Find(name string) (*Extension, error) {
	if ext, ok := c.Get(name); ok {
		return ext, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrExtensionNotFound, name)
}
