package view

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/gotodef/internal/engine/buffer"
	"github.com/dshills/gotodef/internal/plugin"
	"github.com/dshills/gotodef/internal/renderer/tagging"
)

func TestProvider_CreateTagger(t *testing.T) {
	buf := buffer.NewBufferFromString("x := compute(y)")
	other := buffer.NewBuffer()
	v := New(buf)

	tests := []struct {
		name       string
		extensions ExtensionManager
		buf        *buffer.Buffer
		wantNil    bool
	}{
		{"active", fakeExtensions{"words": true}, buf, false},
		{"buffer mismatch", fakeExtensions{}, other, true},
		{"no extension manager", nil, buf, true},
		{"conflicting extension", fakeExtensions{ConflictingExtension: true}, buf, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry(newTag(t))
			p := NewProvider(reg, tt.extensions)

			tagger := p.CreateTagger(v, tt.buf)
			if (tagger == nil) != tt.wantNil {
				t.Fatalf("CreateTagger() = %v, wantNil %v", tagger, tt.wantNil)
			}
			if tt.wantNil {
				if reg.Len() != 0 {
					t.Error("refused requests should not create trackers")
				}
				return
			}
			if tagger != tagging.Tagger(reg.TrackerFor(v)) {
				t.Error("tagger should be the view's cached tracker")
			}
		})
	}
}

func TestProvider_NilView(t *testing.T) {
	p := NewProvider(NewRegistry(newTag(t)), fakeExtensions{})
	if p.CreateTagger(nil, buffer.NewBuffer()) != nil {
		t.Error("nil view should yield no tagger")
	}
}

func TestProvider_WithCatalog(t *testing.T) {
	buf := buffer.NewBuffer()
	v := New(buf)

	empty := plugin.NewCatalog(plugin.WithPaths(t.TempDir()))
	if _, err := empty.Discover(); err != nil {
		t.Fatal(err)
	}
	if NewProvider(NewRegistry(newTag(t)), empty).CreateTagger(v, buf) == nil {
		t.Error("empty catalog should allow the underline")
	}

	dir := t.TempDir()
	writeExtension(t, dir, ConflictingExtension)
	conflicting := plugin.NewCatalog(plugin.WithPaths(dir))
	if _, err := conflicting.Discover(); err != nil {
		t.Fatal(err)
	}
	if NewProvider(NewRegistry(newTag(t)), conflicting).CreateTagger(v, buf) != nil {
		t.Error("installed GoToDef extension should disable the underline")
	}
}

func TestProvider_RefreshAll(t *testing.T) {
	reg := NewRegistry(newTag(t))
	p := NewProvider(reg, fakeExtensions{})

	bufA := buffer.NewBufferFromString("alpha")
	bufB := buffer.NewBufferFromString("beta")
	a, b := New(bufA), New(bufB)

	ta := p.TrackerFor(a, bufA)
	tb := p.TrackerFor(b, bufB)
	ta.SetUnderline(buffer.NewSnapshotSpan(bufA.Snapshot(), buffer.NewRange(0, 5)))

	var gotA, gotB int
	ta.Subscribe(func(tagging.SpanChange) { gotA++ })
	tb.Subscribe(func(tagging.SpanChange) { gotB++ })

	p.RefreshAll()

	if gotA != 1 {
		t.Errorf("underlined view notified %d times, want 1", gotA)
	}
	if gotB != 0 {
		t.Errorf("view without underline notified %d times, want 0", gotB)
	}
}

func TestProvider_Close(t *testing.T) {
	reg := NewRegistry(newTag(t))
	p := NewProvider(reg, fakeExtensions{})

	buf := buffer.NewBufferFromString("alpha")
	v := New(buf)
	p.TrackerFor(v, buf)

	if !p.Close(v) {
		t.Error("Close() should report the released tracker")
	}
	if p.Close(v) {
		t.Error("second Close() should report nothing to release")
	}
	if reg.Len() != 0 {
		t.Errorf("registry holds %d trackers after Close, want 0", reg.Len())
	}
}

func writeExtension(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".lua"), []byte("-- "+name), 0644); err != nil {
		t.Fatal(err)
	}
}
