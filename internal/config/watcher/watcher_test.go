package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestConvertOp(t *testing.T) {
	tests := []struct {
		op     fsnotify.Op
		want   Operation
		wantOK bool
	}{
		{fsnotify.Write, OpWrite, true},
		{fsnotify.Create, OpCreate, true},
		{fsnotify.Create | fsnotify.Write, OpCreate, true},
		{fsnotify.Remove, OpRemove, true},
		{fsnotify.Rename, OpRename, true},
		{fsnotify.Chmod, 0, false},
	}

	for _, tt := range tests {
		got, ok := convertOp(tt.op)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("convertOp(%v) = %v, %v; want %v, %v", tt.op, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "config.toml"))
	if err == nil {
		t.Error("New() should fail when the directory does not exist")
	}
}

func TestWatcher_DetectsWrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(path, []byte("a = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if w.Path() != path {
		t.Errorf("Path() = %q, want %q", w.Path(), path)
	}

	events := make(chan Event, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(e Event) { events <- e })
	}()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(tmpDir, "other.toml"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("a = 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-events:
		if e.Path != path {
			t.Errorf("event path = %q, want %q", e.Path, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestWatcher_Debounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	w, err := New(path, WithDebounce(200*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	events := make(chan Event, 16)
	go w.Run(context.Background(), func(e Event) { events <- e })

	for i := range 5 {
		if err := os.WriteFile(path, []byte{byte('0' + i)}, 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-events:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	select {
	case e := <-events:
		t.Errorf("rapid writes should coalesce, got extra event %v", e.Op)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_Close(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- w.Run(context.Background(), func(Event) {})
	}()

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	select {
	case err := <-done:
		// Run may not have started before Close.
		if err != nil && !errors.Is(err, ErrClosed) {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after Close")
	}

	if err := w.Run(context.Background(), func(Event) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Run() after Close = %v, want ErrClosed", err)
	}
}
