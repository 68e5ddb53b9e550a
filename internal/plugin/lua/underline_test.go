package lua

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/gotodef/internal/engine/buffer"
	"github.com/dshills/gotodef/internal/renderer/tagging"
	"github.com/dshills/gotodef/internal/renderer/underline"
)

type testTag struct{}

func (testTag) Kind() string { return "underline" }

func newResolver(t *testing.T, text string) (*State, *buffer.Buffer, *underline.Tracker) {
	t.Helper()
	buf := buffer.NewBufferFromString(text)
	tracker := underline.New(testTag{})
	state := NewState()
	t.Cleanup(func() { state.Close() })
	OpenUnderline(state, buf, tracker)
	return state, buf, tracker
}

func TestUnderlineModule_SetAndClear(t *testing.T) {
	state, buf, tracker := newResolver(t, "x := compute(y)")

	var changes []buffer.SnapshotSpan
	tracker.Subscribe(func(c tagging.SpanChange) { changes = append(changes, c.Span) })

	if err := state.DoString(`require("underline").set(5, 12)`); err != nil {
		t.Fatalf("set error = %v", err)
	}

	span, ok := tracker.Current()
	if !ok {
		t.Fatal("underline should be set")
	}
	if span.Snapshot != buf.Snapshot() || span.Range != buffer.NewRange(5, 12) {
		t.Errorf("Current() = %v", span)
	}
	if span.Text() != "compute" {
		t.Errorf("underlined text = %q", span.Text())
	}

	if err := state.DoString(`require("underline").clear()`); err != nil {
		t.Fatalf("clear error = %v", err)
	}
	if _, ok := tracker.Current(); ok {
		t.Error("underline should be cleared")
	}
	if len(changes) != 2 {
		t.Errorf("expected 2 notifications, got %d", len(changes))
	}
}

func TestUnderlineModule_Current(t *testing.T) {
	state, buf, _ := newResolver(t, "x := compute(y)")

	script := `
local u = require("underline")
before = u.current()
u.set(5, 12)
`
	if err := state.DoString(script); err != nil {
		t.Fatal(err)
	}
	if state.GetGlobal("before") != glua.LNil {
		t.Errorf("current() without underline = %v, want nil", state.GetGlobal("before"))
	}

	buf.Insert(0, "  ")

	if err := state.DoString(`s, e = require("underline").current()`); err != nil {
		t.Fatal(err)
	}
	if s, e := state.GetGlobal("s"), state.GetGlobal("e"); s != glua.LNumber(7) || e != glua.LNumber(14) {
		t.Errorf("current() after edit = %v, %v; want 7, 14", s, e)
	}
}

func TestUnderlineModule_SetOutOfRange(t *testing.T) {
	state, _, tracker := newResolver(t, "short")

	tests := []string{
		`require("underline").set(2, 99)`,
		`require("underline").set(4, 2)`,
		`require("underline").set(-1, 2)`,
		`require("underline").set("a", 2)`,
	}

	for _, script := range tests {
		if err := state.DoString(script); err == nil {
			t.Errorf("%s: expected error", script)
		}
	}
	if _, ok := tracker.Current(); ok {
		t.Error("failed calls should not set an underline")
	}
}

func TestBufferGlobal(t *testing.T) {
	state, _, tracker := newResolver(t, "x := compute(y)")

	script := `
assert(buffer.len() == 15)
assert(buffer.text():sub(6, 12) == "compute")
local s, e = buffer.word_at(8)
require("underline").set(s, e)
none = buffer.word_at(3)
`
	if err := state.DoString(script); err != nil {
		t.Fatalf("script error = %v", err)
	}

	span, ok := tracker.Current()
	if !ok || span.Text() != "compute" {
		t.Errorf("underline = %v, %v; want compute", span, ok)
	}
	if state.GetGlobal("none") != glua.LNil {
		t.Error("word_at on an operator should return nil")
	}
}

func TestWordAt(t *testing.T) {
	text := "x := compute(y_2) // héllo"

	tests := []struct {
		offset     int64
		start, end int64
		ok         bool
	}{
		{0, 0, 1, true},
		{1, 0, 1, true},
		{3, 0, 0, false},
		{5, 5, 12, true},
		{9, 5, 12, true},
		{12, 5, 12, true},
		{13, 13, 16, true},
		{21, 21, 27, true},
		{27, 21, 27, true},
		{-1, 0, 0, false},
		{28, 0, 0, false},
	}

	for _, tt := range tests {
		start, end, ok := WordAt(text, tt.offset)
		if ok != tt.ok || (ok && (start != tt.start || end != tt.end)) {
			t.Errorf("WordAt(%d) = %d, %d, %v; want %d, %d, %v", tt.offset, start, end, ok, tt.start, tt.end, tt.ok)
		}
	}
}

func TestState_Restricted(t *testing.T) {
	state := NewState()
	defer state.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		if state.GetGlobal(name) != glua.LNil {
			t.Errorf("%s should not be available", name)
		}
	}
	if err := state.DoString(`require("os")`); err == nil {
		t.Error("os module should not be loadable")
	}
	if err := state.DoString(`x = string.upper("ok") .. math.floor(1.5)`); err != nil {
		t.Errorf("safe libraries should be open: %v", err)
	}
	if got := state.GetGlobal("x").String(); got != "OK1" {
		t.Errorf("x = %q, want OK1", got)
	}
}

func TestState_Timeout(t *testing.T) {
	state := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer state.Close()

	err := state.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("DoString() error = %v, want ErrExecutionTimeout", err)
	}
}

func TestState_DoFile(t *testing.T) {
	state, _, tracker := newResolver(t, "func main() {}")

	path := filepath.Join(t.TempDir(), "resolver.lua")
	script := `local s, e = buffer.word_at(6)
require("underline").set(s, e)
`
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	if err := state.DoFile(path); err != nil {
		t.Fatalf("DoFile() error = %v", err)
	}
	if span, ok := tracker.Current(); !ok || span.Text() != "main" {
		t.Errorf("underline = %v, %v; want main", span, ok)
	}
}

func TestState_Closed(t *testing.T) {
	state := NewState()
	if err := state.Close(); err != nil {
		t.Fatal(err)
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !state.IsClosed() {
		t.Error("IsClosed() should be true")
	}
	if err := state.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after Close = %v, want ErrStateClosed", err)
	}
	if !strings.Contains(ErrStateClosed.Error(), "closed") {
		t.Error("unexpected error text")
	}
}
