package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gotodef/internal/engine/buffer"
	"github.com/dshills/gotodef/internal/renderer/core"
	"github.com/dshills/gotodef/internal/renderer/dirty"
	"github.com/dshills/gotodef/internal/renderer/tagging"
	"github.com/dshills/gotodef/internal/renderer/underline"
)

func newScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(width, height)
	return screen
}

func newUnderline(t *testing.T) (*underline.Tracker, *tagging.Registry) {
	t.Helper()
	reg := tagging.NewRegistry()
	ct, ok := reg.Lookup(tagging.UnderlineClassification)
	if !ok {
		t.Fatal("underline classification missing")
	}
	return underline.New(tagging.NewClassificationTag(ct)), reg
}

func TestConvertStyle(t *testing.T) {
	tests := []struct {
		name  string
		style core.Style
		want  tcell.Style
	}{
		{"default", core.DefaultStyle(), tcell.StyleDefault},
		{
			"underline blue",
			tagging.DefaultUnderlineStyle(),
			tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 0, 255)).Underline(true),
		},
		{
			"indexed background bold",
			core.Style{Foreground: core.ColorDefault, Background: core.ColorFromIndex(3), Attributes: core.AttrBold},
			tcell.StyleDefault.Background(tcell.PaletteColor(3)).Bold(true),
		},
		{
			"every attribute",
			core.DefaultStyle().WithAttributes(core.AttrBold | core.AttrDim | core.AttrItalic | core.AttrUnderline | core.AttrReverse | core.AttrStrikethrough),
			tcell.StyleDefault.Bold(true).Dim(true).Italic(true).Underline(true).Reverse(true).StrikeThrough(true),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertStyle(tt.style); got != tt.want {
				t.Errorf("ConvertStyle() = %v, want %v", got, tt.want)
			}
		})
	}
}

type plainTag struct{}

func (plainTag) Kind() string { return "plain" }

func TestTagStyle(t *testing.T) {
	reg := tagging.NewRegistry()
	ct, _ := reg.Lookup(tagging.UnderlineClassification)
	tag := tagging.NewClassificationTag(ct)

	if style, ok := TagStyle(tag); !ok || !style.Equals(tagging.DefaultUnderlineStyle()) {
		t.Errorf("TagStyle(classification) = %v, %v", style, ok)
	}
	if _, ok := TagStyle(&tag); !ok {
		t.Error("TagStyle should accept a classification tag pointer")
	}
	if _, ok := TagStyle(plainTag{}); ok {
		t.Error("TagStyle should ignore tags without a classification")
	}
	if _, ok := TagStyle(tagging.ClassificationTag{}); ok {
		t.Error("TagStyle should ignore a classification tag without a type")
	}
}

func TestPaint(t *testing.T) {
	buf := buffer.NewBufferFromString("x := compute(y)\n\tfoo()\n")
	snap := buf.Snapshot()
	tracker, _ := newUnderline(t)
	tracker.SetUnderline(buffer.NewSnapshotSpan(snap, buffer.NewRange(5, 12)))

	screen := newScreen(t, 20, 4)
	NewPainter().Paint(screen, snap, 0, tracker)

	rows := []struct {
		text    string
		markers string
	}{
		{"x := compute(y)", "     ^^^^^^^"},
		{"    foo()", ""},
		{"", ""},
		{"", ""},
	}
	for row, want := range rows {
		if got := RowText(screen, row); got != want.text {
			t.Errorf("row %d text = %q, want %q", row, got, want.text)
		}
		if got := RowMarkers(screen, row, '^'); got != want.markers {
			t.Errorf("row %d markers = %q, want %q", row, got, want.markers)
		}
	}

	_, _, style, _ := screen.GetContent(5, 0)
	want := ConvertStyle(core.DefaultStyle().Merge(tagging.DefaultUnderlineStyle()))
	if style != want {
		t.Errorf("underlined cell style = %v, want %v", style, want)
	}
}

func TestPaint_FollowsEdits(t *testing.T) {
	buf := buffer.NewBufferFromString("x := compute(y)")
	tracker, _ := newUnderline(t)
	tracker.SetUnderline(buffer.NewSnapshotSpan(buf.Snapshot(), buffer.NewRange(5, 12)))

	buf.Insert(0, "  ")

	screen := newScreen(t, 20, 1)
	NewPainter().Paint(screen, buf.Snapshot(), 0, tracker)

	if got := RowMarkers(screen, 0, '^'); got != "       ^^^^^^^" {
		t.Errorf("markers = %q", got)
	}
}

func TestPaint_ScrolledAndClipped(t *testing.T) {
	snap := buffer.NewBufferFromString("one\ntwo\nthree is long\nfour\n").Snapshot()

	screen := newScreen(t, 5, 2)
	NewPainter().Paint(screen, snap, 2, nil)

	if got := RowText(screen, 0); got != "three" {
		t.Errorf("row 0 = %q, want %q", got, "three")
	}
	if got := RowText(screen, 1); got != "four" {
		t.Errorf("row 1 = %q, want %q", got, "four")
	}
}

func TestPaint_Graphemes(t *testing.T) {
	snap := buffer.NewBufferFromString("日本\nété").Snapshot()

	screen := newScreen(t, 3, 2)
	NewPainter().Paint(screen, snap, 0, nil)

	if got := RowText(screen, 0); got != "日" {
		t.Errorf("wide row = %q, want %q", got, "日")
	}
	if got := RowText(screen, 1); got != "été" {
		t.Errorf("accented row = %q", got)
	}
}

func TestPaint_TabWidth(t *testing.T) {
	snap := buffer.NewBufferFromString("a\tb").Snapshot()

	screen := newScreen(t, 10, 1)
	NewPainter(WithTabWidth(8)).Paint(screen, snap, 0, nil)

	if got := RowText(screen, 0); got != "a       b" {
		t.Errorf("row = %q", got)
	}
}

func TestPaintDirty(t *testing.T) {
	buf := buffer.NewBufferFromString("x := compute(y)\nnext()\n")
	snap := buf.Snapshot()
	tracker, _ := newUnderline(t)
	tracker.SetUnderline(buffer.NewSnapshotSpan(snap, buffer.NewRange(5, 12)))

	screen := newScreen(t, 20, 2)
	painter := NewPainter()
	painter.Paint(screen, snap, 0, tracker)

	d := dirty.NewTracker()
	d.Attach(tracker)

	// Row 1 is not dirty, so a stray cell there must survive.
	screen.SetContent(0, 1, 'Z', nil, tcell.StyleDefault)
	tracker.ClearUnderline()

	painter.PaintDirty(screen, snap, 0, tracker, d)

	if got := RowMarkers(screen, 0, '^'); got != "" {
		t.Errorf("row 0 should be repainted without underline, markers = %q", got)
	}
	if got := RowText(screen, 1); got != "Zext()" {
		t.Errorf("row 1 should be untouched, got %q", got)
	}
	if d.IsDirty() {
		t.Error("PaintDirty should clear the dirty tracker")
	}
}

func TestPaint_StyleChange(t *testing.T) {
	snap := buffer.NewBufferFromString("x := compute(y)").Snapshot()
	tracker, reg := newUnderline(t)
	tracker.SetUnderline(buffer.NewSnapshotSpan(snap, buffer.NewRange(5, 12)))

	red := core.NewStyle(core.ColorRed).Underline()
	if _, err := reg.SetStyle(tagging.UnderlineClassification, red); err != nil {
		t.Fatal(err)
	}

	screen := newScreen(t, 20, 1)
	NewPainter().Paint(screen, snap, 0, tracker)

	_, _, style, _ := screen.GetContent(6, 0)
	if style != ConvertStyle(red) {
		t.Errorf("cell style = %v, want %v", style, ConvertStyle(red))
	}
}
