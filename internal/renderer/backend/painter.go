package backend

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/gotodef/internal/engine/buffer"
	"github.com/dshills/gotodef/internal/renderer/core"
	"github.com/dshills/gotodef/internal/renderer/dirty"
	"github.com/dshills/gotodef/internal/renderer/tagging"
)

// DefaultTabWidth is the number of cells a tab advances to.
const DefaultTabWidth = 4

// Painter draws snapshot lines onto a screen, one document line per row,
// layering tag styles over the base style.
type Painter struct {
	base     core.Style
	tabWidth int
}

// PainterOption configures a Painter.
type PainterOption func(*Painter)

// WithBaseStyle sets the style of undecorated text.
func WithBaseStyle(style core.Style) PainterOption {
	return func(p *Painter) {
		p.base = style
	}
}

// WithTabWidth sets the tab width. Values below 1 are ignored.
func WithTabWidth(width int) PainterOption {
	return func(p *Painter) {
		if width > 0 {
			p.tabWidth = width
		}
	}
}

// NewPainter creates a painter.
func NewPainter(opts ...PainterOption) *Painter {
	p := &Painter{
		base:     core.DefaultStyle(),
		tabWidth: DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// styledRange is a decorated byte range with its resolved style.
type styledRange struct {
	r     buffer.Range
	style core.Style
}

// Paint redraws every row of screen with the lines starting at firstLine.
// tagger may be nil.
func (p *Painter) Paint(screen tcell.Screen, snap *buffer.Snapshot, firstLine uint32, tagger tagging.Tagger) {
	p.paint(screen, snap, firstLine, tagger, func(uint32) bool { return true })
}

// PaintDirty redraws only the rows whose lines d reports dirty, then
// clears d.
func (p *Painter) PaintDirty(screen tcell.Screen, snap *buffer.Snapshot, firstLine uint32, tagger tagging.Tagger, d *dirty.Tracker) {
	if !d.IsDirty() {
		return
	}
	p.paint(screen, snap, firstLine, tagger, d.IsLineDirty)
	d.Clear()
}

func (p *Painter) paint(screen tcell.Screen, snap *buffer.Snapshot, firstLine uint32, tagger tagging.Tagger, want func(uint32) bool) {
	width, height := screen.Size()
	if width <= 0 || height <= 0 {
		return
	}

	decorations := p.decorations(snap, firstLine, uint32(height), tagger)

	for row := range height {
		line := firstLine + uint32(row)
		if !want(line) {
			continue
		}
		p.clearRow(screen, row, width)
		if line < snap.LineCount() {
			p.paintLine(screen, snap, line, row, width, decorations)
		}
	}
}

// decorations collects the styled tag ranges over the visible lines.
func (p *Painter) decorations(snap *buffer.Snapshot, firstLine, rows uint32, tagger tagging.Tagger) []styledRange {
	if tagger == nil || firstLine >= snap.LineCount() {
		return nil
	}

	lastLine := min(firstLine+rows, snap.LineCount()) - 1
	visible := buffer.NewRange(snap.LineStartOffset(firstLine), snap.LineEndOffset(lastLine))

	var out []styledRange
	for ts := range tagger.Tags(buffer.NewNormalizedSpans(snap, visible)) {
		style, ok := TagStyle(ts.Tag)
		if !ok {
			continue
		}
		out = append(out, styledRange{r: ts.Span.Range, style: style})
	}
	return out
}

func (p *Painter) clearRow(screen tcell.Screen, row, width int) {
	style := ConvertStyle(p.base)
	for x := range width {
		screen.SetContent(x, row, ' ', nil, style)
	}
}

func (p *Painter) paintLine(screen tcell.Screen, snap *buffer.Snapshot, line uint32, row, width int, decorations []styledRange) {
	text := snap.LineText(line)
	offset := snap.LineStartOffset(line)

	x := 0
	state := -1
	for len(text) > 0 && x < width {
		var cluster string
		var w int
		cluster, text, w, state = uniseg.FirstGraphemeClusterInString(text, state)

		style := ConvertStyle(p.styleAt(offset, decorations))

		if cluster == "\t" {
			next := (x/p.tabWidth + 1) * p.tabWidth
			for ; x < next && x < width; x++ {
				screen.SetContent(x, row, ' ', nil, style)
			}
		} else if w > 0 && x+w <= width {
			runes := []rune(cluster)
			screen.SetContent(x, row, runes[0], runes[1:], style)
			x += w
		} else if w > 0 {
			break
		}

		offset += buffer.ByteOffset(len(cluster))
	}
}

// styleAt layers every decoration covering offset over the base style.
func (p *Painter) styleAt(offset buffer.ByteOffset, decorations []styledRange) core.Style {
	style := p.base
	for _, d := range decorations {
		if d.r.Contains(offset) {
			style = style.Merge(d.style)
		}
	}
	return style
}

// RowText returns the characters painted on row, with trailing blanks
// trimmed.
func RowText(screen tcell.Screen, row int) string {
	width, _ := screen.Size()

	var sb strings.Builder
	for x := 0; x < width; {
		primary, combining, _, w := screen.GetContent(x, row)
		if primary == 0 {
			primary = ' '
		}
		sb.WriteRune(primary)
		for _, r := range combining {
			sb.WriteRune(r)
		}
		x += max(w, 1)
	}
	return strings.TrimRight(sb.String(), " ")
}

// RowMarkers returns a string with marker under every cell of row whose
// style has an underline, and a space elsewhere. Trailing blanks are trimmed.
func RowMarkers(screen tcell.Screen, row int, marker rune) string {
	width, _ := screen.Size()

	var sb strings.Builder
	for x := 0; x < width; {
		_, _, style, w := screen.GetContent(x, row)
		w = max(w, 1)
		r := ' '
		if isUnderlined(style) {
			r = marker
		}
		for range w {
			sb.WriteRune(r)
		}
		x += w
	}
	return strings.TrimRight(sb.String(), " ")
}

func isUnderlined(style tcell.Style) bool {
	return style.Underline(false) != style
}
