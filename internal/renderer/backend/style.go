// Package backend paints buffer snapshots and their tags onto a tcell
// screen.
package backend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gotodef/internal/renderer/core"
	"github.com/dshills/gotodef/internal/renderer/tagging"
)

// ConvertStyle converts a core style to a tcell style.
func ConvertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		style = style.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		style = style.Background(convertColor(s.Background))
	}

	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attributes.Has(core.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}

	return style
}

func convertColor(c core.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// TagStyle returns the decoration style for tag. Only classification tags
// carry a style.
func TagStyle(tag tagging.Tag) (core.Style, bool) {
	switch t := tag.(type) {
	case tagging.ClassificationTag:
		if t.Type == nil {
			return core.Style{}, false
		}
		return t.Type.Style(), true
	case *tagging.ClassificationTag:
		if t == nil || t.Type == nil {
			return core.Style{}, false
		}
		return t.Type.Style(), true
	default:
		return core.Style{}, false
	}
}
