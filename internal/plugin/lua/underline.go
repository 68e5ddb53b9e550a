package lua

import (
	"unicode"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gotodef/internal/engine/buffer"
	"github.com/dshills/gotodef/internal/renderer/underline"
)

// OpenUnderline installs the "underline" module and the "buffer" global
// in s, bound to buf and tracker.
func OpenUnderline(s *State, buf *buffer.Buffer, tracker *underline.Tracker) {
	s.RegisterModule("underline", map[string]lua.LGFunction{
		"set": func(L *lua.LState) int {
			start := L.CheckInt64(1)
			end := L.CheckInt64(2)
			snap := buf.Snapshot()

			r := buffer.NewRange(start, end)
			if !r.IsValid() || r.End > snap.Len() {
				L.ArgError(1, "range out of bounds")
				return 0
			}
			tracker.SetUnderline(buffer.NewSnapshotSpan(snap, r))
			return 0
		},
		"clear": func(L *lua.LState) int {
			tracker.ClearUnderline()
			return 0
		},
		"current": func(L *lua.LState) int {
			// Offsets are reported on the snapshot the script sees.
			span, ok := tracker.CurrentAt(buf.Snapshot())
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(span.Start()))
			L.Push(lua.LNumber(span.End()))
			return 2
		},
	})

	s.RegisterGlobalModule("buffer", map[string]lua.LGFunction{
		"text": func(L *lua.LState) int {
			L.Push(lua.LString(buf.Text()))
			return 1
		},
		"len": func(L *lua.LState) int {
			L.Push(lua.LNumber(buf.Len()))
			return 1
		},
		"word_at": func(L *lua.LState) int {
			offset := L.CheckInt64(1)
			start, end, ok := WordAt(buf.Text(), offset)
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(start))
			L.Push(lua.LNumber(end))
			return 2
		},
	})
}

// WordAt returns the bounds of the identifier touching offset in text.
// Identifiers are runs of letters, digits and underscores.
func WordAt(text string, offset int64) (start, end int64, ok bool) {
	if offset < 0 || offset > int64(len(text)) {
		return 0, 0, false
	}

	start, end = offset, offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !isIdentRune(r) {
			break
		}
		start -= int64(size)
	}
	for end < int64(len(text)) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !isIdentRune(r) {
			break
		}
		end += int64(size)
	}

	return start, end, start < end
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
