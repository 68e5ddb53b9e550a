// Package lua lets a Lua resolver script drive the go-to-definition
// underline.
//
// A resolver decides what should be underlined (for example, the
// identifier under the mouse) and tells the view through the preloaded
// "underline" module:
//
//	local underline = require("underline")
//	local s, e = buffer.word_at(offset)
//	if s then
//	    underline.set(s, e)
//	else
//	    underline.clear()
//	end
//
// The "buffer" global exposes read-only access to the current text.
// Offsets are zero-based byte offsets into the buffer's current snapshot;
// ranges are half-open.
//
// # State
//
// State wraps a gopher-lua state with only the base, table, string and
// math libraries opened, file loading functions removed, and a per-call
// execution timeout:
//
//	state := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	defer state.Close()
//	lua.OpenUnderline(state, buf, tracker)
//	err := state.DoString(script)
package lua
