// Package plugin discovers installed extensions.
//
// An extension is either a single Lua file or a directory holding an entry
// script (init.lua by default) and an optional extension.json manifest:
//
//	{"name": "GoToDef", "version": "1.0.0", "main": "resolve.lua"}
//
// Extensions are searched for in ~/.config/gotodef/extensions and
// ./.gotodef/extensions. The Catalog answers whether a named extension is
// installed; the view layer uses this to stand down when another
// go-to-definition extension owns the underline. Entry scripts run through
// package plugin/lua.
package plugin
