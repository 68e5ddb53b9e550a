package plugin

import "errors"

// Extension discovery errors.
var (
	// ErrExtensionNotFound is returned when an extension cannot be located.
	ErrExtensionNotFound = errors.New("extension not found")

	// ErrNoEntryPoint is returned when an extension has no entry script.
	ErrNoEntryPoint = errors.New("extension has no entry point")

	// ErrInvalidManifest is returned when extension.json is malformed.
	ErrInvalidManifest = errors.New("invalid extension manifest")
)
