// Package loader decodes configuration files and environment overrides
// into typed configuration structs.
//
// The file format is chosen by extension: ".toml" files are decoded with
// go-toml, ".yaml" and ".yml" files with yaml.v3.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file format.
type Format int

const (
	// FormatUnknown is returned for unrecognised extensions.
	FormatUnknown Format = iota
	// FormatTOML is the default format.
	FormatTOML
	// FormatYAML is used for .yaml and .yml files.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ErrUnknownFormat is returned when a file extension has no decoder.
var ErrUnknownFormat = errors.New("unknown config format")

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// DecodeFile decodes the file at path into v.
// It reports false without error when the file does not exist, so callers
// can fall back to defaults.
func DecodeFile(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading config file %s: %w", path, err)
	}

	format := FormatOf(path)
	if format == FormatUnknown {
		return false, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}

	if err := Decode(path, format, data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Decode decodes data in the given format into v. source names the data
// in error messages.
func Decode(source string, format Format, data []byte, v any) error {
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return tomlParseError(source, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return yamlParseError(source, err)
		}
	default:
		return fmt.Errorf("%s: %w", source, ErrUnknownFormat)
	}
	return nil
}

// ApplyEnv overrides fields of v from environment variables named with
// prefix, following the envconfig tags on v.
func ApplyEnv(prefix string, v any) error {
	if err := envconfig.Process(prefix, v); err != nil {
		return fmt.Errorf("reading %s_* environment: %w", prefix, err)
	}
	return nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func tomlParseError(source string, err error) error {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		pe.Line, pe.Column = decodeErr.Position()
	}

	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) && len(strictErr.Errors) > 0 {
		first := strictErr.Errors[0]
		pe.Line, pe.Column = first.Position()
		pe.Message = fmt.Sprintf("unknown key %q", strings.Join(first.Key(), "."))
	}

	return pe
}

func yamlParseError(source string, err error) error {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		pe.Message = typeErr.Errors[0]
	}

	return pe
}
