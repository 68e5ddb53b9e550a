// Package config provides gotodef configuration.
//
// Configuration is read from a TOML or YAML file, then overridden from
// GOTODEF_* environment variables. A missing file is not an error.
//
//	[underline]
//	classification = "UnderlineClassification"
//	foreground = "#0000FF"
//	attributes = ["underline"]
//	tracking = "edge-inclusive"
//
//	[logging]
//	level = "info"
//	format = "console"
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/gotodef/internal/config/loader"
	"github.com/dshills/gotodef/internal/engine/buffer"
	"github.com/dshills/gotodef/internal/renderer/core"
	"github.com/dshills/gotodef/internal/renderer/tagging"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "GOTODEF"

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// ErrInvalid is wrapped by all validation errors.
var ErrInvalid = errors.New("invalid config")

// Config is the complete gotodef configuration.
type Config struct {
	Underline UnderlineConfig `toml:"underline" yaml:"underline" envconfig:"UNDERLINE"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging" envconfig:"LOG"`
}

// UnderlineConfig declares how the go-to-definition underline looks and
// how it follows edits.
type UnderlineConfig struct {
	// Classification is the format name the underline is registered under.
	Classification string `toml:"classification" yaml:"classification" envconfig:"CLASSIFICATION"`

	// Foreground is a hex color; empty keeps the terminal default.
	Foreground string `toml:"foreground" yaml:"foreground" envconfig:"FOREGROUND"`

	// Background is a hex color; empty keeps the terminal default.
	Background string `toml:"background" yaml:"background" envconfig:"BACKGROUND"`

	// Attributes are text attribute names such as "underline" or "bold".
	Attributes []string `toml:"attributes" yaml:"attributes" envconfig:"ATTRIBUTES"`

	// Tracking is the edge tracking mode name, e.g. "edge-inclusive".
	Tracking string `toml:"tracking" yaml:"tracking" envconfig:"TRACKING"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level" envconfig:"LEVEL"`
	Format string `toml:"format" yaml:"format" envconfig:"FORMAT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Underline: UnderlineConfig{
			Classification: tagging.UnderlineClassification,
			Foreground:     "#0000FF",
			Attributes:     []string{"underline"},
			Tracking:       buffer.EdgeInclusive.String(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: LogFormatConsole,
		},
	}
}

// Load reads the file at path over the defaults and applies environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := loader.DecodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := loader.ApplyEnv(EnvPrefix, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidLogLevel reports whether name is a level the logger understands.
// An empty name means info.
func ValidLogLevel(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "disabled", "off", "none":
		return true
	}
	return false
}

// Validate checks that every value can be interpreted.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Underline.Classification) == "" {
		errs = append(errs, fmt.Errorf("%w: underline.classification is empty", ErrInvalid))
	}
	if _, err := c.UnderlineStyle(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.TrackingMode(); err != nil {
		errs = append(errs, err)
	}

	if !ValidLogLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level))
	}

	switch c.Logging.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format))
	}

	return errors.Join(errs...)
}

// UnderlineStyle returns the decoration style described by the underline
// section.
func (c Config) UnderlineStyle() (core.Style, error) {
	style := core.DefaultStyle()

	if c.Underline.Foreground != "" {
		fg, err := core.ColorFromHex(c.Underline.Foreground)
		if err != nil {
			return core.Style{}, fmt.Errorf("%w: underline.foreground: %w", ErrInvalid, err)
		}
		style.Foreground = fg
	}

	if c.Underline.Background != "" {
		bg, err := core.ColorFromHex(c.Underline.Background)
		if err != nil {
			return core.Style{}, fmt.Errorf("%w: underline.background: %w", ErrInvalid, err)
		}
		style.Background = bg
	}

	attrs, err := core.ParseAttributes(c.Underline.Attributes)
	if err != nil {
		return core.Style{}, fmt.Errorf("%w: underline.attributes: %w", ErrInvalid, err)
	}
	style.Attributes = attrs

	return style, nil
}

// TrackingMode returns the parsed underline tracking mode.
func (c Config) TrackingMode() (buffer.TrackingMode, error) {
	mode, ok := buffer.ParseTrackingMode(c.Underline.Tracking)
	if !ok {
		return 0, fmt.Errorf("%w: underline.tracking %q", ErrInvalid, c.Underline.Tracking)
	}
	return mode, nil
}

// Apply registers or restyles the underline classification in reg.
// It reports whether the registry changed.
func (c Config) Apply(reg *tagging.Registry) (bool, error) {
	style, err := c.UnderlineStyle()
	if err != nil {
		return false, err
	}

	name := c.Underline.Classification
	if _, ok := reg.Lookup(name); !ok {
		if _, err := reg.Register(name, style); err != nil {
			return false, err
		}
		return true, nil
	}

	return reg.SetStyle(name, style)
}
