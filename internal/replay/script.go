// Package replay runs scripted edit and underline sessions against one view
// and reports every notification, dirty region and tag query result.
//
// A script is YAML:
//
//	text: "x := compute(y)\n"
//	steps:
//	  - op: set
//	    start: 5
//	    end: 12
//	  - op: insert
//	    at: 0
//	    text: "  "
//	  - op: query
//	  - op: lua
//	    code: require("underline").clear()
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Step operations.
const (
	OpInsert = "insert"
	OpDelete = "delete"
	OpSet    = "set"
	OpClear  = "clear"
	OpQuery  = "query"
	OpLua    = "lua"
)

// ErrInvalidScript is wrapped by script validation errors.
var ErrInvalidScript = errors.New("invalid replay script")

// Script is a buffer's initial text and the steps to run against it.
type Script struct {
	Text  string `yaml:"text"`
	Steps []Step `yaml:"steps"`
}

// Step is one scripted action. Which fields apply depends on Op.
type Step struct {
	Op    string `yaml:"op"`
	At    *int64 `yaml:"at,omitempty"`
	Start *int64 `yaml:"start,omitempty"`
	End   *int64 `yaml:"end,omitempty"`
	Text  string `yaml:"text,omitempty"`
	Code  string `yaml:"code,omitempty"`
}

// ParseFile reads a script from path.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a script.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode script: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every step carries the fields its op needs.
func (s *Script) Validate() error {
	var errs []error
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: step %d: %w", ErrInvalidScript, i+1, err))
		}
	}
	return errors.Join(errs...)
}

func (st Step) validate() error {
	switch st.Op {
	case OpInsert:
		if st.At == nil {
			return errors.New("insert needs at")
		}
	case OpDelete, OpSet:
		if st.Start == nil || st.End == nil {
			return fmt.Errorf("%s needs start and end", st.Op)
		}
	case OpQuery:
		if (st.Start == nil) != (st.End == nil) {
			return errors.New("query needs both start and end, or neither")
		}
	case OpClear:
	case OpLua:
		if st.Code == "" {
			return errors.New("lua needs code")
		}
	case "":
		return errors.New("missing op")
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}
