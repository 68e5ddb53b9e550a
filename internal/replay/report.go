package replay

import (
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/gotodef/internal/engine/buffer"
)

// Report is the outcome of a script run.
type Report struct {
	Text  string
	Steps []StepResult
	// Final is the underline on the last snapshot, if any.
	Final *Span
}

// StepResult records what one step caused.
type StepResult struct {
	Index   int
	Op      string
	Version int

	// Notifications are the change notifications raised, in order.
	Notifications []Span
	// Dirty are the redraw regions the notifications produced.
	Dirty      []string
	FullRedraw bool
	// Tags are the query results, for query steps.
	Tags []Span
}

// Span is a reported snapshot span.
type Span struct {
	Start int64
	End   int64
	Text  string
	Kind  string
}

func newSpan(s buffer.SnapshotSpan) Span {
	return Span{Start: s.Start(), End: s.End(), Text: s.Text()}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d:%d) %q", s.Start, s.End, s.Text)
}

// WriteText writes a human-readable report.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder

	for _, st := range r.Steps {
		fmt.Fprintf(&sb, "#%d %s (v%d)\n", st.Index, st.Op, st.Version)
		for _, n := range st.Notifications {
			fmt.Fprintf(&sb, "  notify %s\n", n)
		}
		if st.FullRedraw {
			sb.WriteString("  dirty  full\n")
		} else if len(st.Dirty) > 0 {
			fmt.Fprintf(&sb, "  dirty  %s\n", strings.Join(st.Dirty, " "))
		}
		if st.Op == OpQuery {
			if len(st.Tags) == 0 {
				sb.WriteString("  tags   none\n")
			}
			for _, t := range st.Tags {
				fmt.Fprintf(&sb, "  tag    %s %s\n", t, t.Kind)
			}
		}
	}

	if r.Final != nil {
		fmt.Fprintf(&sb, "final %s\n", r.Final)
	} else {
		sb.WriteString("final none\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// JSON encodes the report. Pretty output is indented for terminals.
func (r *Report) JSON(indent bool) ([]byte, error) {
	doc := []byte(`{"steps":[]}`)

	set := func(path string, value any) error {
		var err error
		doc, err = sjson.SetBytes(doc, path, value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		return nil
	}
	setSpan := func(path string, s Span) error {
		if err := set(path+".start", s.Start); err != nil {
			return err
		}
		if err := set(path+".end", s.End); err != nil {
			return err
		}
		if err := set(path+".text", s.Text); err != nil {
			return err
		}
		if s.Kind != "" {
			return set(path+".kind", s.Kind)
		}
		return nil
	}
	setSpans := func(path string, spans []Span) error {
		if err := set(path, []any{}); err != nil {
			return err
		}
		for i, s := range spans {
			if err := setSpan(fmt.Sprintf("%s.%d", path, i), s); err != nil {
				return err
			}
		}
		return nil
	}

	for i, st := range r.Steps {
		p := fmt.Sprintf("steps.%d", i)
		if err := set(p+".index", st.Index); err != nil {
			return nil, err
		}
		if err := set(p+".op", st.Op); err != nil {
			return nil, err
		}
		if err := set(p+".version", st.Version); err != nil {
			return nil, err
		}
		if err := setSpans(p+".notifications", st.Notifications); err != nil {
			return nil, err
		}
		dirty := st.Dirty
		if st.FullRedraw {
			dirty = []string{"full"}
		}
		if dirty == nil {
			dirty = []string{}
		}
		if err := set(p+".dirty", dirty); err != nil {
			return nil, err
		}
		if st.Op == OpQuery {
			if err := setSpans(p+".tags", st.Tags); err != nil {
				return nil, err
			}
		}
	}

	if r.Final == nil {
		if err := set("final", nil); err != nil {
			return nil, err
		}
	} else if err := setSpan("final", *r.Final); err != nil {
		return nil, err
	}

	if indent {
		return pretty.Pretty(doc), nil
	}
	return pretty.Ugly(doc), nil
}
