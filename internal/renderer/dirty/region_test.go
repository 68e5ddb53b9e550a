package dirty

import (
	"testing"

	"github.com/dshills/gotodef/internal/engine/buffer"
)

func TestNewLineRegion(t *testing.T) {
	t.Run("normal order", func(t *testing.T) {
		r := NewLineRegion(5, 10)
		if r.StartLine != 5 || r.EndLine != 10 {
			t.Errorf("NewLineRegion(5, 10) = {%d, %d}, want {5, 10}", r.StartLine, r.EndLine)
		}
		if !r.FullWidth {
			t.Error("Line region should be full width")
		}
	})

	t.Run("reversed order", func(t *testing.T) {
		r := NewLineRegion(10, 5)
		if r.StartLine != 5 || r.EndLine != 10 {
			t.Errorf("NewLineRegion(10, 5) = {%d, %d}, want {5, 10}", r.StartLine, r.EndLine)
		}
	})
}

func TestNewColumnRegion(t *testing.T) {
	r := NewColumnRegion(3, 9, 4)
	if r.StartCol != 4 || r.EndCol != 9 {
		t.Errorf("columns = %d-%d, want 4-9", r.StartCol, r.EndCol)
	}
	if r.FullWidth {
		t.Error("column region should not be full width")
	}
	if r.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", r.LineCount())
	}
}

func TestRegion_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		region Region
		want   bool
	}{
		{"line region", NewLineRegion(2, 2), false},
		{"column region", NewColumnRegion(2, 1, 3), false},
		{"empty columns", NewColumnRegion(2, 3, 3), true},
		{"inverted lines", Region{StartLine: 2, EndLine: 1, FullWidth: true}, true},
	}

	for _, tt := range tests {
		if got := tt.region.IsEmpty(); got != tt.want {
			t.Errorf("%s: IsEmpty() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRegion_Merge(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Region
		want   Region
		wantOK bool
	}{
		{"adjacent lines", NewLineRegion(1, 2), NewLineRegion(3, 4), NewLineRegion(1, 4), true},
		{"overlapping lines", NewLineRegion(1, 5), NewLineRegion(3, 8), NewLineRegion(1, 8), true},
		{"distant lines", NewLineRegion(1, 2), NewLineRegion(5, 6), Region{}, false},
		{"touching columns", NewColumnRegion(0, 2, 4), NewColumnRegion(0, 4, 6), NewColumnRegion(0, 2, 6), true},
		{"overlapping columns", NewColumnRegion(0, 2, 5), NewColumnRegion(0, 4, 9), NewColumnRegion(0, 2, 9), true},
		{"gap in columns", NewColumnRegion(0, 2, 4), NewColumnRegion(0, 6, 8), Region{}, false},
		{"columns on other lines", NewColumnRegion(0, 2, 4), NewColumnRegion(1, 2, 4), Region{}, false},
		{"column inside lines", NewColumnRegion(3, 2, 4), NewLineRegion(2, 4), NewLineRegion(2, 4), true},
		{"column next to lines", NewColumnRegion(5, 2, 4), NewLineRegion(2, 4), Region{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Merge(tt.b)
			if ok != tt.wantOK {
				t.Fatalf("Merge() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Merge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanRegion(t *testing.T) {
	snap := buffer.NewBufferFromString("package main\n\nfunc main() {\n}\n").Snapshot()

	tests := []struct {
		name  string
		span  buffer.Range
		want  Region
		empty bool
	}{
		{"within a line", buffer.NewRange(8, 12), NewColumnRegion(0, 8, 12), false},
		{"later line", buffer.NewRange(19, 23), NewColumnRegion(2, 5, 9), false},
		{"across lines", buffer.NewRange(8, 20), NewLineRegion(0, 2), false},
		{"empty", buffer.NewRange(8, 8), Region{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpanRegion(buffer.NewSnapshotSpan(snap, tt.span))
			if tt.empty {
				if !got.IsEmpty() {
					t.Errorf("SpanRegion() = %v, want empty", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("SpanRegion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegion_String(t *testing.T) {
	tests := []struct {
		region Region
		want   string
	}{
		{NewLineRegion(3, 3), "3"},
		{NewLineRegion(3, 5), "3-5"},
		{NewColumnRegion(3, 4, 9), "3:4-9"},
	}

	for _, tt := range tests {
		if got := tt.region.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
