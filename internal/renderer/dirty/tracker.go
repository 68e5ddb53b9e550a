package dirty

import (
	"cmp"
	"slices"
	"sync"

	"github.com/dshills/gotodef/internal/engine/buffer"
	"github.com/dshills/gotodef/internal/renderer/tagging"
)

// DefaultMaxRegions is the region count above which a tracker gives up on
// incremental redraw.
const DefaultMaxRegions = 32

// Tracker collects dirty regions and coalesces them for rendering.
// All methods are safe for concurrent use.
type Tracker struct {
	mu sync.RWMutex

	regions    []Region
	fullRedraw bool
	maxRegions int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		regions:    make([]Region, 0, 16),
		maxRegions: DefaultMaxRegions,
	}
}

// SetMaxRegions sets the maximum number of regions before forcing full redraw.
// Values less than 1 are clamped to 1.
func (t *Tracker) SetMaxRegions(maxRegs int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.maxRegions = max(maxRegs, 1)
}

// MarkFullRedraw marks the whole document as needing redraw.
func (t *Tracker) MarkFullRedraw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fullRedraw = true
	t.regions = t.regions[:0]
}

// MarkLines marks a range of lines as dirty.
func (t *Tracker) MarkLines(startLine, endLine uint32) {
	t.MarkRegion(NewLineRegion(startLine, endLine))
}

// MarkSpan marks the text covered by span as dirty.
func (t *Tracker) MarkSpan(span buffer.SnapshotSpan) {
	if span.Snapshot == nil || span.IsEmpty() {
		return
	}
	t.MarkRegion(SpanRegion(span))
}

// MarkRegion marks region as dirty.
func (t *Tracker) MarkRegion(region Region) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fullRedraw || region.IsEmpty() {
		return
	}

	for i := range t.regions {
		if merged, ok := t.regions[i].Merge(region); ok {
			t.regions[i] = merged
			t.coalesce()
			return
		}
	}

	t.regions = append(t.regions, region)
	if len(t.regions) > t.maxRegions {
		t.coalesce()
	}
	if len(t.regions) > t.maxRegions {
		t.fullRedraw = true
		t.regions = t.regions[:0]
	}
}

// Attach marks every change announced by tagger. The returned function
// stops listening.
func (t *Tracker) Attach(tagger tagging.Tagger) (detach func()) {
	return tagger.Subscribe(func(c tagging.SpanChange) {
		t.MarkSpan(c.Span)
	})
}

// coalesce merges overlapping or adjacent regions until none remain.
func (t *Tracker) coalesce() {
	for changed := true; changed; {
		changed = false
	outer:
		for i := 0; i < len(t.regions); i++ {
			for j := i + 1; j < len(t.regions); j++ {
				if merged, ok := t.regions[i].Merge(t.regions[j]); ok {
					t.regions[i] = merged
					t.regions = slices.Delete(t.regions, j, j+1)
					changed = true
					break outer
				}
			}
		}
	}
}

// IsDirty returns true if anything needs redrawing.
func (t *Tracker) IsDirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fullRedraw || len(t.regions) > 0
}

// NeedsFullRedraw returns true if incremental redraw was abandoned.
func (t *Tracker) NeedsFullRedraw() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fullRedraw
}

// Regions returns the dirty regions ordered by position.
// It returns nil when a full redraw is needed.
func (t *Tracker) Regions() []Region {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.fullRedraw {
		return nil
	}

	result := slices.Clone(t.regions)
	slices.SortFunc(result, func(a, b Region) int {
		if c := cmp.Compare(a.StartLine, b.StartLine); c != 0 {
			return c
		}
		return cmp.Compare(a.StartCol, b.StartCol)
	})
	return result
}

// IsLineDirty returns true if the given line needs redrawing.
func (t *Tracker) IsLineDirty(line uint32) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.fullRedraw {
		return true
	}
	for _, r := range t.regions {
		if r.ContainsLine(line) {
			return true
		}
	}
	return false
}

// Clear forgets all dirty regions.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.regions = t.regions[:0]
	t.fullRedraw = false
}
