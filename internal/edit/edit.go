// Package edit provides offset-based text edits and the write boundary
// used to mutate Java source files.
package edit

import (
	"fmt"
	"sort"
)

// TextEdit represents a single text replacement in a file.
// Start and End are byte offsets; Start == End inserts without replacing.
type TextEdit struct {
	Start   int
	End     int
	NewText string
}

// Apply applies a set of non-overlapping edits to source and returns the
// resulting text. The input slice is not modified. Returns an error when
// an edit falls outside the source or two edits overlap.
func Apply(source []byte, edits []TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(source) {
			return nil, fmt.Errorf("edit [%d,%d) out of range for %d-byte source", e.Start, e.End, len(source))
		}
		if i > 0 && e.Start < sorted[i-1].End {
			return nil, fmt.Errorf("overlapping edits at offset %d", e.Start)
		}
	}

	var out []byte
	prev := 0
	for _, e := range sorted {
		out = append(out, source[prev:e.Start]...)
		out = append(out, e.NewText...)
		prev = e.End
	}
	out = append(out, source[prev:]...)
	return out, nil
}
