// Package rewrite applies text edits to C# source files.
package rewrite

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"contractfix/internal/syntax"
)

// ErrOverlappingEdits is returned when two edits touch the same bytes.
var ErrOverlappingEdits = errors.New("overlapping edits")

// Edit replaces the bytes [Start, End) with NewText. Start == End is an insertion.
type Edit struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	NewText string `json:"new_text"`
}

func (e Edit) String() string {
	return fmt.Sprintf("[%d,%d)=%q", e.Start, e.End, e.NewText)
}

// Insert inserts text at pos.
func Insert(pos int, text string) Edit {
	return Edit{Start: pos, End: pos, NewText: text}
}

// Replace replaces the text of n.
func Replace(n *syntax.Node, text string) Edit {
	return Edit{Start: n.Start, End: n.End, NewText: text}
}

// DeleteNode removes n. When n is alone on its lines, the lines go too.
func DeleteNode(n *syntax.Node) Edit {
	start, end := n.Start, n.End
	if n.File == nil {
		return Edit{Start: start, End: end}
	}
	src := n.File.Source

	lineStart := start
	for lineStart > 0 && (src[lineStart-1] == ' ' || src[lineStart-1] == '\t') {
		lineStart--
	}
	lineEnd := end
	for lineEnd < len(src) && (src[lineEnd] == ' ' || src[lineEnd] == '\t') {
		lineEnd++
	}
	if (lineStart == 0 || src[lineStart-1] == '\n') && (lineEnd == len(src) || src[lineEnd] == '\n' || src[lineEnd] == '\r') {
		start = lineStart
		end = lineEnd
		if end < len(src) && src[end] == '\r' {
			end++
		}
		if end < len(src) && src[end] == '\n' {
			end++
		}
	}
	return Edit{Start: start, End: end}
}

// Normalize sorts edits by position and drops exact duplicates, which arise when
// several fixes add the same using directive.
func Normalize(edits []Edit) []Edit {
	out := make([]Edit, len(edits))
	copy(out, edits)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	deduped := out[:0]
	for i, e := range out {
		if i > 0 && e == deduped[len(deduped)-1] {
			continue
		}
		deduped = append(deduped, e)
	}
	return deduped
}

// Validate checks that no two edits overlap. Insertions at the same position are allowed.
func Validate(edits []Edit) error {
	sorted := Normalize(edits)
	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start {
			return fmt.Errorf("invalid edit %s", e)
		}
		if i > 0 && sorted[i-1].End > e.Start {
			return fmt.Errorf("%w: %s and %s", ErrOverlappingEdits, sorted[i-1], e)
		}
	}
	return nil
}

// Overlaps reports whether any edit of b overlaps an edit of a.
func Overlaps(a, b []Edit) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				continue
			}
			if x.Start < y.End && y.Start < x.End {
				return true
			}
			// an insertion strictly inside a replaced range
			if x.Start == x.End && y.Start < x.Start && x.Start < y.End {
				return true
			}
			if y.Start == y.End && x.Start < y.Start && y.Start < x.End {
				return true
			}
		}
	}
	return false
}

// Apply applies edits to src and returns the new content.
func Apply(src []byte, edits []Edit) ([]byte, error) {
	if err := Validate(edits); err != nil {
		return nil, err
	}
	sorted := Normalize(edits)

	var b strings.Builder
	b.Grow(len(src))
	pos := 0
	for _, e := range sorted {
		if e.End > len(src) {
			return nil, fmt.Errorf("edit %s is outside the source (%d bytes)", e, len(src))
		}
		b.Write(src[pos:e.Start])
		b.WriteString(e.NewText)
		pos = e.End
	}
	b.Write(src[pos:])
	return []byte(b.String()), nil
}
