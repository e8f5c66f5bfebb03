// Package interval implements set operations over half-open time ranges
// [Start, End).
package interval

import (
	"sort"
	"time"
)

type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func New(start, end time.Time) Range {
	return Range{Start: start, End: end}
}

// Valid reports whether the range is non-empty.
func (r Range) Valid() bool {
	return r.End.After(r.Start)
}

func (r Range) Duration() time.Duration {
	if !r.Valid() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// Overlaps uses half-open semantics: touching ranges do not overlap.
func (r Range) Overlaps(o Range) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Contains reports whether o lies entirely inside r.
func (r Range) Contains(o Range) bool {
	return !o.Start.Before(r.Start) && !o.End.After(r.End)
}

// OverlapsAny reports whether r overlaps at least one of the given ranges.
func (r Range) OverlapsAny(others []Range) bool {
	for _, o := range others {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}

// Intersect returns the overlap of a and b. ok is false when the clamped
// range is empty.
func Intersect(a, b Range) (Range, bool) {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !end.After(start) {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// Merge sorts ranges by start and folds overlapping or adjacent ranges into
// a minimal covering set. Invalid ranges are dropped. The input is not
// modified.
func Merge(ranges []Range) []Range {
	sorted := normalize(ranges)
	if len(sorted) == 0 {
		return nil
	}

	out := make([]Range, 0, len(sorted))
	cur := sorted[0]
	for _, r := range sorted[1:] {
		if !r.Start.After(cur.End) {
			if r.End.After(cur.End) {
				cur.End = r.End
			}
			continue
		}
		out = append(out, cur)
		cur = r
	}
	return append(out, cur)
}

// Subtract returns the ordered parts of window not covered by any blocker.
// Blockers need not be merged or sorted.
func Subtract(window Range, blockers []Range) []Range {
	if !window.Valid() {
		return nil
	}

	sorted := normalize(blockers)
	var out []Range

	cursor := window.Start
	for _, b := range sorted {
		if !b.End.After(cursor) {
			continue
		}
		if !b.Start.Before(window.End) {
			break
		}
		if b.Start.After(cursor) {
			out = append(out, Range{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
		if !cursor.Before(window.End) {
			return out
		}
	}

	if window.End.After(cursor) {
		out = append(out, Range{Start: cursor, End: window.End})
	}
	return out
}

func normalize(ranges []Range) []Range {
	out := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Valid() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
