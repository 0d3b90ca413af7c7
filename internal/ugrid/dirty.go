package ugrid

// DirtyList tracks the set of rectangles whose cells disagree with what
// the terminal currently displays. Any two rectangles that touch or
// overlap are coalesced into their union at insert time, so the list is
// always pairwise-disjoint and non-touching.
type DirtyList struct {
	rects []Rect
}

// Mark inserts r into the list, merging it with any rectangle it
// touches or overlaps (possibly repeatedly, since a union can newly
// touch a rectangle it didn't touch before).
func (d *DirtyList) Mark(r Rect) {
	if r.Empty() {
		return
	}
	for {
		merged := false
		out := d.rects[:0]
		for _, existing := range d.rects {
			if touches(existing, r) {
				r = union(existing, r)
				merged = true
				continue
			}
			out = append(out, existing)
		}
		d.rects = out
		if !merged {
			d.rects = append(d.rects, r)
			return
		}
	}
}

// Rects returns the current disjoint rectangle set. Callers must not
// mutate the returned slice.
func (d *DirtyList) Rects() []Rect { return d.rects }

// Clear empties the list, as happens after every flush.
func (d *DirtyList) Clear() { d.rects = d.rects[:0] }

// Empty reports whether there is nothing to repaint.
func (d *DirtyList) Empty() bool { return len(d.rects) == 0 }

// touches reports whether two inclusive rectangles overlap or share an
// edge (touching rectangles must be coalesced, not just overlapping
// ones, per spec.md's dirty-rect invariant).
func touches(a, b Rect) bool {
	return a.Left <= b.Right+1 && b.Left <= a.Right+1 &&
		a.Top <= b.Bot+1 && b.Top <= a.Bot+1
}

func union(a, b Rect) Rect {
	return Rect{
		Top:   min(a.Top, b.Top),
		Bot:   max(a.Bot, b.Bot),
		Left:  min(a.Left, b.Left),
		Right: max(a.Right, b.Right),
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
