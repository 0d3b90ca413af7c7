package ugrid

import "testing"

func TestDirtyListCoalescesTouchingRects(t *testing.T) {
	var d DirtyList
	d.Mark(Rect{Top: 0, Bot: 0, Left: 0, Right: 3})
	d.Mark(Rect{Top: 0, Bot: 0, Left: 4, Right: 7}) // touches (adjacent column)

	rects := d.Rects()
	if len(rects) != 1 {
		t.Fatalf("expected coalesced single rect, got %v", rects)
	}
	if rects[0] != (Rect{Top: 0, Bot: 0, Left: 0, Right: 7}) {
		t.Fatalf("unexpected union: %+v", rects[0])
	}
}

func TestDirtyListKeepsDisjointRectsSeparate(t *testing.T) {
	var d DirtyList
	d.Mark(Rect{Top: 0, Bot: 0, Left: 0, Right: 1})
	d.Mark(Rect{Top: 5, Bot: 5, Left: 0, Right: 1})

	if len(d.Rects()) != 2 {
		t.Fatalf("expected two disjoint rects, got %v", d.Rects())
	}
}

func TestDirtyListChainedMerge(t *testing.T) {
	var d DirtyList
	d.Mark(Rect{Top: 0, Bot: 0, Left: 0, Right: 0})
	d.Mark(Rect{Top: 0, Bot: 0, Left: 2, Right: 2})
	// bridges the two previous rects into one.
	d.Mark(Rect{Top: 0, Bot: 0, Left: 1, Right: 1})

	rects := d.Rects()
	if len(rects) != 1 || rects[0] != (Rect{Top: 0, Bot: 0, Left: 0, Right: 2}) {
		t.Fatalf("expected single merged rect, got %v", rects)
	}
}

func TestDirtyListClear(t *testing.T) {
	var d DirtyList
	d.Mark(Rect{Top: 0, Bot: 0, Left: 0, Right: 0})
	d.Clear()
	if !d.Empty() {
		t.Fatalf("expected empty after Clear")
	}
}
