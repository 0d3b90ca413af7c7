package render

import (
	"nvtui/internal/attr"
	"nvtui/internal/termcap"
	"nvtui/internal/ugrid"
)

// Scroll implements spec.md §4.3's scroll algorithm: prefer a hardware
// scroll (delete_line/insert_line inside a scroll region) over marking
// the region dirty for a full repaint.
func (r *Renderer) Scroll(n int) {
	if n == 0 {
		return
	}

	g := r.grid
	hasMargins := g.Left == 0 && g.Right == g.Width-1 ||
		r.term.Caps.Has(termcap.CapSetLRMargin) ||
		(r.term.Caps.Has(termcap.CapSetLeftMarginParm) && r.term.Caps.Has(termcap.CapSetRightMarginParm))

	usable := r.fullScreen || (r.term.Caps.Has(termcap.CapChangeScrollRegion) && hasMargins)

	if !usable {
		g.Scroll(n)
		r.dirty.Mark(ugrid.Rect{Top: g.Top, Bot: g.Bot, Left: g.Left, Right: g.Right})
		return
	}

	freshlyBlank := g.Scroll(n)
	r.emitHardwareScroll(n, freshlyBlank)
}

func (r *Renderer) emitHardwareScroll(n int, freshlyBlank ugrid.Rect) {
	g := r.grid
	term := r.term

	if !r.fullScreen {
		if seq := term.Format(termcap.CapChangeScrollRegion, g.Top, g.Bot); seq != nil {
			r.out.Out(seq)
		}
	}

	marginsNonDefault := g.Left != 0 || g.Right != g.Width-1
	if marginsNonDefault {
		if seq := term.Format(termcap.CapEnableLRMargin); seq != nil {
			r.out.Out(seq)
		}
		if seq := term.Format(termcap.CapSetLRMargin, g.Left, g.Right); seq != nil {
			r.out.Out(seq)
		} else {
			r.out.Out(term.Format(termcap.CapSetLeftMarginParm, g.Left))
			r.out.Out(term.Format(termcap.CapSetRightMarginParm, g.Right))
		}
	}

	r.emitCursorAddress(g.Top, g.Left)
	r.contiguous = false

	bce := term.Bools.Has(termcap.CapBackColorErase)
	if bce {
		r.emitPen(attr.Attr{Fg: g.Fg, Bg: g.Bg, Sp: attr.DefaultColor})
	}

	count := n
	if count < 0 {
		count = -count
	}

	if n > 0 {
		if seq := term.Format(termcap.CapParmDeleteLine, count); seq != nil {
			r.out.Out(seq)
		} else {
			for i := 0; i < count; i++ {
				r.out.Out(term.Format(termcap.CapDeleteLine))
			}
		}
	} else {
		if seq := term.Format(termcap.CapParmInsertLine, count); seq != nil {
			r.out.Out(seq)
		} else {
			for i := 0; i < count; i++ {
				r.out.Out(term.Format(termcap.CapInsertLine))
			}
		}
	}

	if !bce {
		r.dirty.Mark(freshlyBlank)
	}

	if marginsNonDefault {
		r.out.Out(term.Format(termcap.CapSetLRMargin, 0, g.Width-1))
		if seq := term.Format(termcap.CapDisableLRMargin); seq != nil {
			r.out.Out(seq)
		}
	}
	if !r.fullScreen {
		if seq := term.Format(termcap.CapResetScrollRegion); seq != nil {
			r.out.Out(seq)
		} else {
			r.out.Out(term.Format(termcap.CapChangeScrollRegion, 0, g.Height-1))
		}
	}

	r.emitCursorAddress(g.Row, g.Col)
	r.contiguous = false
}
