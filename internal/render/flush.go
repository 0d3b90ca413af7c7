package render

import (
	"nvtui/internal/termcap"
	"nvtui/internal/ugrid"
)

// Flush walks the dirty-rect list and emits the minimal repaint, then
// moves the cursor to the grid's logical position, appends the
// cursor-visibility postfix unless busy, and writes the buffer out.
func (r *Renderer) Flush() {
	if r.queue.Depth != nil && r.queue.Depth() > BackpressureThreshold {
		if r.queue.Purge != nil {
			r.queue.Purge()
		}
		r.busy = false
	}

	r.out.ReserveTail(cursorTailBytes)

	for _, rect := range r.dirty.Rects() {
		r.repaintRect(rect)
	}
	r.dirty.Clear()

	r.emitCursorAddress(r.grid.Row, r.grid.Col)

	r.out.ReleaseTail()
	// Hidden while painting (cursor_invisible was appended at the end of
	// the previous flush); restore it now unless a draw command asked us
	// to stay busy.
	if !r.busy {
		if seq := r.term.Format(termcap.CapCursorNormal); seq != nil {
			r.out.Out(seq)
		}
	}
	r.out.Flush()
	// Buffered, not written: it goes out ahead of the next batch of draw
	// output.
	if seq := r.term.Format(termcap.CapCursorInvisible); seq != nil {
		r.out.Out(seq)
	}
}

// repaintRect emits the minimal bytes to bring one dirty rectangle up
// to date: clear_screen when it is the whole screen, clr_eos when it
// runs from some row to the bottom-right corner, otherwise a
// cell-by-cell walk with cursor repositioning only when the write
// isn't already contiguous.
func (r *Renderer) repaintRect(rect ugrid.Rect) {
	g := r.grid
	fullWidth := rect.Left == 0 && rect.Right == g.Width-1
	isDefault := true
	for row := rect.Top; row <= rect.Bot && isDefault; row++ {
		isDefault = r.isDefaultBlank(row, rect.Left)
	}

	if fullWidth && isDefault && rect.Top == 0 && rect.Bot == g.Height-1 {
		if seq := r.term.Format(termcap.CapClearScreen); seq != nil {
			r.out.Out(seq)
			r.contiguous = false
			return
		}
	}

	if fullWidth && isDefault && rect.Bot == g.Height-1 {
		if seq := r.term.Format(termcap.CapClrEOS); seq != nil {
			r.emitCursorAddress(rect.Top, rect.Left)
			r.out.Out(seq)
			r.contiguous = false
			return
		}
	}

	for row := rect.Top; row <= rect.Bot; row++ {
		if fullWidth && r.isDefaultBlank(row, rect.Left) {
			if seq := r.term.Format(termcap.CapClrEOL); seq != nil {
				r.emitCursorAddress(row, 0)
				r.out.Out(seq)
				r.contiguous = false
				continue
			}
		}
		r.repaintRow(row, rect.Left, rect.Right)
	}
}

// isDefaultBlank reports whether every cell from (row, col) to the end
// of the row is a blank space with default-colored, unstyled attributes
// — the condition spec.md requires before a clear capability may stand
// in for a cell-by-cell repaint.
func (r *Renderer) isDefaultBlank(row, col int) bool {
	for ; col < r.grid.Width; col++ {
		c := r.grid.At(row, col)
		if c.Len != 1 || c.Data[0] != ' ' {
			return false
		}
		a := c.Attr
		if a.Bold || a.Underline || a.Undercurl || a.Italic || a.Reverse || a.Fg >= 0 || a.Bg >= 0 {
			return false
		}
	}
	return true
}

func (r *Renderer) repaintRow(row, left, right int) {
	g := r.grid
	for col := left; col <= right; col++ {
		cell := g.At(row, col)
		r.emitCursorAddress(row, col)
		r.emitPen(cell.Attr)
		r.out.Out(cell.Bytes())
		r.lastOutRow, r.lastOutCol = row, col+1
		r.contiguous = true
	}
}
