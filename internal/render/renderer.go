// Package render is the Renderer: it owns the Unified Grid and the
// Terminfo Adapter, turning draw commands from the bridge into the
// minimal set of terminal bytes needed to bring the screen up to date.
package render

import (
	"sync/atomic"

	"nvtui/coreiface"
	"nvtui/internal/attr"
	"nvtui/internal/termcap"
	"nvtui/internal/ugrid"
)

// BackpressureThreshold is the queue-depth at which Flush purges
// pending draw commands instead of rendering them (spec.md §4.3
// "Back-pressure").
const BackpressureThreshold = 1_000_000

// cursorTailBytes is the size of the output buffer's reserved tail for
// the end-of-flush cursor-visibility postfix.
const cursorTailBytes = 32

// QueueProbe lets the Renderer ask the bridge how deep its event queue
// currently is, and purge it, without importing internal/bridge (which
// imports internal/render already).
type QueueProbe struct {
	Depth func() int
	Purge func()
}

// Renderer implements one method per spec.md's §4.3 table. All state is
// confined to the goroutine that calls these methods — the UI-thread
// goroutine owned by internal/bridge — so no locking is needed here.
type Renderer struct {
	grid  *ugrid.Grid
	term  *termcap.Adapter
	out   *termcap.Writer
	dirty ugrid.DirtyList

	pen        attr.Attr
	penValid   bool // false forces the next Put to emit a fresh SGR
	cursorRow  int
	cursorCol  int
	lastOutRow int
	lastOutCol int
	contiguous bool

	busy        bool
	fullScreen  bool
	mouseOn     bool
	modeEnabled bool
	modes       []coreiface.ModeEntry
	curModeIdx  int

	rgb bool

	queue QueueProbe

	cursorColorLookup func(hlID int) (int32, bool)

	// gotWinch is read by Resize to decide whether the signal path has
	// already reacted to a SIGWINCH before the core's explicit resize
	// arrives (spec.md §4.3 row 1). Shared with internal/tuisignal.
	gotWinch *int32

	suspendFn func()
}

// New creates a Renderer writing through w, using term for capability
// lookups, with the given initial grid size.
func New(term *termcap.Adapter, out *termcap.Writer, width, height int, rgb bool, gotWinch *int32) *Renderer {
	r := &Renderer{
		grid:     ugrid.New(width, height),
		term:     term,
		out:      out,
		rgb:      rgb,
		gotWinch: gotWinch,
		pen:      attr.Default,
	}
	r.fullScreen = true
	return r
}

// SetQueueProbe wires the bridge's queue depth/purge hooks in; called
// once at construction time by internal/bridge.
func (r *Renderer) SetQueueProbe(q QueueProbe) { r.queue = q }

// SetSuspendFunc wires the SIGTSTP rendez-vous (internal/tuisignal) in.
func (r *Renderer) SetSuspendFunc(fn func()) { r.suspendFn = fn }

// Width and Height report the grid's current dimensions, for the
// bridge's post-SIGCONT resize-to-self call.
func (r *Renderer) Width() int  { return r.grid.Width }
func (r *Renderer) Height() int { return r.grid.Height }

// Resize updates the grid and, unless a SIGWINCH has already been
// observed or the terminal lacks a resize capability, asks the
// terminal to resize its window too.
func (r *Renderer) Resize(width, height int) {
	r.grid.Resize(width, height)
	r.dirty.Clear()
	r.dirty.Mark(ugrid.Rect{Top: 0, Bot: height - 1, Left: 0, Right: width - 1})
	r.fullScreen = true
	r.penValid = false

	if r.gotWinch != nil && atomic.SwapInt32(r.gotWinch, 0) != 0 {
		return
	}
	if seq := r.term.Format(termcap.CapResizeScreen, height, width); seq != nil {
		r.out.Out(seq)
	}
}

// Clear blanks the grid and emits clear_screen.
func (r *Renderer) Clear() {
	r.grid.Clear()
	r.dirty.Clear()
	r.penValid = false
	if seq := r.term.Format(termcap.CapClearScreen); seq != nil {
		r.out.Out(seq)
	}
	r.contiguous = false
}

// EOLClear blanks to end of line and emits clr_eol.
func (r *Renderer) EOLClear() {
	row := r.grid.Row
	r.dirty.Mark(ugrid.Rect{Top: row, Bot: row, Left: r.grid.Col, Right: r.grid.Width - 1})
	r.grid.EOLClear()
	r.emitCursorAddress(row, r.grid.Col)
	if seq := r.term.Format(termcap.CapClrEOL); seq != nil {
		r.out.Out(seq)
	}
	r.contiguous = false
}

// CursorGoto updates the grid's logical cursor and moves the terminal
// cursor to match.
func (r *Renderer) CursorGoto(row, col int) {
	r.grid.Goto(row, col)
	r.emitCursorAddress(row, col)
}

// ModeInfoSet stores the cursor-shape mode table. When disabled, no
// later ModeChange emits a cursor-shape sequence until re-enabled; a
// mode_change received while disabled is simply dropped rather than
// queued for replay (spec.md §9 Open Question 1 — decided in
// SPEC_FULL.md §11: stored-but-not-retroactive).
func (r *Renderer) ModeInfoSet(enabled bool, entries []coreiface.ModeEntry) {
	r.modeEnabled = enabled
	r.modes = entries
}

// BusyStart/BusyStop gate the end-of-flush cursor-normal suffix.
func (r *Renderer) BusyStart() { r.busy = true }
func (r *Renderer) BusyStop()  { r.busy = false }

// MouseOn/MouseOff are idempotent, best-effort.
func (r *Renderer) MouseOn() {
	if r.mouseOn {
		return
	}
	r.mouseOn = true
	if seq := r.term.Format(termcap.CapEnableMouse); seq != nil {
		r.out.Out(seq)
	}
}

func (r *Renderer) MouseOff() {
	if !r.mouseOn {
		return
	}
	r.mouseOn = false
	if seq := r.term.Format(termcap.CapDisableMouse); seq != nil {
		r.out.Out(seq)
	}
}

// SetScrollRegion records the active region and whether it spans the
// full screen (used by the scroll algorithm's hardware-path test).
func (r *Renderer) SetScrollRegion(top, bot, left, right int) {
	r.grid.SetScrollRegion(top, bot, left, right)
	r.fullScreen = top == 0 && bot == r.grid.Height-1 && left == 0 && right == r.grid.Width-1
}

// HighlightSet updates the pen. SGR is emitted lazily, on the next Put
// whose cell attributes differ from what the terminal currently shows.
func (r *Renderer) HighlightSet(a coreiface.HighlightAttr) {
	r.grid.Pen = attr.Attr{
		Bold:      a.Bold,
		Underline: a.Underline,
		Undercurl: a.Undercurl,
		Italic:    a.Italic,
		Reverse:   a.Reverse,
		Fg:        attr.Color(a.Foreground),
		Bg:        attr.Color(a.Background),
		Sp:        attr.Color(a.Special),
	}
}

// Put writes one cell's grapheme bytes, emitting SGR first if the pen
// has changed since the last emitted cell.
func (r *Renderer) Put(text []byte) {
	row, col := r.grid.Row, r.grid.Col
	if row < 0 || row >= r.grid.Height || col < 0 || col >= r.grid.Width {
		return
	}
	pen := r.grid.Pen
	w := r.grid.Put(text)

	r.emitCursorAddress(row, col)
	r.emitPen(pen)
	r.out.Out(text)
	r.lastOutRow, r.lastOutCol = row, col+1
	r.contiguous = true

	// The cell itself was just written; only a double-wide grapheme's
	// continuation column is left for the next flush to repaint.
	if w > 1 {
		r.dirty.Mark(ugrid.Rect{Top: row, Bot: row, Left: col + 1, Right: col + w - 1})
	}
}

// Bell/VisualBell emit bell/flash_screen.
func (r *Renderer) Bell() {
	if seq := r.term.Format(termcap.CapBell); seq != nil {
		r.out.Out(seq)
	}
}

func (r *Renderer) VisualBell() {
	if seq := r.term.Format(termcap.CapFlashScreen); seq != nil {
		r.out.Out(seq)
	}
}

// UpdateFg/Bg/Sp update the grid's default colors used by Clear/EOLClear.
func (r *Renderer) UpdateFg(c int32) { r.grid.Fg = attr.Color(c) }
func (r *Renderer) UpdateBg(c int32) { r.grid.Bg = attr.Color(c) }
func (r *Renderer) UpdateSp(int32)   {} // forwarded per spec.md, unused by the terminal

// SetTitle/SetIcon wrap payload in to_status_line...from_status_line if
// the terminal supports it; otherwise a silent no-op.
func (r *Renderer) SetTitle(s string) { r.setStatusLine(s) }
func (r *Renderer) SetIcon(s string)  { r.setStatusLine(s) }

func (r *Renderer) setStatusLine(s string) {
	open := r.term.Format(termcap.CapToStatusLine)
	close := r.term.Format(termcap.CapFromStatusLine)
	if open == nil || close == nil {
		return
	}
	r.out.Out(open)
	r.out.Out([]byte(s))
	r.out.Out(close)
}

// Suspend runs the two-phase SIGTSTP rendez-vous wired in by
// internal/bridge via SetSuspendFunc.
func (r *Renderer) Suspend() {
	if r.suspendFn != nil {
		r.suspendFn()
	}
}

// emitCursorAddress moves the terminal cursor unless the next write is
// already contiguous with the last emitted cell.
func (r *Renderer) emitCursorAddress(row, col int) {
	if r.contiguous && row == r.lastOutRow && col == r.lastOutCol {
		return
	}
	if seq := r.term.Format(termcap.CapCursorAddress, row, col); seq != nil {
		r.out.Out(seq)
	}
	r.lastOutRow, r.lastOutCol = row, col
	r.contiguous = true
}

// emitPen emits SGR reset + new SGR only when a differs from the last
// pen actually sent to the terminal (testable property 3).
func (r *Renderer) emitPen(a attr.Attr) {
	if r.penValid && a == r.pen {
		return
	}
	r.pen = a
	r.penValid = true

	if seq := r.term.Format(termcap.CapExitAttributeMode); seq != nil {
		r.out.Out(seq)
	}
	if a.Bold {
		r.out.Out(r.term.Format(termcap.CapEnterBoldMode))
	}
	if a.Underline {
		r.out.Out(r.term.Format(termcap.CapEnterUnderlineMode))
	}
	if a.Italic {
		r.out.Out(r.term.Format(termcap.CapEnterItalicsMode))
	}
	if a.Reverse {
		r.out.Out(r.term.Format(termcap.CapEnterReverseMode))
	}
	r.emitColor(termcap.CapSetRGBForeground, termcap.CapSetAForeground, a.Fg)
	r.emitColor(termcap.CapSetRGBBackground, termcap.CapSetABackground, a.Bg)
}

func (r *Renderer) emitColor(rgbCap, ansiCap termcap.Cap, c attr.Color) {
	if c == attr.DefaultColor {
		return
	}
	if r.rgb {
		rr, gg, bb := attr.Split(c)
		if seq := r.term.Format(rgbCap, int(rr), int(gg), int(bb)); seq != nil {
			r.out.Out(seq)
		}
		return
	}
	if seq := r.term.Format(ansiCap, int(c)); seq != nil {
		r.out.Out(seq)
	}
}
