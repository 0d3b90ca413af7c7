// Package ugrid implements the Unified Grid: a pure, I/O-free model of
// the terminal screen. It mirrors nvim's ugrid.c cell-for-cell, exposing
// the same handful of mutators and no emission of its own.
package ugrid

import (
	"github.com/mattn/go-runewidth"

	"nvtui/internal/attr"
)

// MaxCellBytes bounds a cell's payload: the primary grapheme plus a
// handful of combining code points, matching the "small cap" spec.md §3
// describes without pinning an exact source-derived number.
const MaxCellBytes = 32

// Cell is one terminal cell: opaque grapheme bytes plus its attributes.
type Cell struct {
	Data [MaxCellBytes]byte
	Len  uint8
	Attr attr.Attr
}

// Bytes returns the cell's grapheme payload.
func (c *Cell) Bytes() []byte { return c.Data[:c.Len] }

// blank is a single ASCII space with the given attributes.
func blank(a attr.Attr) Cell {
	c := Cell{Len: 1, Attr: a}
	c.Data[0] = ' '
	return c
}

// Rect is an inclusive rectangle of cells.
type Rect struct {
	Top, Bot, Left, Right int
}

// Empty reports whether the rectangle contains no cells.
func (r Rect) Empty() bool { return r.Top > r.Bot || r.Left > r.Right }

// Grid is the in-memory model of the terminal screen. All mutators are
// pure: no bytes are ever written to a terminal from this package.
type Grid struct {
	Width, Height int

	Row, Col int

	Top, Bot, Left, Right int

	Fg, Bg attr.Color
	Pen    attr.Attr

	Cells []Cell
}

// New creates a grid of the given size, already Resize-initialized.
func New(width, height int) *Grid {
	g := &Grid{Fg: attr.DefaultColor, Bg: attr.DefaultColor, Pen: attr.Default}
	g.Resize(width, height)
	return g
}

// Resize re-allocates the grid, fills it with default-attribute spaces,
// clamps the scroll region to the full screen, and resets the cursor.
func (g *Grid) Resize(width, height int) {
	g.Width, g.Height = width, height
	g.Cells = make([]Cell, width*height)
	def := attr.Attr{Fg: g.Fg, Bg: g.Bg, Sp: attr.DefaultColor}
	b := blank(def)
	for i := range g.Cells {
		g.Cells[i] = b
	}
	g.Top, g.Bot = 0, height-1
	g.Left, g.Right = 0, width-1
	g.Row, g.Col = 0, 0
}

// Goto sets the cursor position. It never emits anything.
func (g *Grid) Goto(row, col int) {
	g.Row, g.Col = row, col
}

// SetScrollRegion records the active scroll region.
func (g *Grid) SetScrollRegion(top, bot, left, right int) {
	g.Top, g.Bot, g.Left, g.Right = top, bot, left, right
}

// Clear blanks the current scroll region using the default colors.
func (g *Grid) Clear() {
	g.clearRegion(g.Top, g.Bot, g.Left, g.Right)
}

// EOLClear blanks from the cursor to the end of its row (within the
// scroll region's right edge).
func (g *Grid) EOLClear() {
	g.clearRegion(g.Row, g.Row, g.Col, g.Right)
}

func (g *Grid) clearRegion(top, bot, left, right int) {
	def := attr.Attr{Fg: g.Fg, Bg: g.Bg, Sp: attr.DefaultColor}
	b := blank(def)
	for row := top; row <= bot; row++ {
		off := row * g.Width
		for col := left; col <= right; col++ {
			g.Cells[off+col] = b
		}
	}
}

// Scroll moves the scroll region's cells by n rows: positive moves text
// up (rows near Top are lost), negative moves it down. It returns the
// rectangle that is now blank and has already been cleared.
func (g *Grid) Scroll(n int) Rect {
	var start, stop, step int
	if n > 0 {
		start, stop, step = g.Top, g.Bot-n+1, 1
	} else {
		start, stop, step = g.Bot, g.Top-n-1, -1
	}

	width := g.Right - g.Left + 1
	for i := start; i != stop; i += step {
		target := i*g.Width + g.Left
		source := (i+n)*g.Width + g.Left
		copy(g.Cells[target:target+width], g.Cells[source:source+width])
	}

	var clearTop, clearBot int
	if n > 0 {
		clearTop, clearBot = stop, stop+n-1
	} else {
		clearBot, clearTop = stop, stop+n+1
	}

	g.clearRegion(clearTop, clearBot, g.Left, g.Right)
	return Rect{Top: clearTop, Bot: clearBot, Left: g.Left, Right: g.Right}
}

// Put writes bytes into the cell at the cursor using the current pen,
// then advances the cursor by one cell column. It reports the on-screen
// display width of the grapheme so double-wide handling can be driven
// by the caller, per spec.md's "caller's responsibility" clause.
func (g *Grid) Put(data []byte) (width int) {
	if g.Row < 0 || g.Row >= g.Height || g.Col < 0 || g.Col >= g.Width {
		return 1
	}
	cell := &g.Cells[g.Row*g.Width+g.Col]
	cell.Len = uint8(copy(cell.Data[:], data))
	cell.Attr = g.Pen
	g.Col++

	r, _ := decodeRune(data)
	if r == 0 {
		return 1
	}
	w := runewidth.RuneWidth(r)
	if w < 1 {
		w = 1
	}
	return w
}

// decodeRune returns the first rune of a UTF-8 grapheme payload.
func decodeRune(data []byte) (rune, int) {
	for i, b := range data {
		if b < 0x80 {
			if i == 0 {
				return rune(b), 1
			}
			break
		}
	}
	r := []rune(string(data))
	if len(r) == 0 {
		return 0, 0
	}
	return r[0], len(r)
}

// At returns the cell at (row, col). Out-of-bounds coordinates return
// the zero Cell.
func (g *Grid) At(row, col int) Cell {
	if row < 0 || row >= g.Height || col < 0 || col >= g.Width {
		return Cell{}
	}
	return g.Cells[row*g.Width+col]
}
