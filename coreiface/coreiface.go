// Package coreiface defines the boundary between an editor core and the
// UI subsystem implemented by internal/bridge: the fire-and-forget draw
// commands the core schedules, and the logical input events the UI
// schedules back.
package coreiface

// UI is the core's view of the terminal UI thread. Every method but
// Attach, Suspend, and Stop is fire-and-forget: it enqueues work on the
// UI thread and returns immediately, with no return value crossing the
// thread boundary.
type UI interface {
	Attach(opts Options)
	Resize(width, height int)
	Clear()
	EOLClear()
	CursorGoto(row, col int)
	ModeInfoSet(enabled bool, entries []ModeEntry)
	UpdateMenu()
	BusyStart()
	BusyStop()
	MouseOn()
	MouseOff()
	ModeChange(name string, index int)
	SetScrollRegion(top, bot, left, right int)
	Scroll(n int)
	HighlightSet(attr HighlightAttr)
	Put(text []byte)
	Bell()
	VisualBell()
	UpdateFg(c int32)
	UpdateBg(c int32)
	UpdateSp(c int32)
	Flush()
	Suspend()
	SetTitle(s string)
	SetIcon(s string)
	Stop()
}

// Options configures a UI at Attach time.
type Options struct {
	Width, Height int // 0 means "not explicitly set"; probe instead.
	RGB           bool
	NoTermTitle   bool
}

// ModeEntry describes one entry of the cursor-shape mode table that
// mode_info_set installs.
type ModeEntry struct {
	CursorShape    string // "block", "vertical", "horizontal"
	CellPercentage int    // bar width/height as a percentage of the cell, for vertical/horizontal
	BlinkOn        int
	BlinkOff       int
	HLID           int
}

// HighlightAttr mirrors the wire shape of highlight_set's argument.
// Foreground/Background/Special use -1 for "default color".
type HighlightAttr struct {
	Bold, Underline, Undercurl bool
	Italic, Reverse            bool
	Foreground, Background     int32
	Special                    int32
}

// Input is the UI's view of the core: the sink for logical events
// decoded from the terminal (internal/input) or synthesized from
// signals (internal/tuisignal).
type Input interface {
	PushKey(ev KeyEvent)
	PushMouse(ev MouseEvent)
	PushPaste(ev PasteEvent)
	PushFocus(ev FocusEvent)
	PushResize(ev ResizeEvent)
}

// Mod is a bitmask of modifier keys.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
)

// KeyEvent is one decoded keypress.
type KeyEvent struct {
	Rune rune   // 0 when Name is set
	Name string // "Up", "F5", "Home", etc.; empty for plain runes
	Mods Mod
}

// MouseButton identifies which mouse button a MouseEvent reports.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseRelease
)

// MouseEvent is one decoded SGR mouse report.
type MouseEvent struct {
	Button     MouseButton
	Mods       Mod
	Row, Col   int
	Drag       bool
	IsRelease  bool
}

// PasteEvent marks the start or end of a bracketed paste.
type PasteEvent struct {
	Start bool
}

// FocusEvent reports a terminal focus gain/loss.
type FocusEvent struct {
	Gained bool
}

// ResizeEvent is synthesized from SIGWINCH, never parsed from terminal
// bytes.
type ResizeEvent struct {
	Width, Height int
}
