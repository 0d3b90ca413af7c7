package bridge

import "nvtui/coreiface"

// bridgeEvent is the Go replacement for ui_bridge.c's variadic,
// macro-generated UI_CALL dispatch: one concrete struct per core→UI
// method, type-switched by the UI thread's dispatch loop instead of
// carrying a per-event closure.
type bridgeEvent interface{ isBridgeEvent() }

type resizeEvent struct{ width, height int }
type clearEvent struct{}
type eolClearEvent struct{}
type cursorGotoEvent struct{ row, col int }
type modeInfoSetEvent struct {
	enabled bool
	entries []coreiface.ModeEntry
}
type busyStartEvent struct{}
type busyStopEvent struct{}
type mouseOnEvent struct{}
type mouseOffEvent struct{}
type modeChangeEvent struct {
	name string
	idx  int
}
type setScrollRegionEvent struct{ top, bot, left, right int }
type scrollEvent struct{ n int }
type highlightSetEvent struct{ attr coreiface.HighlightAttr }
type putEvent struct{ text []byte }
type bellEvent struct{}
type visualBellEvent struct{}
type updateFgEvent struct{ c int32 }
type updateBgEvent struct{ c int32 }
type updateSpEvent struct{ c int32 }
type flushEvent struct{}
type suspendEvent struct{}
type setTitleEvent struct{ s string }
type setIconEvent struct{ s string }

func (resizeEvent) isBridgeEvent()         {}
func (clearEvent) isBridgeEvent()          {}
func (eolClearEvent) isBridgeEvent()       {}
func (cursorGotoEvent) isBridgeEvent()     {}
func (modeInfoSetEvent) isBridgeEvent()    {}
func (busyStartEvent) isBridgeEvent()      {}
func (busyStopEvent) isBridgeEvent()       {}
func (mouseOnEvent) isBridgeEvent()        {}
func (mouseOffEvent) isBridgeEvent()       {}
func (modeChangeEvent) isBridgeEvent()     {}
func (setScrollRegionEvent) isBridgeEvent() {}
func (scrollEvent) isBridgeEvent()         {}
func (highlightSetEvent) isBridgeEvent()   {}
func (putEvent) isBridgeEvent()            {}
func (bellEvent) isBridgeEvent()           {}
func (visualBellEvent) isBridgeEvent()     {}
func (updateFgEvent) isBridgeEvent()       {}
func (updateBgEvent) isBridgeEvent()       {}
func (updateSpEvent) isBridgeEvent()       {}
func (flushEvent) isBridgeEvent()          {}
func (suspendEvent) isBridgeEvent()        {}
func (setTitleEvent) isBridgeEvent()       {}
func (setIconEvent) isBridgeEvent()        {}
