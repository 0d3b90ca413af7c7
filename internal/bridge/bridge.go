// Package bridge is the UI Bridge: it implements coreiface.UI by
// constructing a per-method event and enqueueing it on a
// internal/mlq.Queue that the UI-thread goroutine drains in FIFO
// order. Attach, Suspend, and Stop retain the explicit
// sync.Mutex+sync.Cond handshake ui_bridge.c uses; every other method
// is a fire-and-forget enqueue.
package bridge

import (
	"context"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"nvtui/coreiface"
	"nvtui/internal/input"
	"nvtui/internal/mlq"
	"nvtui/internal/rawmode"
	"nvtui/internal/render"
	"nvtui/internal/termcap"
	"nvtui/internal/tlog"
	"nvtui/internal/tuisignal"
)

// Bridge implements coreiface.UI on top of a Renderer, Input Decoder,
// and Signal Watcher running on a dedicated UI-thread goroutine.
type Bridge struct {
	core coreiface.Input
	tty  *os.File
	out  *os.File

	handoff sync.Mutex
	cond    *sync.Cond
	ready   bool
	stopped bool

	queueMu sync.Mutex
	queue   *mlq.Queue
	wake    chan struct{}

	renderer *render.Renderer
	decoder  *input.Decoder
	watcher  *tuisignal.Watcher
	mouseWas bool
	rawState *rawmode.State

	eg     *errgroup.Group
	cancel context.CancelFunc
}

// New constructs a Bridge. tty is the input file (normally os.Stdin);
// out is the output file the Renderer writes to (normally os.Stdout).
func New(core coreiface.Input, tty, out *os.File) *Bridge {
	b := &Bridge{core: core, tty: tty, out: out, wake: make(chan struct{}, 1)}
	b.cond = sync.NewCond(&b.handoff)
	b.queue = mlq.NewParent(func(*mlq.Queue) { b.signalWake() }, nil)
	return b
}

func (b *Bridge) signalWake() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Bridge) enqueue(ev bridgeEvent) {
	b.queueMu.Lock()
	b.queue.Put(mlq.Event{Argv: []interface{}{ev}})
	b.queueMu.Unlock()
}

// Attach spawns the UI thread and blocks until it signals ready, per
// spec.md §5's attach handshake.
func (b *Bridge) Attach(opts coreiface.Options) {
	tlog.Init()

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	eg, egCtx := errgroup.WithContext(ctx)
	b.eg = eg

	eg.Go(func() error {
		b.runUIThread(egCtx, opts)
		return nil
	})

	b.handoff.Lock()
	for !b.ready {
		b.cond.Wait()
	}
	b.handoff.Unlock()
}

func (b *Bridge) runUIThread(ctx context.Context, opts coreiface.Options) {
	term := termcap.Load()
	watcher := tuisignal.New()
	b.watcher = watcher

	width, height := tuisignal.ProbeSize(opts, b.tty, term)
	w := termcap.NewWriter(b.out)
	renderer := render.New(term, w, width, height, opts.RGB, watcher.GotWinch())
	renderer.SetQueueProbe(render.QueueProbe{
		Depth: func() int { b.queueMu.Lock(); defer b.queueMu.Unlock(); return b.queue.Size() },
		Purge: func() { b.queueMu.Lock(); b.queue.Purge(); b.queueMu.Unlock() },
	})
	renderer.SetSuspendFunc(func() { b.doSuspend(renderer, term) })
	b.renderer = renderer

	if state, err := rawmode.Enable(b.tty); err == nil {
		b.rawState = state
	} else {
		tlog.Warn("raw mode unavailable", "error", err)
	}

	if dec, err := input.New(b.tty); err == nil {
		b.decoder = dec
		term.FixKeyboard(dec.VERASE())
		go dec.Run(b.core)
	}

	go watcher.Run(ctx,
		func() (int, int) { return tuisignal.ProbeSize(coreiface.Options{}, b.tty, term) },
		func(w, h int) {
			b.enqueue(resizeEvent{w, h})
			b.core.PushResize(coreiface.ResizeEvent{Width: w, Height: h})
		},
	)

	b.handoff.Lock()
	b.ready = true
	b.cond.Signal()
	b.handoff.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.wake:
			b.drain()
		}
	}
}

func (b *Bridge) drain() {
	for {
		b.queueMu.Lock()
		ev, ok := b.queue.Get()
		b.queueMu.Unlock()
		if !ok {
			return
		}
		if ev.Handler != nil {
			ev.Handler(ev.Argv)
			continue
		}
		b.dispatch(ev.Argv[0].(bridgeEvent))
	}
}

func (b *Bridge) dispatch(ev bridgeEvent) {
	tlog.Event(eventName(ev))
	r := b.renderer
	switch e := ev.(type) {
	case resizeEvent:
		r.Resize(e.width, e.height)
	case clearEvent:
		r.Clear()
	case eolClearEvent:
		r.EOLClear()
	case cursorGotoEvent:
		r.CursorGoto(e.row, e.col)
	case modeInfoSetEvent:
		r.ModeInfoSet(e.enabled, e.entries)
	case busyStartEvent:
		r.BusyStart()
	case busyStopEvent:
		r.BusyStop()
	case mouseOnEvent:
		b.mouseWas = true
		r.MouseOn()
	case mouseOffEvent:
		b.mouseWas = false
		r.MouseOff()
	case modeChangeEvent:
		r.ModeChange(e.name, e.idx)
	case setScrollRegionEvent:
		r.SetScrollRegion(e.top, e.bot, e.left, e.right)
	case scrollEvent:
		r.Scroll(e.n)
	case highlightSetEvent:
		r.HighlightSet(e.attr)
	case putEvent:
		r.Put(e.text)
	case bellEvent:
		r.Bell()
	case visualBellEvent:
		r.VisualBell()
	case updateFgEvent:
		r.UpdateFg(e.c)
	case updateBgEvent:
		r.UpdateBg(e.c)
	case updateSpEvent:
		r.UpdateSp(e.c)
	case flushEvent:
		r.Flush()
	case suspendEvent:
		r.Suspend()
	case setTitleEvent:
		r.SetTitle(e.s)
	case setIconEvent:
		r.SetIcon(e.s)
	}
}

// Stop schedules a stop event, waits for the UI thread to tear down
// and set stopped=true, then joins it (spec.md §5's stop handshake).
func (b *Bridge) Stop() {
	b.queueMu.Lock()
	b.queue.Put(mlq.Event{Handler: func([]interface{}) {
		if b.decoder != nil {
			b.decoder.Stop()
		}
		b.watcher.Stop()
		if b.rawState != nil {
			rawmode.Restore(b.tty, b.rawState)
		}
		b.handoff.Lock()
		b.stopped = true
		b.cond.Signal()
		b.handoff.Unlock()
		b.cancel()
	}})
	b.queueMu.Unlock()
	b.signalWake()

	b.handoff.Lock()
	for !b.stopped {
		b.cond.Wait()
	}
	b.handoff.Unlock()

	b.eg.Wait()
	tlog.Flush()
}

func eventName(ev bridgeEvent) string {
	switch ev.(type) {
	case resizeEvent:
		return "resize"
	case clearEvent:
		return "clear"
	case eolClearEvent:
		return "eol_clear"
	case cursorGotoEvent:
		return "cursor_goto"
	case modeInfoSetEvent:
		return "mode_info_set"
	case busyStartEvent:
		return "busy_start"
	case busyStopEvent:
		return "busy_stop"
	case mouseOnEvent:
		return "mouse_on"
	case mouseOffEvent:
		return "mouse_off"
	case modeChangeEvent:
		return "mode_change"
	case setScrollRegionEvent:
		return "set_scroll_region"
	case scrollEvent:
		return "scroll"
	case highlightSetEvent:
		return "highlight_set"
	case putEvent:
		return "put"
	case bellEvent:
		return "bell"
	case visualBellEvent:
		return "visual_bell"
	case updateFgEvent:
		return "update_fg"
	case updateBgEvent:
		return "update_bg"
	case updateSpEvent:
		return "update_sp"
	case flushEvent:
		return "flush"
	case suspendEvent:
		return "suspend"
	case setTitleEvent:
		return "set_title"
	case setIconEvent:
		return "set_icon"
	default:
		return "unknown"
	}
}

// Fire-and-forget methods, 1:1 with spec.md §4.3/§6.

func (b *Bridge) Resize(width, height int)                        { b.enqueue(resizeEvent{width, height}) }
func (b *Bridge) Clear()                                           { b.enqueue(clearEvent{}) }
func (b *Bridge) EOLClear()                                        { b.enqueue(eolClearEvent{}) }
func (b *Bridge) CursorGoto(row, col int)                          { b.enqueue(cursorGotoEvent{row, col}) }
func (b *Bridge) ModeInfoSet(enabled bool, entries []coreiface.ModeEntry) {
	b.enqueue(modeInfoSetEvent{enabled, entries})
}
func (b *Bridge) UpdateMenu() {} // no menu concept in a cell-grid renderer
func (b *Bridge) BusyStart()  { b.enqueue(busyStartEvent{}) }
func (b *Bridge) BusyStop()   { b.enqueue(busyStopEvent{}) }
func (b *Bridge) MouseOn()    { b.enqueue(mouseOnEvent{}) }
func (b *Bridge) MouseOff()   { b.enqueue(mouseOffEvent{}) }
func (b *Bridge) ModeChange(name string, index int) { b.enqueue(modeChangeEvent{name, index}) }
func (b *Bridge) SetScrollRegion(top, bot, left, right int) {
	b.enqueue(setScrollRegionEvent{top, bot, left, right})
}
func (b *Bridge) Scroll(n int)                            { b.enqueue(scrollEvent{n}) }
func (b *Bridge) HighlightSet(attr coreiface.HighlightAttr) { b.enqueue(highlightSetEvent{attr}) }
func (b *Bridge) Put(text []byte) {
	cp := make([]byte, len(text))
	copy(cp, text)
	b.enqueue(putEvent{cp})
}
func (b *Bridge) Bell()            { b.enqueue(bellEvent{}) }
func (b *Bridge) VisualBell()      { b.enqueue(visualBellEvent{}) }
func (b *Bridge) UpdateFg(c int32) { b.enqueue(updateFgEvent{c}) }
func (b *Bridge) UpdateBg(c int32) { b.enqueue(updateBgEvent{c}) }
func (b *Bridge) UpdateSp(c int32) { b.enqueue(updateSpEvent{c}) }
func (b *Bridge) Flush()           { b.enqueue(flushEvent{}) }
func (b *Bridge) SetTitle(s string) { b.enqueue(setTitleEvent{s}) }
func (b *Bridge) SetIcon(s string)  { b.enqueue(setIconEvent{s}) }

// Suspend enqueues the SIGTSTP rendez-vous and then blocks on the
// bridge's condvar until the UI thread, resumed by SIGCONT, reaches the
// handler queued right behind it (spec.md §4.5).
func (b *Bridge) Suspend() {
	b.enqueue(suspendEvent{})
	resumed := false
	b.queueMu.Lock()
	b.queue.Put(mlq.Event{Handler: func([]interface{}) {
		b.handoff.Lock()
		resumed = true
		b.cond.Broadcast()
		b.handoff.Unlock()
	}})
	b.queueMu.Unlock()

	b.handoff.Lock()
	for !resumed {
		b.cond.Wait()
	}
	b.handoff.Unlock()
}

// doSuspend runs on the UI thread, invoked by the Renderer when it
// processes a suspendEvent. It restores the terminal to cooked mode,
// raises SIGTSTP against the whole process, and blocks until SIGCONT
// wakes it back up, then re-primes raw mode and forces a full repaint
// (tui.c's suspend_event/sigcont rendez-vous, spec.md §4.5).
func (b *Bridge) doSuspend(r *render.Renderer, term *termcap.Adapter) {
	if b.rawState != nil {
		rawmode.Restore(b.tty, b.rawState)
	}
	if err := tuisignal.SetBlocking(int(b.tty.Fd()), true); err != nil {
		tlog.Warn("suspend: set blocking failed", "error", err)
	}
	if err := tuisignal.RaiseSIGTSTP(); err != nil {
		tlog.Warn("suspend: raise SIGTSTP failed", "error", err)
	}
	b.watcher.WaitSigcont()
	if err := tuisignal.SetBlocking(int(b.tty.Fd()), false); err != nil {
		tlog.Warn("suspend: clear blocking failed", "error", err)
	}
	if state, err := rawmode.Enable(b.tty); err == nil {
		b.rawState = state
	}
	r.Resize(r.Width(), r.Height())
}
