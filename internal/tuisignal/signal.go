// Package tuisignal is Signal Handling & Suspend: a SIGWINCH/SIGCONT
// watcher grounded on the teacher's tui/screen.go handleResize loop,
// extended with the SIGTSTP two-phase rendez-vous described in
// ui_bridge.c.
package tuisignal

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"

	"nvtui/coreiface"
	"nvtui/internal/rawmode"
	"nvtui/internal/termcap"
)

// Watcher owns the SIGWINCH/SIGCONT channels for one UI-thread lifetime.
type Watcher struct {
	winch chan os.Signal
	cont  chan os.Signal

	// gotWinch is set whenever a SIGWINCH is observed and cleared by
	// Renderer.Resize, so an explicit core resize() doesn't redundantly
	// re-issue resize_screen right after the signal path already reacted
	// (spec.md §4.3 row 1).
	gotWinch int32
}

// New creates a Watcher and starts listening for SIGWINCH/SIGCONT. Call
// Run to begin dispatching.
func New() *Watcher {
	w := &Watcher{
		winch: make(chan os.Signal, 1),
		cont:  make(chan os.Signal, 1),
	}
	signal.Notify(w.winch, syscall.SIGWINCH)
	signal.Notify(w.cont, syscall.SIGCONT)
	return w
}

// GotWinch returns the flag Render.Resize consults and clears.
func (w *Watcher) GotWinch() *int32 { return &w.gotWinch }

// Stop unregisters both signals.
func (w *Watcher) Stop() {
	signal.Stop(w.winch)
	signal.Stop(w.cont)
}

// Run blocks, invoking onResize(width, height) every time SIGWINCH
// fires and a fresh size can be probed, until ctx is canceled.
func (w *Watcher) Run(ctx context.Context, probe func() (int, int), onResize func(int, int)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.winch:
			atomic.StoreInt32(&w.gotWinch, 1)
			width, height := probe()
			onResize(width, height)
		}
	}
}

// WaitSigcont blocks until a SIGCONT is observed — the second half of
// the suspend rendez-vous (spec.md §4.5).
func (w *Watcher) WaitSigcont() {
	<-w.cont
}

// RaiseSIGTSTP signals the calling process's own process group, the
// same way a shell's Ctrl-Z would, so the job-control semantics of a
// real suspend are preserved.
func RaiseSIGTSTP() error {
	return unix.Kill(0, syscall.SIGTSTP)
}

// SetBlocking switches the tty fd between blocking and non-blocking
// read mode, used around the suspend rendez-vous (spec.md §4.5: the
// input fd must be blocking while the shell owns the terminal).
func SetBlocking(fd int, blocking bool) error {
	return unix.SetNonblock(fd, !blocking)
}

// ProbeSize implements spec.md §4.5's size-probe order: explicit
// non-default Options, then the tty driver, then $LINES/$COLUMNS, then
// the terminfo entry, then a hardcoded 80x24 default.
func ProbeSize(opts coreiface.Options, tty *os.File, term *termcap.Adapter) (width, height int) {
	if opts.Width > 0 && opts.Height > 0 {
		return opts.Width, opts.Height
	}

	if tty != nil {
		if w, h, err := rawmode.Size(tty); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}

	if cols, lines, ok := envSize(); ok {
		return cols, lines
	}

	if term != nil {
		if cols, ok := term.Numbers[termcap.CapColumns]; ok && cols > 0 {
			if lines, ok := term.Numbers[termcap.CapLines]; ok && lines > 0 {
				return cols, lines
			}
		}
	}

	return 80, 24
}

func envSize() (cols, lines int, ok bool) {
	c, err1 := strconv.Atoi(os.Getenv("COLUMNS"))
	l, err2 := strconv.Atoi(os.Getenv("LINES"))
	if err1 != nil || err2 != nil || c <= 0 || l <= 0 {
		return 0, 0, false
	}
	return c, l, true
}
