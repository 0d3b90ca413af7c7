package bridge

import (
	"sync"
	"testing"
	"time"

	"nvtui/coreiface"
	"nvtui/internal/mlq"
)

type fakeCore struct {
	mu      sync.Mutex
	resizes []coreiface.ResizeEvent
}

func (c *fakeCore) PushKey(coreiface.KeyEvent)       {}
func (c *fakeCore) PushMouse(coreiface.MouseEvent)   {}
func (c *fakeCore) PushPaste(coreiface.PasteEvent)   {}
func (c *fakeCore) PushFocus(coreiface.FocusEvent)   {}
func (c *fakeCore) PushResize(ev coreiface.ResizeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resizes = append(c.resizes, ev)
}

// fakeUIThread exercises Bridge's queue/drain/dispatch machinery
// without spinning up the real UI thread goroutine (which needs a
// real tty); it stands in for runUIThread in these tests.
func fakeUIThread(b *Bridge, got *[]bridgeEvent, mu *sync.Mutex, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-b.wake:
			for {
				b.queueMu.Lock()
				ev, ok := b.queue.Get()
				b.queueMu.Unlock()
				if !ok {
					break
				}
				if ev.Handler != nil {
					ev.Handler(ev.Argv)
					continue
				}
				mu.Lock()
				*got = append(*got, ev.Argv[0].(bridgeEvent))
				mu.Unlock()
			}
		}
	}
}

func TestEnqueueOrderingPreservedFIFO(t *testing.T) {
	b := New(&fakeCore{}, nil, nil)

	var mu sync.Mutex
	var got []bridgeEvent
	done := make(chan struct{})
	go fakeUIThread(b, &got, &mu, done)

	b.Clear()
	b.CursorGoto(1, 2)
	b.Flush()

	deadline := time.After(time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for events to drain")
		case <-time.After(time.Millisecond):
		}
	}
	close(done)

	mu.Lock()
	defer mu.Unlock()
	if _, ok := got[0].(clearEvent); !ok {
		t.Errorf("got[0] = %T, want clearEvent", got[0])
	}
	cg, ok := got[1].(cursorGotoEvent)
	if !ok || cg.row != 1 || cg.col != 2 {
		t.Errorf("got[1] = %+v, want cursorGotoEvent{1,2}", got[1])
	}
	if _, ok := got[2].(flushEvent); !ok {
		t.Errorf("got[2] = %T, want flushEvent", got[2])
	}
}

func TestStopHandshakeUnblocksAfterHandlerRuns(t *testing.T) {
	b := New(&fakeCore{}, nil, nil)

	// Minimal stand-in loop: runs exactly like runUIThread's dispatch
	// tail without needing a real terminal or signal watcher.
	stopped := make(chan struct{})
	go func() {
		for {
			<-b.wake
			b.queueMu.Lock()
			ev, ok := b.queue.Get()
			b.queueMu.Unlock()
			if !ok {
				continue
			}
			if ev.Handler != nil {
				ev.Handler(ev.Argv)
			}
			select {
			case <-stopped:
				return
			default:
			}
		}
	}()

	// Exercise the same handoff handshake Stop() uses, skipping
	// b.watcher.Stop()/rawmode.Restore since no real tty/watcher was
	// constructed in this test.
	b.queueMu.Lock()
	b.queue.Put(mlq.Event{Handler: func([]interface{}) {
		b.handoff.Lock()
		b.stopped = true
		b.cond.Signal()
		b.handoff.Unlock()
	}})
	b.queueMu.Unlock()
	b.signalWake()

	b.handoff.Lock()
	for !b.stopped {
		b.cond.Wait()
	}
	b.handoff.Unlock()
	close(stopped)
}

func TestHighlightSetEnqueuesAttr(t *testing.T) {
	b := New(&fakeCore{}, nil, nil)
	attr := coreiface.HighlightAttr{Bold: true, Foreground: 5}
	b.HighlightSet(attr)

	b.queueMu.Lock()
	ev, ok := b.queue.Get()
	b.queueMu.Unlock()
	if !ok {
		t.Fatal("expected an enqueued event")
	}
	hs, ok := ev.Argv[0].(highlightSetEvent)
	if !ok || hs.attr != attr {
		t.Fatalf("got %+v, want highlightSetEvent{%+v}", ev.Argv[0], attr)
	}
}

func TestPutCopiesSliceToAvoidAliasing(t *testing.T) {
	b := New(&fakeCore{}, nil, nil)
	buf := []byte("hello")
	b.Put(buf)
	buf[0] = 'X'

	b.queueMu.Lock()
	ev, _ := b.queue.Get()
	b.queueMu.Unlock()
	pe := ev.Argv[0].(putEvent)
	if string(pe.text) != "hello" {
		t.Fatalf("Put aliased caller's slice: got %q, want %q", pe.text, "hello")
	}
}

func TestEventNameCoversEveryVariant(t *testing.T) {
	events := []bridgeEvent{
		resizeEvent{}, clearEvent{}, eolClearEvent{}, cursorGotoEvent{},
		modeInfoSetEvent{}, busyStartEvent{}, busyStopEvent{}, mouseOnEvent{},
		mouseOffEvent{}, modeChangeEvent{}, setScrollRegionEvent{}, scrollEvent{},
		highlightSetEvent{}, putEvent{}, bellEvent{}, visualBellEvent{},
		updateFgEvent{}, updateBgEvent{}, updateSpEvent{}, flushEvent{},
		suspendEvent{}, setTitleEvent{}, setIconEvent{},
	}
	for _, ev := range events {
		if name := eventName(ev); name == "unknown" {
			t.Errorf("eventName(%T) returned \"unknown\"", ev)
		}
	}
}
