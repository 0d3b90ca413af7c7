package render

import (
	"bytes"
	"strings"
	"testing"

	"nvtui/coreiface"
	"nvtui/internal/termcap"
)

func xtermAdapter() *termcap.Adapter {
	return termcap.LoadEnv(fakeEnv{"TERM": "xterm-256color"})
}

type fakeEnv map[string]string

func (e fakeEnv) Getenv(k string) string { return e[k] }

func newTestRenderer(t *testing.T, width, height int) (*Renderer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	term := xtermAdapter()
	w := termcap.NewWriter(&buf)
	r := New(term, w, width, height, false, nil)
	return r, &buf
}

func TestE1BasicPutSequence(t *testing.T) {
	r, buf := newTestRenderer(t, 80, 24)
	r.Clear()
	r.CursorGoto(0, 0)
	r.HighlightSet(coreiface.HighlightAttr{Foreground: 1, Background: -1})
	r.Put([]byte("H"))
	r.Put([]byte("i"))
	r.Flush()

	out := buf.String()
	if !strings.Contains(out, "\x1b[1;1H") {
		t.Errorf("expected a CSI 1;1H cursor address, got %q", out)
	}
	if strings.Count(out, "\x1b[1;1H") != 1 {
		t.Errorf("expected exactly one CSI 1;1H, got %d in %q", strings.Count(out, "\x1b[1;1H"), out)
	}
	if !strings.Contains(out, "H") || !strings.Contains(out, "i") {
		t.Errorf("expected literal H and i bytes, got %q", out)
	}
	if strings.Contains(out, "48;5;") || strings.Contains(out, "48;2;") {
		t.Errorf("did not expect a background SGR change, got %q", out)
	}
}

func TestIncrementalSGRSkipsUnchangedPen(t *testing.T) {
	r, buf := newTestRenderer(t, 10, 10)
	r.Clear()
	buf.Reset()

	r.CursorGoto(0, 0)
	r.HighlightSet(coreiface.HighlightAttr{Foreground: 2, Background: -1})
	r.Put([]byte("a"))
	r.Put([]byte("b"))
	r.Flush()

	out := buf.String()
	reset := string(r.term.Format(termcap.CapExitAttributeMode))
	// Both cells share the same pen: exactly one SGR reset sequence
	// should appear, not one per cell.
	if n := strings.Count(out, reset); n > 1 {
		t.Errorf("expected at most one SGR reset for two same-pen cells, got %d in %q", n, out)
	}
}

func TestScrollUpEmitsDeleteLineNotPerCellRepaint(t *testing.T) {
	r, buf := newTestRenderer(t, 80, 24)
	r.Clear()
	r.SetScrollRegion(0, 23, 0, 79)
	r.CursorGoto(0, 0)
	buf.Reset()

	r.Scroll(1)
	r.Flush()

	out := buf.String()
	if !strings.Contains(out, "\x1b[M") && !strings.Contains(out, "M") {
		t.Errorf("expected a delete_line-family sequence, got %q", out)
	}
}

func TestBusyStartSuppressesCursorNormal(t *testing.T) {
	r, buf := newTestRenderer(t, 10, 10)
	r.Clear()
	r.BusyStart()
	buf.Reset()
	r.Flush()

	if strings.Contains(buf.String(), "\x1b[?25h") {
		t.Errorf("cursor_normal must not be emitted while busy, got %q", buf.String())
	}
}

func TestBackpressurePurgesAndClearsBusy(t *testing.T) {
	r, buf := newTestRenderer(t, 10, 10)
	r.BusyStart()

	purged := false
	r.SetQueueProbe(QueueProbe{
		Depth: func() int { return BackpressureThreshold + 1 },
		Purge: func() { purged = true },
	})

	r.Flush()

	if !purged {
		t.Fatal("expected the queue to be purged when depth exceeds the threshold")
	}
	if r.busy {
		t.Fatal("expected busy to be cleared by back-pressure purge")
	}
	if !strings.Contains(buf.String(), "\x1b[?25h") {
		t.Error("expected cursor_normal to be emitted once busy was cleared")
	}
}

func TestModeChangeEmitsDECSCUSR(t *testing.T) {
	r, buf := newTestRenderer(t, 10, 10)
	r.ModeInfoSet(true, []coreiface.ModeEntry{
		{CursorShape: "vertical", BlinkOn: 500, BlinkOff: 500},
		{CursorShape: "block"},
	})
	r.ModeChange("insert", 0)
	r.out.Flush()

	if !strings.Contains(buf.String(), "\x1b[5 q") {
		t.Errorf("expected a DECSCUSR blinking-vertical sequence, got %q", buf.String())
	}
}

func TestModeChangeSkippedWhenDisabled(t *testing.T) {
	r, buf := newTestRenderer(t, 10, 10)
	r.ModeInfoSet(false, []coreiface.ModeEntry{{CursorShape: "vertical", BlinkOn: 500}})
	r.ModeChange("insert", 0)
	r.out.Flush()

	if buf.Len() != 0 {
		t.Errorf("expected no cursor-shape sequence while mode_info_set is disabled, got %q", buf.String())
	}
}

func TestResizeSkipsResizeScreenWhenWinchAlreadyArrived(t *testing.T) {
	var winch int32 = 1
	var buf bytes.Buffer
	term := xtermAdapter()
	w := termcap.NewWriter(&buf)
	r := New(term, w, 80, 24, false, &winch)

	r.Resize(100, 40)
	r.out.Flush()

	if strings.Contains(buf.String(), "8;") {
		t.Errorf("expected resize_screen to be skipped when SIGWINCH already arrived, got %q", buf.String())
	}
	if winch != 0 {
		t.Error("expected Resize to consume the gotWinch flag")
	}
}

func TestMouseOnOffIdempotent(t *testing.T) {
	r, buf := newTestRenderer(t, 10, 10)
	r.MouseOn()
	r.out.Flush()
	first := buf.String()
	buf.Reset()
	r.MouseOn()
	r.out.Flush()
	if buf.Len() != 0 {
		t.Errorf("second MouseOn must be a no-op, got %q", buf.String())
	}
	if !strings.Contains(first, "1002") {
		t.Errorf("expected SGR mouse enable sequence, got %q", first)
	}
}
