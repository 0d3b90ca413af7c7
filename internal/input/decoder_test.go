package input

import (
	"testing"

	"nvtui/coreiface"
)

type fakeSink struct {
	keys    []coreiface.KeyEvent
	mouse   []coreiface.MouseEvent
	pastes  []coreiface.PasteEvent
	focuses []coreiface.FocusEvent
	resizes []coreiface.ResizeEvent
}

func (s *fakeSink) PushKey(ev coreiface.KeyEvent)       { s.keys = append(s.keys, ev) }
func (s *fakeSink) PushMouse(ev coreiface.MouseEvent)   { s.mouse = append(s.mouse, ev) }
func (s *fakeSink) PushPaste(ev coreiface.PasteEvent)   { s.pastes = append(s.pastes, ev) }
func (s *fakeSink) PushFocus(ev coreiface.FocusEvent)   { s.focuses = append(s.focuses, ev) }
func (s *fakeSink) PushResize(ev coreiface.ResizeEvent) { s.resizes = append(s.resizes, ev) }

func newTestDecoder() *Decoder {
	return &Decoder{raw: make(chan byte, 64)}
}

func feed(d *Decoder, bytes ...byte) {
	for _, b := range bytes {
		d.raw <- b
	}
}

func TestControlKeyMapping(t *testing.T) {
	sink := &fakeSink{}
	d := newTestDecoder()

	d.processChar(0x0d, sink)
	d.processChar(0x09, sink)
	d.processChar(0x08, sink)
	d.processChar(0x7f, sink)
	d.processChar('a', sink)

	want := []coreiface.KeyEvent{
		{Name: "Enter"}, {Name: "Tab"}, {Name: "Backspace"}, {Name: "Backspace"}, {Rune: 'a'},
	}
	if len(sink.keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(sink.keys), len(want))
	}
	for i := range want {
		if sink.keys[i] != want[i] {
			t.Errorf("key %d = %+v, want %+v", i, sink.keys[i], want[i])
		}
	}
}

func TestCtrlLetterFallback(t *testing.T) {
	sink := &fakeSink{}
	d := newTestDecoder()
	d.processChar(0x03, sink) // Ctrl+C
	if len(sink.keys) != 1 || sink.keys[0].Rune != 'c' || sink.keys[0].Mods != coreiface.ModCtrl {
		t.Fatalf("got %+v, want Ctrl+c", sink.keys)
	}
}

func TestArrowKeyCSI(t *testing.T) {
	sink := &fakeSink{}
	d := newTestDecoder()
	feed(d, 'A')
	d.parseCSI(sink)
	if len(sink.keys) != 1 || sink.keys[0].Name != "Up" {
		t.Fatalf("got %+v, want Up", sink.keys)
	}
}

func TestTildeKeyWithModifier(t *testing.T) {
	sink := &fakeSink{}
	d := newTestDecoder()
	feed(d, '3', ';', '5', '~') // Delete with Ctrl
	d.parseCSI(sink)
	if len(sink.keys) != 1 || sink.keys[0].Name != "Delete" || sink.keys[0].Mods != coreiface.ModCtrl {
		t.Fatalf("got %+v, want Delete+Ctrl", sink.keys)
	}
}

func TestFocusEvents(t *testing.T) {
	sink := &fakeSink{}
	d := newTestDecoder()
	feed(d, 'I')
	d.parseCSI(sink)
	feed(d, 'O')
	d.parseCSI(sink)

	if len(sink.focuses) != 2 || !sink.focuses[0].Gained || sink.focuses[1].Gained {
		t.Fatalf("got %+v", sink.focuses)
	}
}

func TestBracketedPasteMarkers(t *testing.T) {
	sink := &fakeSink{}
	d := newTestDecoder()
	feed(d, '2', '0', '0', '~')
	d.parseCSI(sink)
	feed(d, '2', '0', '1', '~')
	d.parseCSI(sink)

	if len(sink.pastes) != 2 || !sink.pastes[0].Start || sink.pastes[1].Start {
		t.Fatalf("got %+v", sink.pastes)
	}
}

func TestSGRMouseLeftClickAndRelease(t *testing.T) {
	sink := &fakeSink{}
	d := newTestDecoder()
	feed(d, '<')
	feed(d, []byte("0;10;5")...)
	feed(d, 'M')
	d.parseCSI(sink)

	if len(sink.mouse) != 1 {
		t.Fatalf("got %d mouse events, want 1", len(sink.mouse))
	}
	ev := sink.mouse[0]
	if ev.Button != coreiface.MouseLeft || ev.Col != 9 || ev.Row != 4 || ev.IsRelease {
		t.Fatalf("got %+v", ev)
	}
}

func TestSGRMouseWheel(t *testing.T) {
	sink := &fakeSink{}
	d := newTestDecoder()
	feed(d, '<')
	feed(d, []byte("64;1;1")...)
	feed(d, 'M')
	d.parseCSI(sink)

	if len(sink.mouse) != 1 || sink.mouse[0].Button != coreiface.MouseWheelUp {
		t.Fatalf("got %+v, want wheel up", sink.mouse)
	}
}

func TestSS3ArrowsAndFunctionKeys(t *testing.T) {
	sink := &fakeSink{}
	d := newTestDecoder()
	feed(d, 'P')
	d.parseSS3(sink)
	if len(sink.keys) != 1 || sink.keys[0].Name != "F1" {
		t.Fatalf("got %+v, want F1", sink.keys)
	}
}

func TestModFromCSIParam(t *testing.T) {
	cases := map[string]coreiface.Mod{
		"1": 0,
		"2": coreiface.ModShift,
		"3": coreiface.ModAlt,
		"5": coreiface.ModCtrl,
		"8": coreiface.ModShift | coreiface.ModAlt | coreiface.ModCtrl,
	}
	for in, want := range cases {
		if got := modFromCSIParam(in); got != want {
			t.Errorf("modFromCSIParam(%q) = %v, want %v", in, got, want)
		}
	}
}
