// Package input is the Input Decoder: a byte-oriented stream decoder
// extended from the teacher's tui/input.go and key.go for SGR mouse
// reports, bracketed paste, and focus events, the way
// charmbracelet/bubbletea and ultraviolet extend a plain reader.
package input

import (
	"os"
	"strings"
	"time"

	"github.com/muesli/cancelreader"

	"nvtui/coreiface"
)

// csiTimeout bounds how long the decoder waits for follow-up bytes
// within an escape sequence before giving up and treating what it has
// as a bare ESC.
const csiTimeout = 50 * time.Millisecond

// Decoder turns raw tty bytes into coreiface input events. Exactly one
// goroutine ever touches the underlying reader, eliminating the data
// races a shared bufio.Reader would otherwise invite (teacher's
// tui/input.go comment, carried forward verbatim in spirit).
type Decoder struct {
	cr  cancelreader.CancelReader
	raw chan byte
	f   *os.File
}

// New wraps f (normally os.Stdin) in a cancelable reader and starts the
// byte-reading goroutine.
func New(f *os.File) (*Decoder, error) {
	cr, err := cancelreader.NewReader(f)
	if err != nil {
		return nil, err
	}
	d := &Decoder{cr: cr, raw: make(chan byte, 256), f: f}
	go d.readBytes()
	return d, nil
}

func (d *Decoder) readBytes() {
	buf := make([]byte, 1)
	for {
		n, err := d.cr.Read(buf)
		if n > 0 {
			d.raw <- buf[0]
		}
		if err != nil {
			close(d.raw)
			return
		}
	}
}

// Stop cancels the pending read, unblocking Run's goroutine.
func (d *Decoder) Stop() {
	d.cr.Cancel()
}

// Run decodes the byte stream until the reader is canceled or closed,
// delivering every decoded event to sink. It blocks and is meant to be
// run in its own goroutine by internal/bridge.
func (d *Decoder) Run(sink coreiface.Input) {
	for {
		b, ok := <-d.raw
		if !ok {
			return
		}
		if b == 0x1b {
			d.processEsc(sink)
		} else {
			d.processChar(b, sink)
		}
	}
}

func (d *Decoder) processChar(b byte, sink coreiface.Input) {
	switch {
	case b <= 0x1f:
		sink.PushKey(controlKey(b))
	case b == 0x7f:
		sink.PushKey(coreiface.KeyEvent{Name: "Backspace"})
	default:
		sink.PushKey(coreiface.KeyEvent{Rune: rune(b)})
	}
}

func (d *Decoder) processEsc(sink coreiface.Input) {
	select {
	case next, ok := <-d.raw:
		if !ok {
			sink.PushKey(coreiface.KeyEvent{Name: "Esc"})
			return
		}
		switch next {
		case '[':
			d.parseCSI(sink)
		case 'O':
			d.parseSS3(sink)
		default:
			sink.PushKey(coreiface.KeyEvent{Rune: rune(next), Mods: coreiface.ModAlt})
		}
	case <-time.After(csiTimeout):
		sink.PushKey(coreiface.KeyEvent{Name: "Esc"})
	}
}

func (d *Decoder) readByteTimeout() (byte, bool) {
	select {
	case b, ok := <-d.raw:
		return b, ok
	case <-time.After(csiTimeout):
		return 0, false
	}
}

// parseCSI consumes everything after "ESC [" up to and including the
// final byte, then dispatches on the final byte: '<' starts an SGR
// mouse report, '~' a tilde-terminated key, 'I'/'O' a focus event, and
// the bare letters the teacher's table already covered (arrows,
// home/end) extended with the xterm modifier-parameter convention.
func (d *Decoder) parseCSI(sink coreiface.Input) {
	first, ok := d.readByteTimeout()
	if !ok {
		return
	}
	if first == '<' {
		d.parseSGRMouse(sink)
		return
	}

	var params []byte
	b := first
	for {
		if b >= 0x40 && b <= 0x7e {
			d.dispatchCSI(string(params), b, sink)
			return
		}
		params = append(params, b)
		var ok bool
		b, ok = d.readByteTimeout()
		if !ok {
			return
		}
	}
}

func (d *Decoder) dispatchCSI(params string, final byte, sink coreiface.Input) {
	if params == "200" {
		sink.PushPaste(coreiface.PasteEvent{Start: true})
		return
	}
	if params == "201" {
		sink.PushPaste(coreiface.PasteEvent{Start: false})
		return
	}

	switch final {
	case 'I':
		sink.PushFocus(coreiface.FocusEvent{Gained: true})
		return
	case 'O':
		sink.PushFocus(coreiface.FocusEvent{Gained: false})
		return
	case '~':
		d.dispatchTilde(params, sink)
		return
	}

	name, ok := csiFinalToName[final]
	if !ok {
		return
	}
	mods := coreiface.Mod(0)
	if i := strings.IndexByte(params, ';'); i >= 0 {
		mods = modFromCSIParam(params[i+1:])
	}
	sink.PushKey(coreiface.KeyEvent{Name: name, Mods: mods})
}

func (d *Decoder) dispatchTilde(params string, sink coreiface.Input) {
	key := params
	mods := coreiface.Mod(0)
	if i := strings.IndexByte(params, ';'); i >= 0 {
		key = params[:i]
		mods = modFromCSIParam(params[i+1:])
	}
	if name, ok := tildeParamToName[key]; ok {
		sink.PushKey(coreiface.KeyEvent{Name: name, Mods: mods})
	}
}

func (d *Decoder) parseSS3(sink coreiface.Input) {
	b, ok := d.readByteTimeout()
	if !ok {
		return
	}
	if name, ok := ss3FinalToName[b]; ok {
		sink.PushKey(coreiface.KeyEvent{Name: name})
	}
}

// parseSGRMouse consumes "ESC [ < Cb ; Px ; Py (M|m)", the SGR mouse
// protocol enabled by termcap's ext.enable_mouse sequence.
func (d *Decoder) parseSGRMouse(sink coreiface.Input) {
	var body []byte
	for {
		b, ok := d.readByteTimeout()
		if !ok {
			return
		}
		if b == 'M' || b == 'm' {
			d.dispatchSGRMouse(string(body), b == 'm', sink)
			return
		}
		body = append(body, b)
	}
}

func (d *Decoder) dispatchSGRMouse(body string, isRelease bool, sink coreiface.Input) {
	parts := strings.Split(body, ";")
	if len(parts) != 3 {
		return
	}
	cb := atoiSafe(parts[0])
	col := atoiSafe(parts[1]) - 1
	row := atoiSafe(parts[2]) - 1

	ev := coreiface.MouseEvent{Row: row, Col: col, IsRelease: isRelease}
	if cb&32 != 0 {
		ev.Drag = true
	}
	if cb&4 != 0 {
		ev.Mods |= coreiface.ModShift
	}
	if cb&8 != 0 {
		ev.Mods |= coreiface.ModAlt
	}
	if cb&16 != 0 {
		ev.Mods |= coreiface.ModCtrl
	}

	switch {
	case cb&64 != 0 && cb&1 == 0:
		ev.Button = coreiface.MouseWheelUp
	case cb&64 != 0:
		ev.Button = coreiface.MouseWheelDown
	case isRelease:
		ev.Button = coreiface.MouseRelease
	default:
		switch cb & 3 {
		case 0:
			ev.Button = coreiface.MouseLeft
		case 1:
			ev.Button = coreiface.MouseMiddle
		case 2:
			ev.Button = coreiface.MouseRight
		}
	}

	sink.PushMouse(ev)
}
