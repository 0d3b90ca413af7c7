// Command nvtui-demo drives internal/bridge directly, standing in for
// an editor core: it attaches, draws a static screen, waits for 'q' or
// Ctrl-C, and detaches cleanly.
package main

import (
	"fmt"
	"os"

	"nvtui/coreiface"
	"nvtui/internal/bridge"
)

// demoCore implements coreiface.Input well enough to watch for the
// quit keys; every other event is dropped, same as the teacher's
// example programs only wiring the handlers they need.
type demoCore struct {
	quit chan struct{}
}

func (c *demoCore) PushKey(ev coreiface.KeyEvent) {
	if ev.Name == "" && (ev.Rune == 'q' || (ev.Rune == 'c' && ev.Mods&coreiface.ModCtrl != 0)) {
		close(c.quit)
	}
}

func (c *demoCore) PushMouse(coreiface.MouseEvent)   {}
func (c *demoCore) PushPaste(coreiface.PasteEvent)   {}
func (c *demoCore) PushFocus(coreiface.FocusEvent)   {}
func (c *demoCore) PushResize(coreiface.ResizeEvent) {}

func main() {
	core := &demoCore{quit: make(chan struct{})}
	b := bridge.New(core, os.Stdin, os.Stdout)

	b.Attach(coreiface.Options{RGB: true})
	defer b.Stop()

	b.Clear()
	b.CursorGoto(0, 0)
	b.Put([]byte("nvtui-demo — press q or Ctrl-C to quit"))
	b.Flush()

	<-core.quit
	fmt.Fprintln(os.Stderr, "\nnvtui-demo: exiting")
}
