//go:build linux

package input

import "golang.org/x/sys/unix"

const ioctlGetTermios = unix.TCGETS

// VERASE reads the tty's configured erase character via termios, the
// hook internal/termcap.Adapter.FixKeyboard needs to reconcile kbs/
// kdch1 against whatever key the kernel actually sends for Backspace
// (spec.md §4.2, tui.c's tui_get_stty_erase).
func (d *Decoder) VERASE() byte {
	termios, err := unix.IoctlGetTermios(int(d.f.Fd()), ioctlGetTermios)
	if err != nil {
		return 0
	}
	return termios.Cc[unix.VERASE]
}
