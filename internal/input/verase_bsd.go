//go:build darwin || freebsd || netbsd || openbsd

package input

import "golang.org/x/sys/unix"

const ioctlGetTermios = unix.TIOCGETA

// VERASE reads the tty's configured erase character via termios. See
// verase_unix.go (the Linux variant) for the rationale.
func (d *Decoder) VERASE() byte {
	termios, err := unix.IoctlGetTermios(int(d.f.Fd()), ioctlGetTermios)
	if err != nil {
		return 0
	}
	return termios.Cc[unix.VERASE]
}
