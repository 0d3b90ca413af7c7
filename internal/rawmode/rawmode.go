// Package rawmode wraps golang.org/x/term's raw-mode control, ported
// from the teacher's tui/term.go.
package rawmode

import (
	"os"

	"golang.org/x/term"
)

// State is the terminal state to restore on Close.
type State struct {
	state *term.State
}

// Enable puts f into raw mode, returning the previous state.
func Enable(f *os.File) (*State, error) {
	oldState, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return nil, err
	}
	return &State{state: oldState}, nil
}

// Restore returns f to the state captured by Enable. A nil State (raw
// mode was never entered, e.g. stdin isn't a tty) is a no-op.
func Restore(f *os.File, s *State) error {
	if s == nil || s.state == nil {
		return nil
	}
	return term.Restore(int(f.Fd()), s.state)
}

// Size reports the current terminal dimensions.
func Size(f *os.File) (width, height int, err error) {
	return term.GetSize(int(f.Fd()))
}
