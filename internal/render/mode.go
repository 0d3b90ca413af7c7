package render

import "nvtui/internal/termcap"

// decscusrShape maps a mode entry's cursor_shape name plus blink state
// to the DECSCUSR parameter (CSI Ps SP q), per tui.c's cursor_shape
// table: block=2/1, underline=4/3, bar(vertical)=6/5, blinking when
// blinkon>0.
func decscusrShape(shape string, blinking bool) int {
	steady, blink := 2, 1
	switch shape {
	case "horizontal":
		steady, blink = 4, 3
	case "vertical":
		steady, blink = 6, 5
	}
	if blinking {
		return blink
	}
	return steady
}

// konsoleShape maps a cursor_shape name to Konsole's OSC 50
// CursorShape parameter: 0=block, 1=vertical bar, 2=underline.
func konsoleShape(shape string) int {
	switch shape {
	case "vertical":
		return 1
	case "horizontal":
		return 2
	default:
		return 0
	}
}

// ModeChange emits a cursor-shape (and, in RGB mode, cursor-color)
// sequence for the named mode, unless mode_info_set disabled cursor
// styling or the mode index is out of range.
func (r *Renderer) ModeChange(name string, index int) {
	r.curModeIdx = index
	if !r.modeEnabled || index < 0 || index >= len(r.modes) {
		return
	}
	entry := r.modes[index]
	blinking := entry.BlinkOn > 0

	if r.term.Family == termcap.FamilyKonsole {
		seq := r.term.Format(termcap.CapCursorShapeKonsole, konsoleShape(entry.CursorShape), boolToInt(blinking))
		if seq != nil {
			r.out.Out(seq)
		}
	} else {
		seq := r.term.Format(termcap.CapCursorShapeDECSCUSR, decscusrShape(entry.CursorShape, blinking))
		if seq != nil {
			r.out.Out(seq)
		}
	}

	if r.rgb && entry.HLID != 0 {
		if color, ok := r.cursorColorForHL(entry.HLID); ok {
			if seq := r.term.Format(termcap.CapSetCursorColor, int(color)); seq != nil {
				r.out.Out(seq)
			}
		}
	}
}

// cursorColorForHL resolves a highlight group id to an RGB color. The
// editor core is the source of truth for highlight groups; this stub
// returns false until a core wires one in via SetCursorColorLookup.
func (r *Renderer) cursorColorForHL(hlID int) (color int32, ok bool) {
	if r.cursorColorLookup == nil {
		return 0, false
	}
	return r.cursorColorLookup(hlID)
}

// SetCursorColorLookup wires in the core's highlight-id to RGB-color
// resolver, used by ModeChange when mode_change derives a cursor color
// from the mode's highlight group.
func (r *Renderer) SetCursorColorLookup(fn func(hlID int) (int32, bool)) {
	r.cursorColorLookup = fn
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
