package termcap

import "strings"

// xtermSetaf and xtermSetab are the 256-color SGR templates nvim's
// tui.c installs whenever it decides a terminal understands 256 colors
// even though its terminfo entry only advertises 8 (XTERM_SETAF/SETAB).
const (
	xtermSetaf = "\x1b[%?%p1%{8}%<%t3%p1%d%e%p1%{16}%<%t9%p1%{8}%-%d%e38;5;%p1%d%;m"
	xtermSetab = "\x1b[%?%p1%{8}%<%t4%p1%d%e%p1%{16}%<%t9%p1%{8}%-%d%e48;5;%p1%d%;m"
)

// detectFamily ports nvim tui.c's detect_term, in the same order: each
// predicate is checked in sequence and the first match wins.
func detectFamily(env Env) Family {
	term := env.Getenv("TERM")

	if strings.HasPrefix(term, "rxvt") {
		return FamilyRxvt
	}
	if env.Getenv("KONSOLE_PROFILE_NAME") != "" || env.Getenv("KONSOLE_DBUS_SESSION") != "" {
		return FamilyKonsole
	}
	if strings.Contains(env.Getenv("TERM_PROGRAM"), "iTerm.app") {
		return FamilyITerm
	}
	if strings.Contains(env.Getenv("COLORTERM"), "gnome-terminal") {
		return FamilyGnome
	}
	if strings.HasPrefix(term, "xterm") {
		return FamilyXTerm
	}
	if strings.HasPrefix(term, "dtterm") {
		return FamilyDTTerm
	}
	if strings.HasPrefix(term, "teraterm") {
		return FamilyTeraTerm
	}
	return FamilyUnknown
}

// Env abstracts environment lookups so detection is testable without
// mutating the process environment.
type Env interface {
	Getenv(key string) string
}

// fixTerminfo applies nvim tui.c's fix_terminfo patch table to caps in
// place. term/colorterm are read once by the caller (detectFamily) and
// passed in again here to keep the two in lock-step with the source.
func fixTerminfo(caps Set, bools Bools, family Family, env Env) {
	term := env.Getenv("TERM")
	colorterm := env.Getenv("COLORTERM")
	isTmux := env.Getenv("TMUX") != ""

	if term == "" {
		goto ext
	}

	switch family {
	case FamilyRxvt:
		caps.setIfEmpty(CapExitAttributeMode, "\x1b[m\x1b(B")
		caps.setIfEmpty(CapFlashScreen, "\x1b[?5h$<20/>\x1b[?5l")
		caps.setIfEmpty(CapEnterItalicsMode, "\x1b[3m")
		caps.setIfEmpty(CapToStatusLine, "\x1b]2")
	case FamilyXTerm:
		caps.setIfEmpty(CapToStatusLine, "\x1b]0;")
	}

	if strings.HasPrefix(term, "screen") || strings.HasPrefix(term, "tmux") {
		caps.setIfEmpty(CapToStatusLine, "\x1b_")
		caps.setIfEmpty(CapFromStatusLine, "\x1b\\")
	}

	if family == FamilyXTerm || family == FamilyRxvt {
		if normal, ok := caps[CapCursorNormal]; !ok || normal == "" {
			caps[CapCursorNormal] = "\x1b[?25h"
		} else if strings.HasPrefix(normal, "\x1b[?12l") {
			// The terminfo cursor_normal commonly also resets blink
			// (DECRST 12); skip that prefix but keep the rest.
			caps[CapCursorNormal] = normal[len("\x1b[?12l"):]
		}

		caps.setIfEmpty(CapCursorInvisible, "\x1b[?25l")
		caps.setIfEmpty(CapFlashScreen, "\x1b[?5h$<100/>\x1b[?5l")
		caps.setIfEmpty(CapExitAttributeMode, "\x1b(B\x1b[m")
		caps.setIfEmpty(CapSetTBMargin, "\x1b[%i%p1%d;%p2%dr")
		caps.setIfEmpty(CapSetLRMargin, "\x1b[%i%p1%d;%p2%ds")
		caps.setIfEmpty(CapSetLeftMarginParm, "\x1b[%i%p1%ds")
		caps.setIfEmpty(CapSetRightMarginParm, "\x1b[%i;%p2%ds")
		caps.setIfEmpty(CapChangeScrollRegion, "\x1b[%i%p1%d;%p2%dr")
		caps.setIfEmpty(CapClearScreen, "\x1b[H\x1b[2J")
		caps.setIfEmpty(CapFromStatusLine, "\x07")
		bools[CapBackColorErase] = true
	}

	caps[CapEnableLRMargin] = "\x1b[?69h"
	caps[CapDisableLRMargin] = "\x1b[?69l"
	caps[CapEnableBracketedPaste] = "\x1b[?2004h"
	caps[CapDisableBracketedPaste] = "\x1b[?2004l"
	caps[CapEnableFocusReporting] = "\x1b[?1004h"
	caps[CapDisableFocusReporting] = "\x1b[?1004l"

	if strings.Contains(colorterm, "256") ||
		strings.HasPrefix(term, "linux") ||
		strings.Contains(term, "256") ||
		strings.Contains(term, "xterm") {
		caps[CapMaxColors] = "256"
		caps[CapSetAForeground] = xtermSetaf
		caps[CapSetABackground] = xtermSetab
	}

	switch family {
	case FamilyDTTerm, FamilyXTerm, FamilyKonsole, FamilyTeraTerm, FamilyRxvt:
		caps[CapResizeScreen] = "\x1b[8;%p1%d;%p2%dt"
	}

	if family == FamilyXTerm || family == FamilyRxvt {
		caps[CapResetScrollRegion] = "\x1b[r"
	}

ext:
	if family == FamilyITerm {
		caps[CapSetCursorColor] = tmuxWrap("\x1b]Pl%p1%06x\x1b\\", isTmux)
	} else {
		caps[CapSetCursorColor] = tmuxWrap("\x1b]12;#%p1%06x\x07", isTmux)
	}

	caps[CapEnableMouse] = "\x1b[?1002h\x1b[?1006h"
	caps[CapDisableMouse] = "\x1b[?1002l\x1b[?1006l"
	caps[CapSetRGBForeground] = "\x1b[38;2;%p1%d;%p2%d;%p3%dm"
	caps[CapSetRGBBackground] = "\x1b[48;2;%p1%d;%p2%d;%p3%dm"
	caps[CapCursorShapeDECSCUSR] = "\x1b[%p1%d q"
	caps[CapCursorShapeKonsole] = tmuxWrap("\x1b]50;CursorShape=%p1%d;BlinkingCursorEnabled=%p2%d\x07", isTmux)

	caps.setIfEmpty(CapCursorAddress, "\x1b[%i%p1%d;%p2%dH")
	caps.setIfEmpty(CapExitAttributeMode, "\x1b[0;10m")
	caps.setIfEmpty(CapSetAForeground, xtermSetaf)
	caps.setIfEmpty(CapSetABackground, xtermSetab)
	caps.setIfEmpty(CapEnterBoldMode, "\x1b[1m")
	caps.setIfEmpty(CapEnterUnderlineMode, "\x1b[4m")
	caps.setIfEmpty(CapEnterReverseMode, "\x1b[7m")
	caps.setIfEmpty(CapBell, "\x07")
	caps.setIfEmpty(CapEnterCAMode, "\x1b[?1049h")
	caps.setIfEmpty(CapExitCAMode, "\x1b[?1049l")
	caps.setIfEmpty(CapDeleteLine, "\x1b[M")
	caps.setIfEmpty(CapInsertLine, "\x1b[L")
	caps.setIfEmpty(CapParmDeleteLine, "\x1b[%p1%dM")
	caps.setIfEmpty(CapParmInsertLine, "\x1b[%p1%dL")
	caps.setIfEmpty(CapClrEOL, "\x1b[K")
	caps.setIfEmpty(CapClrEOS, "\x1b[J")
}

// tmuxWrap encloses seq in the tmux DCS passthrough wrapper so the
// outer tmux forwards it to the real terminal unchanged (spec.md's
// "tmux-wrap" glossary entry / tui.c's TMUX_WRAP macro).
func tmuxWrap(seq string, isTmux bool) string {
	if !isTmux {
		return seq
	}
	return "\x1bPtmux;" + strings.ReplaceAll(seq, "\x1b", "\x1b\x1b") + "\x1b\\"
}
