package termcap

import (
	"os"

	"github.com/xo/terminfo"
)

// loadBase seeds a capability Set from the real terminfo database via
// xo/terminfo (the library the retrieved pack pulls in for exactly this
// purpose, e.g. charmbracelet/ultraviolet's terminal stack). When the
// database has no entry for $TERM — a common situation in minimal
// containers — it returns an empty Set and the caller falls back to the
// synthetic xterm-shaped defaults fixTerminfo already installs.
func loadBase(env Env) (Set, Bools, map[Cap]int) {
	ti, err := terminfo.Load(env.Getenv("TERM"))
	set := Set{}
	bools := Bools{}
	nums := map[Cap]int{}
	if err != nil || ti == nil {
		return set, bools, nums
	}

	// copyStr reads the capability's raw, unresolved template string
	// (the %p1/%d tokens intact) so formatTemplate can substitute the
	// real parameters later. ti.Printf(i) would bake the template
	// against zero/absent parameters instead, which is wrong here.
	copyStr := func(c Cap, i int) {
		if s := ti.Strings[i]; len(s) > 0 {
			set[c] = string(s)
		}
	}
	copyStr(CapCursorAddress, terminfo.CursorAddress)
	copyStr(CapClearScreen, terminfo.ClearScreen)
	copyStr(CapClrEOL, terminfo.ClrEol)
	copyStr(CapClrEOS, terminfo.ClrEos)
	copyStr(CapChangeScrollRegion, terminfo.ChangeScrollRegion)
	copyStr(CapSetLRMargin, terminfo.SetLrMargin)
	copyStr(CapSetTBMargin, terminfo.SetTbMargin)
	copyStr(CapSetLeftMarginParm, terminfo.SetLeftMarginParm)
	copyStr(CapSetRightMarginParm, terminfo.SetRightMarginParm)
	copyStr(CapDeleteLine, terminfo.DeleteLine)
	copyStr(CapInsertLine, terminfo.InsertLine)
	copyStr(CapParmDeleteLine, terminfo.ParmDeleteLine)
	copyStr(CapParmInsertLine, terminfo.ParmInsertLine)
	copyStr(CapEnterCAMode, terminfo.EnterCaMode)
	copyStr(CapExitCAMode, terminfo.ExitCaMode)
	copyStr(CapCursorInvisible, terminfo.CursorInvisible)
	copyStr(CapCursorNormal, terminfo.CursorNormal)
	copyStr(CapExitAttributeMode, terminfo.ExitAttributeMode)
	copyStr(CapEnterBoldMode, terminfo.EnterBoldMode)
	copyStr(CapEnterUnderlineMode, terminfo.EnterUnderlineMode)
	copyStr(CapEnterItalicsMode, terminfo.EnterItalicsMode)
	copyStr(CapEnterReverseMode, terminfo.EnterReverseMode)
	copyStr(CapSetAForeground, terminfo.SetAForeground)
	copyStr(CapSetABackground, terminfo.SetABackground)
	copyStr(CapToStatusLine, terminfo.ToStatusLine)
	copyStr(CapFromStatusLine, terminfo.FromStatusLine)
	copyStr(CapBell, terminfo.Bell)
	copyStr(CapFlashScreen, terminfo.FlashScreen)
	copyStr(CapKeyBackspace, terminfo.KeyBackspace)
	copyStr(CapKeyDC, terminfo.KeyDc)

	if ti.Has(terminfo.BackColorErase) {
		bools[CapBackColorErase] = true
	}
	if n := ti.Num(terminfo.MaxColors); n > 0 {
		nums[CapMaxColors] = n
	}
	if n := ti.Num(terminfo.Columns); n > 0 {
		nums[CapColumns] = n
	}
	if n := ti.Num(terminfo.Lines); n > 0 {
		nums[CapLines] = n
	}

	return set, bools, nums
}

// environ adapts os.Getenv to the Env interface detect.go consumes.
type environ struct{}

func (environ) Getenv(key string) string { return os.Getenv(key) }
