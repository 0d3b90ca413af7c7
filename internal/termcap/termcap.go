// Package termcap is the Terminfo Adapter: it loads a terminal
// description, patches missing or broken capabilities per terminal
// family, and formats parameterised capability strings. The detection
// and patch tables are a direct port of nvim's tui.c fix_terminfo.
package termcap

import "strconv"

// Cap names a terminfo string capability by its symbolic name, matching
// the names used throughout spec.md and the terminfo(5) database.
type Cap string

// Standard capabilities the adapter reasons about explicitly.
const (
	CapCursorAddress       Cap = "cursor_address"
	CapClearScreen         Cap = "clear_screen"
	CapClrEOL              Cap = "clr_eol"
	CapClrEOS              Cap = "clr_eos"
	CapChangeScrollRegion  Cap = "change_scroll_region"
	CapSetLRMargin         Cap = "set_lr_margin"
	CapSetTBMargin         Cap = "set_tb_margin"
	CapSetLeftMarginParm   Cap = "set_left_margin_parm"
	CapSetRightMarginParm  Cap = "set_right_margin_parm"
	CapDeleteLine          Cap = "delete_line"
	CapInsertLine          Cap = "insert_line"
	CapParmDeleteLine      Cap = "parm_delete_line"
	CapParmInsertLine      Cap = "parm_insert_line"
	CapEnterCAMode         Cap = "enter_ca_mode"
	CapExitCAMode          Cap = "exit_ca_mode"
	CapCursorInvisible     Cap = "cursor_invisible"
	CapCursorNormal        Cap = "cursor_normal"
	CapExitAttributeMode   Cap = "exit_attribute_mode"
	CapEnterBoldMode       Cap = "enter_bold_mode"
	CapEnterUnderlineMode  Cap = "enter_underline_mode"
	CapEnterItalicsMode    Cap = "enter_italics_mode"
	CapEnterReverseMode    Cap = "enter_reverse_mode"
	CapSetAForeground      Cap = "set_a_foreground"
	CapSetABackground      Cap = "set_a_background"
	CapMaxColors           Cap = "max_colors"
	CapBackColorErase      Cap = "back_color_erase"
	CapToStatusLine        Cap = "to_status_line"
	CapFromStatusLine      Cap = "from_status_line"
	CapBell                Cap = "bell"
	CapFlashScreen         Cap = "flash_screen"
	CapKeyBackspace        Cap = "key_backspace"
	CapKeyDC               Cap = "key_dc"
	CapColumns             Cap = "columns"
	CapLines               Cap = "lines"

	// Extension slots the adapter appends for sequences not present in
	// any terminfo database (spec.md §3).
	CapEnableLRMargin          Cap = "ext.enable_lr_margin"
	CapDisableLRMargin         Cap = "ext.disable_lr_margin"
	CapEnableBracketedPaste    Cap = "ext.enable_bracketed_paste"
	CapDisableBracketedPaste   Cap = "ext.disable_bracketed_paste"
	CapEnableFocusReporting    Cap = "ext.enable_focus_reporting"
	CapDisableFocusReporting   Cap = "ext.disable_focus_reporting"
	CapResizeScreen            Cap = "ext.resize_screen"
	CapResetScrollRegion       Cap = "ext.reset_scroll_region"
	CapSetCursorColor          Cap = "ext.set_cursor_color"
	CapEnableMouse             Cap = "ext.enable_mouse"
	CapDisableMouse            Cap = "ext.disable_mouse"
	CapSetRGBForeground        Cap = "ext.set_rgb_foreground"
	CapSetRGBBackground        Cap = "ext.set_rgb_background"
	CapCursorShapeDECSCUSR     Cap = "ext.cursor_shape_decscusr"
	CapCursorShapeKonsole      Cap = "ext.cursor_shape_konsole"
)

// Family identifies the detected terminal family, used only to select
// which patch table fix_terminfo-style logic applies.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyRxvt
	FamilyKonsole
	FamilyITerm
	FamilyGnome
	FamilyXTerm
	FamilyDTTerm
	FamilyTeraTerm
)

// Set is an immutable-after-startup, symbolically-keyed capability
// table. A capability absent from the map is "unavailable" and every
// caller must treat that as a silent no-op (spec.md §7).
type Set map[Cap]string

// Has reports whether a capability has a usable format string.
func (s Set) Has(c Cap) bool {
	v, ok := s[c]
	return ok && v != ""
}

// setIfEmpty fills a capability only if it is not already present,
// mirroring tui.c's unibi_set_if_empty.
func (s Set) setIfEmpty(c Cap, v string) {
	if !s.Has(c) {
		s[c] = v
	}
}

// Bool capabilities the adapter cares about (only back_color_erase).
type Bools map[Cap]bool

// Has reports whether a boolean capability is set and true.
func (b Bools) Has(c Cap) bool { return b[c] }

// Adapter is the Terminfo Adapter: immutable capability set, detected
// family, and the small amount of terminal-family context (is_tmux)
// the renderer and input decoder need.
type Adapter struct {
	Caps    Set
	Bools   Bools
	Numbers map[Cap]int

	Family Family
	IsTmux bool

	// stty-derived erase byte, filled in by FixKeyboard once the input
	// layer has read VERASE via termios (spec.md §4.2).
	verase byte
}

// Format substitutes %p1..%p9 (and the small operator subset terminfo
// actually uses in the capabilities this adapter deals with) into the
// named capability's format string. It returns nil if the capability is
// unavailable — callers must treat that as a silent skip.
func (a *Adapter) Format(c Cap, params ...int) []byte {
	tmpl, ok := a.Caps[c]
	if !ok || tmpl == "" {
		return nil
	}
	return formatTemplate(tmpl, params)
}

// formatTemplate interprets the minimal terminfo parameter language
// used by every capability this adapter loads or synthesises: %p1-%p9
// (push param), %{n} (push literal), %d (pop, print decimal), %i
// (increment the first two params), %x and %0<width>x (pop, print
// zero-padded hex), %+ %- (arithmetic), %< %> (compare),
// %? %t %e %; (conditional), and %% (literal percent). This is not a
// general terminfo interpreter — spec.md's Non-goals exclude that — it
// covers exactly the template vocabulary nvim's tui.c emits.
func formatTemplate(tmpl string, params []int) []byte {
	p := make([]int, len(params))
	copy(p, params)

	var out []byte
	var stack []int
	push := func(v int) { stack = append(stack, v) }
	pop := func() int {
		if len(stack) == 0 {
			return 0
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	i := 0
	// skipToElseOrEnd skips tokens until the matching %e or %; at the
	// current nesting depth, returning true if it stopped at %e.
	var skipBranch func() bool
	skipBranch = func() bool {
		depth := 0
		for i < len(tmpl) {
			if tmpl[i] != '%' || i+1 >= len(tmpl) {
				i++
				continue
			}
			switch tmpl[i+1] {
			case '?':
				depth++
				i += 2
			case ';':
				if depth == 0 {
					i += 2
					return false
				}
				depth--
				i += 2
			case 'e':
				if depth == 0 {
					i += 2
					return true
				}
				i += 2
			default:
				i += 2
			}
		}
		return false
	}

	for i < len(tmpl) {
		c := tmpl[i]
		if c != '%' {
			out = append(out, c)
			i++
			continue
		}
		if i+1 >= len(tmpl) {
			break
		}
		op := tmpl[i+1]
		i += 2
		switch op {
		case '%':
			out = append(out, '%')
		case 'i':
			if len(p) > 0 {
				p[0]++
			}
			if len(p) > 1 {
				p[1]++
			}
		case 'd':
			out = append(out, []byte(strconv.Itoa(pop()))...)
		case 'x', '0':
			j := i
			for op == '0' && j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
				j++
			}
			width, _ := strconv.Atoi(tmpl[i:j])
			s := strconv.FormatInt(int64(pop()), 16)
			for len(s) < width {
				s = "0" + s
			}
			out = append(out, s...)
			if op == '0' {
				i = j + 1 // skip the trailing 'x'
			}
		case 'c':
			out = append(out, byte(pop()))
		case '+':
			b, a := pop(), pop()
			push(a + b)
		case '-':
			b, a := pop(), pop()
			push(a - b)
		case '<':
			b, a := pop(), pop()
			push(boolInt(a < b))
		case '>':
			b, a := pop(), pop()
			push(boolInt(a > b))
		case '=':
			b, a := pop(), pop()
			push(boolInt(a == b))
		case '?':
			// start of conditional; nothing to do
		case 't':
			if pop() == 0 {
				if skipBranch() {
					// stopped at %e: fall through into the else branch
				} else {
					// stopped at %;: conditional is done
				}
			}
		case 'e':
			// reached the end of a taken %t branch: skip to %;
			depth := 0
			for i < len(tmpl) {
				if tmpl[i] != '%' || i+1 >= len(tmpl) {
					i++
					continue
				}
				if tmpl[i+1] == '?' {
					depth++
					i += 2
					continue
				}
				if tmpl[i+1] == ';' {
					if depth == 0 {
						i += 2
						break
					}
					depth--
				}
				i += 2
			}
		case ';':
			// end of conditional; nothing to do
		case 'p':
			if i < len(tmpl) {
				n := int(tmpl[i] - '0')
				i++
				if n >= 1 && n <= len(p) {
					push(p[n-1])
				} else {
					push(0)
				}
			}
		case '{':
			j := i
			for j < len(tmpl) && tmpl[j] != '}' {
				j++
			}
			n, _ := strconv.Atoi(tmpl[i:j])
			push(n)
			i = j + 1
		}
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
