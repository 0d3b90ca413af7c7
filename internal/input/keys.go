package input

import "nvtui/coreiface"

// csiFinalToName maps a non-tilde CSI final byte to a named key (any
// "1;<mod>" parameter only contributes modifiers), the way the
// teacher's dispatchCSI table does.
var csiFinalToName = map[byte]string{
	'A': "Up",
	'B': "Down",
	'C': "Right",
	'D': "Left",
	'H': "Home",
	'F': "End",
}

// ss3FinalToName maps an SS3 (ESC O <final>) final byte to a named key
// — application-cursor-keys mode arrows and the first four F-keys.
var ss3FinalToName = map[byte]string{
	'A': "Up",
	'B': "Down",
	'C': "Right",
	'D': "Left",
	'P': "F1",
	'Q': "F2",
	'R': "F3",
	'S': "F4",
	'H': "Home",
	'F': "End",
}

// tildeParamToName maps a CSI ... ~ sequence's leading numeric
// parameter to a named key, matching the teacher's dispatchCSI '~' arm.
var tildeParamToName = map[string]string{
	"1":  "Home",
	"2":  "Insert",
	"3":  "Delete",
	"4":  "End",
	"5":  "PgUp",
	"6":  "PgDown",
	"15": "F5",
	"17": "F6",
	"18": "F7",
	"19": "F8",
	"20": "F9",
	"21": "F10",
	"23": "F11",
	"24": "F12",
}

// modFromCSIParam decodes the xterm modifyOtherKeys modifier parameter
// (the part after ';' in "3;5~" or "1;2A") into a Mod bitmask. xterm
// encodes it as 1 + bitmask(shift=1, alt=2, ctrl=4).
func modFromCSIParam(p string) coreiface.Mod {
	n := atoiSafe(p)
	if n <= 1 {
		return 0
	}
	bits := n - 1
	var m coreiface.Mod
	if bits&1 != 0 {
		m |= coreiface.ModShift
	}
	if bits&2 != 0 {
		m |= coreiface.ModAlt
	}
	if bits&4 != 0 {
		m |= coreiface.ModCtrl
	}
	return m
}

func atoiSafe(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// controlKey decodes a C0 control byte (<=0x1f) into a KeyEvent, the
// way the teacher's processChar does for Enter/Tab/Backspace/Ctrl+C
// and the generic Ctrl+letter fallback.
func controlKey(b byte) coreiface.KeyEvent {
	switch b {
	case 0x0d:
		return coreiface.KeyEvent{Name: "Enter"}
	case 0x09:
		return coreiface.KeyEvent{Name: "Tab"}
	case 0x08:
		return coreiface.KeyEvent{Name: "Backspace"}
	default:
		return coreiface.KeyEvent{Rune: rune(b + 0x60), Mods: coreiface.ModCtrl}
	}
}
