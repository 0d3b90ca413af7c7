package termcap

// Load builds an Adapter for the current environment: it seeds a
// capability Set from the real terminfo database (xo/terminfo), detects
// the terminal family, and applies nvim-tui's patch table on top.
func Load() *Adapter {
	return LoadEnv(environ{})
}

// LoadEnv is Load with an injectable Env, for tests that need to pin
// TERM/TMUX/KONSOLE_* without touching the process environment.
func LoadEnv(env Env) *Adapter {
	caps, bools, nums := loadBase(env)
	family := detectFamily(env)
	fixTerminfo(caps, bools, family, env)

	a := &Adapter{
		Caps:    caps,
		Bools:   bools,
		Numbers: nums,
		Family:  family,
		IsTmux:  env.Getenv("TMUX") != "",
	}
	return a
}

// FixKeyboard applies tui.c's tui_tk_ti_getstr algorithm: the tty's
// VERASE byte (read by the input layer via termios) overrides a
// terminfo kbs that disagrees with it, and kdch1 is swapped to the
// opposite of DEL/^H when it would otherwise collide with VERASE.
func (a *Adapter) FixKeyboard(verase byte) {
	a.verase = verase
	if verase == 0 {
		return
	}

	kbs := a.Caps[CapKeyBackspace]
	if kbs != string(verase) {
		a.Caps[CapKeyBackspace] = string(verase)
	}

	if kdch1, ok := a.Caps[CapKeyDC]; ok && kdch1 == string(verase) {
		if verase == 0x7f { // DEL
			a.Caps[CapKeyDC] = "\x08" // ^H
		} else {
			a.Caps[CapKeyDC] = "\x7f" // DEL
		}
	}
}
