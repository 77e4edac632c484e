package accel

import (
	"fmt"
	"strings"
)

// X keysym values for the keys an accelerator may name.
const (
	keysymBackSpace      = 0xff08
	keysymTab            = 0xff09
	keysymReturn         = 0xff0d
	keysymPause          = 0xff13
	keysymScrollLock     = 0xff14
	keysymEscape         = 0xff1b
	keysymHome           = 0xff50
	keysymLeft           = 0xff51
	keysymUp             = 0xff52
	keysymRight          = 0xff53
	keysymDown           = 0xff54
	keysymPageUp         = 0xff55
	keysymPageDown       = 0xff56
	keysymEnd            = 0xff57
	keysymPrint          = 0xff61
	keysymInsert         = 0xff63
	keysymMenu           = 0xff67
	keysymNumLock        = 0xff7f
	keysymKPEnter        = 0xff8d
	keysymKPMultiply     = 0xffaa
	keysymKPAdd          = 0xffab
	keysymKPSubtract     = 0xffad
	keysymKPDecimal      = 0xffae
	keysymKPDivide       = 0xffaf
	keysymKP0            = 0xffb0
	keysymF1             = 0xffbe
	keysymShiftL         = 0xffe1
	keysymShiftR         = 0xffe2
	keysymControlL       = 0xffe3
	keysymControlR       = 0xffe4
	keysymCapsLock       = 0xffe5
	keysymMetaL          = 0xffe7
	keysymMetaR          = 0xffe8
	keysymAltL           = 0xffe9
	keysymAltR           = 0xffea
	keysymSuperL         = 0xffeb
	keysymSuperR         = 0xffec
	keysymHyperL         = 0xffed
	keysymHyperR         = 0xffee
	keysymISOLevel3Shift = 0xfe03
	keysymDelete         = 0xffff
)

// Latin-1 printable keysyms share their code point; index = keysym - 0x20.
var latin1Names = [...]string{
	"space", "exclam", "quotedbl", "numbersign", "dollar", "percent", "ampersand", "apostrophe",
	"parenleft", "parenright", "asterisk", "plus", "comma", "minus", "period", "slash",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"colon", "semicolon", "less", "equal", "greater", "question", "at",
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"bracketleft", "backslash", "bracketright", "asciicircum", "underscore", "grave",
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	"braceleft", "bar", "braceright", "asciitilde",
}

var specialKeysyms = map[string]uint32{
	"BackSpace":        keysymBackSpace,
	"Tab":              keysymTab,
	"Return":           keysymReturn,
	"Pause":            keysymPause,
	"Scroll_Lock":      keysymScrollLock,
	"Escape":           keysymEscape,
	"Home":             keysymHome,
	"Left":             keysymLeft,
	"Up":               keysymUp,
	"Right":            keysymRight,
	"Down":             keysymDown,
	"Page_Up":          keysymPageUp,
	"Page_Down":        keysymPageDown,
	"End":              keysymEnd,
	"Print":            keysymPrint,
	"Insert":           keysymInsert,
	"Menu":             keysymMenu,
	"Num_Lock":         keysymNumLock,
	"KP_Enter":         keysymKPEnter,
	"KP_Multiply":      keysymKPMultiply,
	"KP_Add":           keysymKPAdd,
	"KP_Subtract":      keysymKPSubtract,
	"KP_Decimal":       keysymKPDecimal,
	"KP_Divide":        keysymKPDivide,
	"Shift_L":          keysymShiftL,
	"Shift_R":          keysymShiftR,
	"Control_L":        keysymControlL,
	"Control_R":        keysymControlR,
	"Caps_Lock":        keysymCapsLock,
	"Meta_L":           keysymMetaL,
	"Meta_R":           keysymMetaR,
	"Alt_L":            keysymAltL,
	"Alt_R":            keysymAltR,
	"Super_L":          keysymSuperL,
	"Super_R":          keysymSuperR,
	"Hyper_L":          keysymHyperL,
	"Hyper_R":          keysymHyperR,
	"ISO_Level3_Shift": keysymISOLevel3Shift,
	"Delete":           keysymDelete,
}

// Alternate spellings accepted on input. The value is the canonical name.
var keyAliases = map[string]string{
	"prior":     "Page_Up",
	"next":      "Page_Down",
	"pageup":    "Page_Up",
	"pagedown":  "Page_Down",
	"pgup":      "Page_Up",
	"pgdn":      "Page_Down",
	"enter":     "Return",
	"esc":       "Escape",
	"del":       "Delete",
	"ins":       "Insert",
	"backspace": "BackSpace",
}

var (
	nameToKeysym = map[string]uint32{}
	keysymToName = map[uint32]string{}
	// lower-cased name -> canonical name
	foldedNames = map[string]string{}
)

func init() {
	for i, name := range latin1Names {
		register(name, uint32(0x20+i))
	}
	for name, sym := range specialKeysyms {
		register(name, sym)
	}
	for i := 0; i <= 9; i++ {
		register(fmt.Sprintf("KP_%d", i), uint32(keysymKP0+i))
	}
	for i := 1; i <= 35; i++ {
		register(fmt.Sprintf("F%d", i), uint32(keysymF1+i-1))
	}
}

func register(name string, sym uint32) {
	nameToKeysym[name] = sym
	keysymToName[sym] = name
	folded := strings.ToLower(name)
	// Single letters fold to the lower-case keysym.
	if _, exists := foldedNames[folded]; !exists || name == folded {
		foldedNames[folded] = name
	}
}

// Keysym returns the X keysym for a key name.
func Keysym(name string) (uint32, bool) {
	sym, ok := nameToKeysym[name]
	return sym, ok
}

// KeysymName returns the canonical name for an X keysym.
func KeysymName(sym uint32) (string, bool) {
	name, ok := keysymToName[sym]
	return name, ok
}

// KeyNameForRune returns the keysym name of a printable Latin-1 character.
func KeyNameForRune(r rune) (string, bool) {
	if r < 0x20 || r > 0x7e {
		return "", false
	}
	return latin1Names[r-0x20], true
}

// IsModifierKey reports whether name is a bare modifier key such as Control_L.
func IsModifierKey(name string) bool {
	switch name {
	case "Shift_L", "Shift_R", "Control_L", "Control_R", "Alt_L", "Alt_R",
		"Super_L", "Super_R", "Meta_L", "Meta_R", "Hyper_L", "Hyper_R",
		"Caps_Lock", "Num_Lock", "ISO_Level3_Shift":
		return true
	}
	return false
}

// normalizeKey resolves a user-supplied key name to its canonical keysym
// name. Upper-case letters are folded to lower case.
func normalizeKey(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("key is empty")
	}
	if len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z' {
		return strings.ToLower(name), nil
	}
	if _, ok := nameToKeysym[name]; ok {
		return name, nil
	}
	folded := strings.ToLower(name)
	if alias, ok := keyAliases[folded]; ok {
		return alias, nil
	}
	if canonical, ok := foldedNames[folded]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("unknown key %q", name)
}
