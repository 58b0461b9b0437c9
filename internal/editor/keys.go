package editor

// KeyKind records what kind of key was pressed last.
type KeyKind int

const (
	KindNone KeyKind = iota
	KindDigit
	KindOperator
	KindDecimal
	KindEquals
	KindClear
)

var keyKindNames = [...]string{
	KindNone:     "",
	KindDigit:    "digit",
	KindOperator: "operator",
	KindDecimal:  "decimal",
	KindEquals:   "equals",
	KindClear:    "clear",
}

// String returns the persisted tag of a kind.
func (k KeyKind) String() string {
	if k < 0 || int(k) >= len(keyKindNames) {
		return ""
	}
	return keyKindNames[k]
}

// ParseKeyKind parses a persisted tag. Unknown tags yield KindNone.
func ParseKeyKind(s string) (KeyKind, bool) {
	for i, name := range keyKindNames {
		if name == s {
			return KeyKind(i), true
		}
	}
	return KindNone, false
}

// Key is an operation key of the calculator keypad.
type Key int

const (
	KeyNone Key = iota
	KeyPlus
	KeyMinus
	KeyMultiply
	KeyDivide
	KeyPercent
	KeyPower
	KeyRoot
	KeyLog
	KeyLn
	KeyOpenBracket
	KeyCloseBracket
	KeySin
	KeyCos
	KeyTan
	KeyArcsin
	KeyArccos
	KeyArctan
	KeyFactorial
	KeyPi
	KeyE
	KeyEquals
)

type keyInfo struct {
	name   string
	symbol string
}

var keys = [...]keyInfo{
	KeyNone:         {"", ""},
	KeyPlus:         {"plus", "+"},
	KeyMinus:        {"minus", "-"},
	KeyMultiply:     {"multiply", "×"},
	KeyDivide:       {"divide", "÷"},
	KeyPercent:      {"percent", "%"},
	KeyPower:        {"power", "^"},
	KeyRoot:         {"root", "√"},
	KeyLog:          {"log", "log("},
	KeyLn:           {"ln", "ln("},
	KeyOpenBracket:  {"open_bracket", "("},
	KeyCloseBracket: {"close_bracket", ")"},
	KeySin:          {"sin", "sin("},
	KeyCos:          {"cos", "cos("},
	KeyTan:          {"tan", "tan("},
	KeyArcsin:       {"arcsin", "sin⁻¹("},
	KeyArccos:       {"arccos", "cos⁻¹("},
	KeyArctan:       {"arctan", "tan⁻¹("},
	KeyFactorial:    {"factorial", "!"},
	KeyPi:           {"pi", "π"},
	KeyE:            {"e", "e"},
	KeyEquals:       {"equals", ""},
}

func (k Key) info() keyInfo {
	if k < 0 || int(k) >= len(keys) {
		return keyInfo{}
	}
	return keys[k]
}

// String returns the persisted name of the key.
func (k Key) String() string { return k.info().name }

// Symbol returns the text the key appends to the formula. Function keys
// open their argument bracket.
func (k Key) Symbol() string { return k.info().symbol }

// ParseKey parses a persisted key name.
func ParseKey(name string) (Key, bool) {
	for i, ki := range keys {
		if ki.name == name {
			return Key(i), true
		}
	}
	return KeyNone, false
}
