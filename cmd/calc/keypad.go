package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"nickandperla.net/calc/internal/editor"
	"nickandperla.net/calc/pkg/calc"
)

// keypadKeys maps single keystrokes to operation keys.
var keypadKeys = map[byte]editor.Key{
	'+': editor.KeyPlus,
	'-': editor.KeyMinus,
	'*': editor.KeyMultiply,
	'/': editor.KeyDivide,
	'%': editor.KeyPercent,
	'^': editor.KeyPower,
	'r': editor.KeyRoot,
	'l': editor.KeyLog,
	'n': editor.KeyLn,
	'(': editor.KeyOpenBracket,
	')': editor.KeyCloseBracket,
	's': editor.KeySin,
	'c': editor.KeyCos,
	't': editor.KeyTan,
	'S': editor.KeyArcsin,
	'C': editor.KeyArccos,
	'T': editor.KeyArctan,
	'!': editor.KeyFactorial,
	'p': editor.KeyPi,
	'e': editor.KeyE,
}

func printKeypadHelp(out io.Writer) {
	lines := []string{
		"calc keypad (Ctrl+D to exit)",
		"",
		"  0-9 .  digits      + - * / ^ % !  operators   ( )  brackets",
		"  s c t  sin cos tan S C T  inverse     l n  log ln   r  root",
		"  p e    constants   Enter or =  equals   Backspace  clear",
		"  Ctrl+U reset       d  degrees/radians   h  recall last result",
		"",
	}
	for _, l := range lines {
		fmt.Fprint(out, l+"\r\n")
	}
}

// keypad drives the editor one keystroke at a time.
type keypad struct {
	runtime *calc.Runtime
	out     io.Writer
	result  string
	echo    string
	message string
}

func newKeypad(runtime *calc.Runtime, out io.Writer) *keypad {
	k := &keypad{runtime: runtime, out: out}
	st := runtime.Editor().State()
	k.result = st.Result
	k.echo = st.PreviousFormula
	return k
}

// press handles one input byte and reports whether to exit.
func (k *keypad) press(b byte) bool {
	ed := k.runtime.Editor()
	k.message = ""

	switch {
	case b == 0x04 || b == 0x03: // Ctrl+D, Ctrl+C
		return true
	case b >= '0' && b <= '9':
		ed.Digit(int(b - '0'))
	case b == '.' || b == ',' || rune(b) == k.runtime.Formatter().Decimal:
		ed.Decimal()
	case b == '=' || b == 0x0d || b == 0x0a:
		ed.Equals()
	case b == 0x7f || b == 0x08: // Backspace
		ed.Clear()
	case b == 0x15: // Ctrl+U
		ed.Reset()
	case b == 'd':
		k.runtime.SetDegrees(!k.runtime.Degrees())
	case b == 'h':
		entries, err := k.runtime.History(1)
		if err != nil || len(entries) == 0 {
			k.message = "no history"
			break
		}
		k.runtime.Recall(entries[0].Result)
	default:
		key, ok := keypadKeys[b]
		if !ok {
			return false
		}
		ed.Operation(key)
	}
	if err := k.runtime.Save(); err != nil {
		k.message = err.Error()
	}
	return false
}

// notify receives evaluation failures from the runtime.
func (k *keypad) notify(message string, _ calc.Severity) {
	k.message = message
}

func (k *keypad) render() {
	mode := "RAD"
	if k.runtime.Degrees() {
		mode = "DEG"
	}
	var sb strings.Builder
	sb.WriteString("\r\x1b[K")
	sb.WriteString(faint(mode) + " ")
	if k.echo != "" {
		sb.WriteString(faint(k.echo+" =") + " ")
	}
	sb.WriteString(green(k.result))
	if k.message != "" {
		sb.WriteString("  " + red(k.message))
	}
	fmt.Fprint(k.out, sb.String())
}

func runKeypad(runtime *calc.Runtime) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fmt.Fprintln(os.Stderr, red("keypad mode needs a terminal"))
		return
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set raw mode: %v\n", err)
		runREPL(runtime)
		return
	}
	defer term.Restore(fd, oldState)

	k := newKeypad(runtime, os.Stdout)
	bindKeypad(runtime, k)
	printKeypadHelp(os.Stdout)
	k.render()

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			break
		}
		if buf[0] == 0x1b {
			// Swallow escape sequences such as arrow keys
			skipEscape(os.Stdin)
			continue
		}
		if k.press(buf[0]) {
			break
		}
		k.render()
	}
	fmt.Fprint(os.Stdout, "\r\n")
}

// bindKeypad routes the editor's display sinks to the keypad.
func bindKeypad(runtime *calc.Runtime, k *keypad) {
	ed := runtime.Editor()
	ed.SetResultWriter(func(text string) { k.result = text })
	ed.SetFormulaWriter(func(text string) { k.echo = text })
	runtime.SetNotifier(k.notify)
}

func skipEscape(r io.Reader) {
	buf := make([]byte, 1)
	if n, err := r.Read(buf); err != nil || n == 0 || buf[0] != '[' {
		return
	}
	for {
		if n, err := r.Read(buf); err != nil || n == 0 {
			return
		}
		if buf[0] >= 0x40 && buf[0] <= 0x7e {
			return
		}
	}
}
