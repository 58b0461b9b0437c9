// Command calc is the calculator CLI.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"

	"nickandperla.net/calc/pkg/calc"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

func main() {
	var (
		evalStr      = flag.String("e", "", "Evaluate a formula and print the result")
		dbPath       = flag.String("db", defaultDBPath(), "SQLite database path (env CALC_DB)")
		session      = flag.String("session", calc.DefaultSession, "Session name for saved editor state")
		degrees      = flag.Bool("deg", false, "Use degrees for trigonometric functions")
		decimalSep   = flag.String("decimal", ".", "Decimal separator")
		groupingSep  = flag.String("grouping", ",", "Digit grouping separator (empty disables grouping)")
		historyN     = flag.Int("history", 0, "Print the last N calculations")
		clearHistory = flag.Bool("clear-history", false, "Delete all recorded calculations")
		keypad       = flag.Bool("keypad", false, "Key-by-key keypad mode")
		verbose      = flag.Bool("v", false, "Log diagnostics to stderr")
	)

	flag.Parse()

	// Build options
	opts := []calc.Option{
		calc.WithSQLiteStore(*dbPath),
		calc.WithSession(*session),
		calc.WithSeparators(firstRune(*decimalSep), firstRune(*groupingSep)),
	}
	if flagSet("deg") {
		opts = append(opts, calc.WithDegrees(*degrees))
	}
	if *verbose {
		opts = append(opts, calc.WithLogOutput(os.Stderr, slog.LevelDebug))
	}

	runtime, err := calc.New(opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		os.Exit(1)
	}
	defer runtime.Close()

	if *clearHistory {
		if err := runtime.ClearHistory(); err != nil {
			fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
			os.Exit(1)
		}
	}
	if *historyN > 0 {
		if err := printHistory(runtime, *historyN, "\n"); err != nil {
			fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
			os.Exit(1)
		}
	}

	switch {
	case *evalStr != "":
		result, err := runtime.Eval(normalizeInput(*evalStr))
		if err != nil {
			fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
			runtime.Close()
			os.Exit(1)
		}
		fmt.Println(result)

	case *clearHistory || *historyN > 0:
		// Maintenance only

	case !isTerminal(os.Stdin):
		// Piped input: one formula per line
		if !runPiped(runtime, bufio.NewScanner(os.Stdin)) {
			runtime.Close()
			os.Exit(1)
		}

	case *keypad:
		runKeypad(runtime)

	default:
		runREPL(runtime)
	}
}

// runPiped evaluates each non-empty line and reports whether all succeeded.
func runPiped(runtime *calc.Runtime, sc *bufio.Scanner) bool {
	ok := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		result, err := runtime.Eval(normalizeInput(line))
		if err != nil {
			fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
			ok = false
			continue
		}
		fmt.Println(result)
	}
	return ok
}

func printHistory(runtime *calc.Runtime, limit int, eol string) error {
	entries, err := runtime.History(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Print(faint("(no history)") + eol)
		return nil
	}
	for _, e := range entries {
		ts := time.UnixMilli(e.Timestamp).Format("2006-01-02 15:04:05")
		fmt.Printf("%s  %s = %s%s", faint(ts), e.Formula, green(e.Result), eol)
	}
	return nil
}

func defaultDBPath() string {
	if p := os.Getenv("CALC_DB"); p != "" {
		return p
	}
	return "calc.db"
}

func firstRune(s string) rune {
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
