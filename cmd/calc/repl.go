package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"nickandperla.net/calc/pkg/calc"
)

const historyFile = ".calc_history"

func printBanner() {
	fmt.Println("calc REPL (Ctrl+D to exit)")
	fmt.Println()
	fmt.Println("Operators: + - × ÷ ^ % ! √ ( )   (* / ** sqrt also work)")
	fmt.Println("Functions: sin cos tan asin acos atan log ln   Constants: π e")
	fmt.Println("Commands:  :deg :rad :history :clear-history :reset :quit")
	fmt.Println()
}

func prompt(runtime *calc.Runtime) string {
	if runtime.Degrees() {
		return "deg> "
	}
	return "rad> "
}

func runREPL(runtime *calc.Runtime) {
	printBanner()

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(prompt(runtime))
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		ln.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if quit := handleCommand(runtime, input); quit {
				return
			}
			continue
		}

		result, err := runtime.Eval(normalizeInput(input))
		if err != nil {
			fmt.Println(red("Error: " + err.Error()))
			continue
		}
		fmt.Println(green(result))
	}
}

// handleCommand runs a ":" command and reports whether the REPL should exit.
func handleCommand(runtime *calc.Runtime, cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return true
	case ":deg":
		runtime.SetDegrees(true)
		fmt.Println(faint("angle mode: degrees"))
	case ":rad":
		runtime.SetDegrees(false)
		fmt.Println(faint("angle mode: radians"))
	case ":history":
		if err := printHistory(runtime, 20, "\n"); err != nil {
			fmt.Println(red("Error: " + err.Error()))
		}
	case ":clear-history":
		if err := runtime.ClearHistory(); err != nil {
			fmt.Println(red("Error: " + err.Error()))
			break
		}
		fmt.Println(faint("history cleared"))
	case ":reset":
		runtime.Editor().Reset()
		if err := runtime.Save(); err != nil {
			fmt.Println(red("Error: " + err.Error()))
		}
	default:
		fmt.Println(yellow("unknown command " + cmd + ". Type :quit to exit."))
	}
	return false
}
