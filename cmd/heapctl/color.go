package main

import "os"

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiDim   = "\x1b[2m"
	ansiBold  = "\x1b[1m"
)

// colorEnabled reports whether ANSI colour should be written to stdout.
// NO_COLOR follows https://no-color.org.
func colorEnabled() bool {
	if noColor || structured() {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isTerminal(os.Stdout.Fd())
}

func paint(code, s string) string {
	if !colorEnabled() {
		return s
	}
	return code + s + ansiReset
}

func green(s string) string { return paint(ansiGreen, s) }
func red(s string) string   { return paint(ansiRed, s) }
func dim(s string) string   { return paint(ansiDim, s) }
func bold(s string) string  { return paint(ansiBold, s) }
