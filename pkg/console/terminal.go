package console

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stderr is attached to a terminal. ANSI control
// sequences and spinners are suppressed when it is not.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// MoveCursorUp moves the cursor up by the given number of lines.
// No-op when stderr is not a terminal.
func MoveCursorUp(lines int) {
	if lines <= 0 || !IsTTY() {
		return
	}
	fmt.Fprintf(os.Stderr, "\033[%dA", lines)
}

// MoveCursorDown moves the cursor down by the given number of lines.
// No-op when stderr is not a terminal.
func MoveCursorDown(lines int) {
	if lines <= 0 || !IsTTY() {
		return
	}
	fmt.Fprintf(os.Stderr, "\033[%dB", lines)
}

// ClearLine erases the current line. No-op when stderr is not a terminal.
func ClearLine() {
	if !IsTTY() {
		return
	}
	fmt.Fprint(os.Stderr, "\r\033[K")
}
