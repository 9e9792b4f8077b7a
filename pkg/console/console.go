// Package console formats user-facing terminal output: status messages,
// positioned file errors with source context, spinners, and layout helpers.
// All output helpers return strings; callers decide the destination stream.
package console

import (
	"fmt"
	"strings"

	"github.com/flowline/examplectl/pkg/styles"
)

// FormatInfoMessage formats an informational message
func FormatInfoMessage(message string) string {
	return styles.Info.Render("ℹ") + " " + message
}

// FormatSuccessMessage formats a success message
func FormatSuccessMessage(message string) string {
	return styles.Success.Render("✓") + " " + message
}

// FormatWarningMessage formats a warning message
func FormatWarningMessage(message string) string {
	return styles.Warning.Render("⚠") + " " + message
}

// FormatErrorMessage formats an error message
func FormatErrorMessage(message string) string {
	return styles.Error.Render("✗") + " " + message
}

// FormatCommandMessage formats a shell command suggested to the user
func FormatCommandMessage(message string) string {
	return styles.Command.Render(message)
}

// FormatVerboseMessage formats a low-priority diagnostic message
func FormatVerboseMessage(message string) string {
	return styles.Muted.Render(message)
}

// ErrorPosition identifies a location in a source file.
type ErrorPosition struct {
	File   string
	Line   int // 1-based
	Column int // 1-based, 0 when unknown
}

// FileError is a positioned diagnostic for a source file, rendered in the
// familiar compiler style: file:line:col: type: message, optionally followed
// by numbered context lines.
type FileError struct {
	Position ErrorPosition
	Type     string // "error" or "warning"
	Message  string
	Context  []string // source lines surrounding the position
	Hint     string
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Position.File, e.Position.Line, e.Position.Column, e.Type, e.Message)
}

// FormatError renders a FileError for terminal display.
func FormatError(err FileError) string {
	var sb strings.Builder

	prefix := fmt.Sprintf("%s:%d:%d:", err.Position.File, err.Position.Line, err.Position.Column)
	typ := err.Type
	if typ == "" {
		typ = "error"
	}
	label := styles.Error.Render(typ + ":")
	if typ == "warning" {
		label = styles.Warning.Render(typ + ":")
	}
	sb.WriteString(fmt.Sprintf("%s %s %s\n", styles.Bold.Render(prefix), label, err.Message))

	// Context lines are numbered around the error position, gutter-aligned.
	if len(err.Context) > 0 {
		start := err.Position.Line - len(err.Context)/2
		if start < 1 {
			start = 1
		}
		width := len(fmt.Sprintf("%d", start+len(err.Context)-1))
		for i, line := range err.Context {
			n := start + i
			marker := "  "
			if n == err.Position.Line {
				marker = styles.Error.Render("> ")
			}
			sb.WriteString(fmt.Sprintf("%s%*d | %s\n", marker, width, n, line))
		}
	}

	if err.Hint != "" {
		sb.WriteString(styles.Muted.Render("hint: "+err.Hint) + "\n")
	}

	return sb.String()
}

// FormatPromptMessage formats an interactive prompt.
func FormatPromptMessage(message string) string {
	return styles.Bold.Render("? ") + message
}
