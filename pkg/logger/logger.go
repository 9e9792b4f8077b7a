// Package logger provides namespace-scoped debug logging controlled by the
// DEBUG environment variable, in the style of the debug npm package.
//
// Loggers are created with a namespace such as "cli:run" or
// "frontmatter:schema". Output is written to stderr only when the namespace
// matches one of the comma-separated patterns in DEBUG:
//
//	DEBUG=*                 enable everything
//	DEBUG=cli:*             enable the cli namespace
//	DEBUG=cli:*,catalog:*   enable multiple namespaces
//	DEBUG=*,-cli:run        enable everything except cli:run
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes debug messages for a single namespace.
type Logger struct {
	namespace string

	mu   sync.Mutex
	last time.Time
}

// New creates a logger for the given namespace. Enablement is evaluated
// against the DEBUG environment variable on each call, so tests may toggle
// DEBUG after loggers have been created.
func New(namespace string) *Logger {
	return &Logger{namespace: namespace}
}

// Enabled reports whether this logger's namespace matches DEBUG.
func (l *Logger) Enabled() bool {
	return matches(l.namespace, os.Getenv("DEBUG"))
}

// Printf logs a formatted message when the logger is enabled.
func (l *Logger) Printf(format string, args ...any) {
	if !l.Enabled() {
		return
	}
	l.emit(fmt.Sprintf(format, args...))
}

// Print logs the concatenation of args when the logger is enabled.
func (l *Logger) Print(args ...any) {
	if !l.Enabled() {
		return
	}
	l.emit(fmt.Sprint(args...))
}

func (l *Logger) emit(msg string) {
	l.mu.Lock()
	now := time.Now()
	var delta time.Duration
	if !l.last.IsZero() {
		delta = now.Sub(l.last)
	}
	l.last = now
	l.mu.Unlock()

	fmt.Fprintf(os.Stderr, "%s %s +%s\n", l.namespace, msg, delta)
}

// matches implements the DEBUG pattern language: comma-separated globs where
// '*' matches any suffix and a leading '-' excludes the pattern. Exclusions
// win over inclusions.
func matches(namespace, patterns string) bool {
	if patterns == "" {
		return false
	}

	included := false
	for _, raw := range strings.Split(patterns, ",") {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}
		negate := strings.HasPrefix(pattern, "-")
		if negate {
			pattern = pattern[1:]
		}
		if !globMatch(pattern, namespace) {
			continue
		}
		if negate {
			return false
		}
		included = true
	}
	return included
}

func globMatch(pattern, name string) bool {
	if pattern == "*" {
		return true
	}
	if suffix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(name, suffix)
	}
	return pattern == name
}
