//go:build !integration

package console

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureStderr captures stderr output during function execution
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	oldStderr := os.Stderr

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	os.Stderr = w

	outputChan := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outputChan <- buf.String()
	}()

	fn()

	w.Close()
	os.Stderr = oldStderr

	output := <-outputChan
	r.Close()

	return output
}

func TestCursorFunctionsNoTTY(t *testing.T) {
	// In non-TTY environments (like CI/tests), no ANSI codes should be
	// emitted for cursor movement functions.
	output := captureStderr(t, func() {
		MoveCursorUp(3)
		MoveCursorDown(3)
		ClearLine()
	})
	assert.Empty(t, output, "no ANSI output expected without a TTY")
}

func TestSpinnerNoTTY(t *testing.T) {
	output := captureStderr(t, func() {
		s := NewSpinner("Working...")
		s.Start()
		s.StopWithMessage("Done")
	})

	assert.Contains(t, output, "Working...")
	assert.Contains(t, output, "Done")
}

func TestSpinnerStopIdempotent(t *testing.T) {
	captureStderr(t, func() {
		s := NewSpinner("Working...")
		s.Start()
		s.Stop()
		s.Stop() // must not panic on double stop
	})
}
