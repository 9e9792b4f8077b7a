package console

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner renders a progress indicator on stderr while a long operation runs.
// On a non-TTY stream it degrades to printing the message once.
type Spinner struct {
	mu      sync.Mutex
	message string
	done    chan struct{}
	stopped bool
	active  bool
}

// NewSpinner creates a spinner with the given message. Call Start to begin
// animation and Stop (or StopWithMessage) to end it.
func NewSpinner(message string) *Spinner {
	return &Spinner{message: message, done: make(chan struct{})}
}

// Start begins rendering the spinner.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active || s.stopped {
		return
	}
	s.active = true

	if !IsTTY() {
		fmt.Fprintln(os.Stderr, s.message)
		return
	}

	go s.loop()
}

func (s *Spinner) loop() {
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	frame := 0
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			msg := s.message
			s.mu.Unlock()
			fmt.Fprintf(os.Stderr, "\r\033[K%s %s", spinnerFrames[frame%len(spinnerFrames)], msg)
			frame++
		}
	}
}

// UpdateMessage replaces the spinner message in place.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop ends the spinner and clears its line.
func (s *Spinner) Stop() {
	s.stopWith("")
}

// StopWithMessage ends the spinner and leaves a final message on the line.
func (s *Spinner) StopWithMessage(message string) {
	s.stopWith(message)
}

func (s *Spinner) stopWith(message string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	wasActive := s.active
	s.mu.Unlock()

	if wasActive && IsTTY() {
		close(s.done)
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
	if message != "" {
		fmt.Fprintln(os.Stderr, message)
	}
}
