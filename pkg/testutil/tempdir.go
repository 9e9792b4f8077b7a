// Package testutil provides shared helpers for tests, keeping all scratch
// directories under a single per-run root so stray artifacts are easy to
// find and clean up.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

var (
	testRunDirOnce sync.Once
	testRunDir     string
)

// GetTestRunDir returns the root directory for this test run's scratch
// space. The directory is created on first use and shared by every call in
// the process.
func GetTestRunDir() string {
	testRunDirOnce.Do(func() {
		base := filepath.Join(os.TempDir(), "examplectl-test-runs")
		dir := filepath.Join(base, fmt.Sprintf("run-%d-%d", os.Getpid(), time.Now().UnixNano()))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			panic(fmt.Sprintf("failed to create test run directory %s: %v", dir, err))
		}
		testRunDir = dir
	})
	return testRunDir
}

// TempDir creates a temporary directory under the test run root using the
// given pattern (as in os.MkdirTemp) and removes it when the test finishes.
func TempDir(t *testing.T, pattern string) string {
	t.Helper()

	dir, err := os.MkdirTemp(GetTestRunDir(), pattern)
	if err != nil {
		t.Fatalf("failed to create temp directory: %v", err)
	}

	t.Cleanup(func() {
		os.RemoveAll(dir)
	})

	return dir
}

// WriteFile creates a file with the given content inside dir, creating
// intermediate directories as needed. Returns the absolute path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
