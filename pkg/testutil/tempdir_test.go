//go:build !integration

package testutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flowline/examplectl/pkg/testutil"
)

func TestGetTestRunDir(t *testing.T) {
	dir := testutil.GetTestRunDir()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("test run directory does not exist: %s", dir)
	}

	if !strings.Contains(dir, "test-runs") {
		t.Errorf("test run directory should contain 'test-runs', got: %s", dir)
	}

	// Calling it again returns the same directory
	dir2 := testutil.GetTestRunDir()
	if dir != dir2 {
		t.Errorf("GetTestRunDir should return same directory, got %s and %s", dir, dir2)
	}
}

func TestTempDir(t *testing.T) {
	tempDir := testutil.TempDir(t, "test-pattern-*")

	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		t.Errorf("temp directory does not exist: %s", tempDir)
	}

	testRunDir := testutil.GetTestRunDir()
	if !strings.HasPrefix(tempDir, testRunDir) {
		t.Errorf("temp directory should be under test run directory, got: %s (expected prefix: %s)", tempDir, testRunDir)
	}

	if !strings.Contains(filepath.Base(tempDir), "test-pattern-") {
		t.Errorf("temp directory should contain pattern, got: %s", tempDir)
	}

	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		t.Errorf("failed to write to temp directory: %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	tempDir := testutil.TempDir(t, "writefile-*")

	path := testutil.WriteFile(t, tempDir, "nested/dir/example.py", "print('hi')")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(content) != "print('hi')" {
		t.Errorf("unexpected content: %q", string(content))
	}
}
