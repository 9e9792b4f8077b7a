//go:build !integration

package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowline/examplectl/pkg/testutil"
)

// captureStdout captures stdout output during function execution
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	outputChan := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outputChan <- buf.String()
	}()

	runErr := fn()

	w.Close()
	os.Stdout = oldStdout
	output := <-outputChan
	r.Close()

	return output, runErr
}

func writeFixture(t *testing.T) string {
	t.Helper()
	root := testutil.TempDir(t, "cli-*")

	testutil.WriteFile(t, root, "flows/hello.py", `---
title: Hello
deploy: true
cmd: ["true"]
tags: [basics]
---
print("hi")
`)
	testutil.WriteFile(t, root, "flows/skipped.py", "---\npytest: false\n---\nprint()\n")
	testutil.WriteFile(t, root, "basics/plain.py", "print(\"plain\")\n")
	return root
}

func TestShortDescriptionConsistency(t *testing.T) {
	// Command Short descriptions follow CLI conventions: no trailing
	// punctuation, as in git, kubectl, and gh.
	root := NewRootCommand("test")

	var check func(cmd *cobra.Command)
	check = func(cmd *cobra.Command) {
		if cmd.Short != "" {
			last := cmd.Short[len(cmd.Short)-1]
			assert.NotContains(t, ".!?", string(last), "command %q Short description ends with punctuation: %q", cmd.Name(), cmd.Short)
		}
		for _, sub := range cmd.Commands() {
			check(sub)
		}
	}
	check(root)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := NewRootCommand("test")

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"list", "run", "test-plan", "deploy", "generate-docs", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRunListExamples(t *testing.T) {
	root := writeFixture(t)

	output, err := captureStdout(t, func() error {
		return RunListExamples(root, nil, "", "", false, false)
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Found 3 examples:")
	assert.Contains(t, output, "* flows/hello.py")
	assert.Contains(t, output, "  basics/plain.py")
}

func TestRunListExamplesJSON(t *testing.T) {
	root := writeFixture(t)

	output, err := captureStdout(t, func() error {
		return RunListExamples(root, nil, "", "", true, false)
	})
	require.NoError(t, err)

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &items))
	assert.Len(t, items, 3)
}

func TestRunListExamplesPatternAndTag(t *testing.T) {
	root := writeFixture(t)

	output, err := captureStdout(t, func() error {
		return RunListExamples(root, nil, "flows/", "", false, false)
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Found 2 examples:")

	output, err = captureStdout(t, func() error {
		return RunListExamples(root, nil, "", "basics", false, false)
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Found 1 examples:")
	assert.Contains(t, output, "flows/hello.py")
}

func TestRunExampleByPath(t *testing.T) {
	root := writeFixture(t)

	output, err := captureStdout(t, func() error {
		return RunExample(root, nil, "flows/hello.py", false, false, 0, false)
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Running: flows/hello.py")
	assert.Contains(t, output, "Success after")
}

func TestRunExampleFailurePropagates(t *testing.T) {
	root := testutil.TempDir(t, "cli-fail-*")
	testutil.WriteFile(t, root, "flows/fail.py", "---\ncmd: [\"false\"]\n---\nprint()\n")

	_, err := captureStdout(t, func() error {
		return RunExample(root, nil, "flows/fail.py", false, false, 0, false)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit code 1")
}

func TestRunExampleUnknownSelector(t *testing.T) {
	root := writeFixture(t)

	_, err := captureStdout(t, func() error {
		return RunExample(root, nil, "does-not-exist", false, false, 0, false)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no examples found matching")
}

func TestRunTestPlanText(t *testing.T) {
	root := writeFixture(t)

	output, err := captureStdout(t, func() error {
		return RunTestPlan(TestPlanConfig{
			Root:         root,
			ChangedFiles: []string{"flows/hello.py"},
			Format:       "text",
		})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Test plan: 1 examples to test")
	assert.Contains(t, output, "- flows/hello.py")
}

func TestRunTestPlanEmptyChangedSet(t *testing.T) {
	root := writeFixture(t)

	output, err := captureStdout(t, func() error {
		return RunTestPlan(TestPlanConfig{Root: root, Format: "text"})
	})
	require.NoError(t, err, "an empty plan is not a failure")
	assert.Contains(t, output, "No examples to test.")
}

func TestRunTestPlanPytestFalseExcluded(t *testing.T) {
	root := writeFixture(t)

	output, err := captureStdout(t, func() error {
		return RunTestPlan(TestPlanConfig{
			Root:         root,
			ChangedFiles: []string{"flows/skipped.py"},
			Format:       "text",
		})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "No examples to test.")
}

func TestRunTestPlanJSON(t *testing.T) {
	root := writeFixture(t)

	output, err := captureStdout(t, func() error {
		return RunTestPlan(TestPlanConfig{
			Root:         root,
			ChangedFiles: []string{"flows/hello.py"},
			Format:       "json",
		})
	})
	require.NoError(t, err)

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "flows/hello.py", items[0]["repo_path"])
}

func TestRunTestPlanUnknownFormat(t *testing.T) {
	root := writeFixture(t)

	err := RunTestPlan(TestPlanConfig{Root: root, Format: "yaml"})
	require.Error(t, err)
}

func TestRunTestPlanExecutesPlan(t *testing.T) {
	root := writeFixture(t)

	output, err := captureStdout(t, func() error {
		return RunTestPlan(TestPlanConfig{
			Root:         root,
			ChangedFiles: []string{"flows/hello.py"},
			Format:       "text",
			Run:          true,
		})
	})
	require.NoError(t, err)
	assert.Contains(t, output, "1 processed, 1 passed, 0 failed")
}

func TestRunDeployList(t *testing.T) {
	root := writeFixture(t)

	output, err := captureStdout(t, func() error {
		return RunDeploy(root, nil, "", false, true)
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Found 1 examples that would be deployed:")
	assert.Contains(t, output, "- flows/hello.py")
	assert.Contains(t, output, "Command: true")
}

func TestRunDeployAll(t *testing.T) {
	root := writeFixture(t)

	output, err := captureStdout(t, func() error {
		return RunDeploy(root, nil, "", true, false)
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Successfully deployed 1 examples")
}

func TestRunDeployNotEligible(t *testing.T) {
	root := writeFixture(t)

	_, err := captureStdout(t, func() error {
		return RunDeploy(root, nil, "basics/plain.py", false, false)
	})
	require.NoError(t, err, "non-deployable selection is a skip, not a failure")
}

func TestRunGenerateDocs(t *testing.T) {
	root := writeFixture(t)
	outDir := filepath.Join(testutil.TempDir(t, "cli-docs-*"), "docs")

	output, err := captureStdout(t, func() error {
		return RunGenerateDocs(root, nil, outDir, ".md", "", false, false)
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Created 3 documentation files")

	index, err := os.ReadFile(filepath.Join(outDir, "index.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(index), "# Examples"))
}

func TestRunListExamplesMalformedHeaderNonFatal(t *testing.T) {
	root := writeFixture(t)
	testutil.WriteFile(t, root, "flows/broken.py", "---\ndeploy: [oops\n---\nprint()\n")

	output, err := captureStdout(t, func() error {
		return RunListExamples(root, nil, "", "", false, false)
	})
	require.NoError(t, err, "a malformed header is a problem, not a failure")
	assert.Contains(t, output, "Found 3 examples:")
	assert.NotContains(t, output, "flows/broken.py")
}

func TestResolveExampleAmbiguous(t *testing.T) {
	root := writeFixture(t)
	cat, err := loadCatalog(root, nil)
	require.NoError(t, err)

	// "py" substring-matches every example
	_, err = resolveExample(cat, "py")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}
