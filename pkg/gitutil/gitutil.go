// Package gitutil shells out to git and reads CI event payloads to discover
// which files changed, feeding the change-driven test-plan selector.
package gitutil

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/flowline/examplectl/pkg/logger"
)

var log = logger.New("gitutil:gitutil")

// ChangedFilesFromDiff returns the paths reported by
// `git diff --name-only <commitRange>`, e.g. "HEAD^..HEAD".
func ChangedFilesFromDiff(commitRange string) ([]string, error) {
	log.Printf("Running git diff --name-only %s", commitRange)
	cmd := exec.Command("git", "diff", "--name-only", commitRange)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("git diff failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("git diff failed: %w", err)
	}

	var files []string
	for _, line := range strings.Split(string(output), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	log.Printf("git diff reported %d changed files", len(files))
	return files, nil
}

// actionsEvent is the slice of the GitHub Actions event payload we read.
type actionsEvent struct {
	PullRequest struct {
		ChangedFiles []struct {
			Filename string `json:"filename"`
		} `json:"changed_files"`
	} `json:"pull_request"`
}

// ChangedFilesFromActionsEvent reads changed files from the workflow event
// payload referenced by GITHUB_EVENT_PATH. Outside of a pull-request event
// it returns an empty list, not an error.
func ChangedFilesFromActionsEvent() ([]string, error) {
	eventPath := os.Getenv("GITHUB_EVENT_PATH")
	if eventPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(eventPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload %s: %w", eventPath, err)
	}

	var event actionsEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to parse event payload %s: %w", eventPath, err)
	}

	var files []string
	for _, f := range event.PullRequest.ChangedFiles {
		if f.Filename != "" {
			files = append(files, f.Filename)
		}
	}
	log.Printf("Event payload reported %d changed files", len(files))
	return files, nil
}

// IsGitRepo reports whether the working directory is inside a git worktree.
func IsGitRepo() bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	output, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(output)) == "true"
}
