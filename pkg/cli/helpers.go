package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/flowline/examplectl/pkg/catalog"
	"github.com/flowline/examplectl/pkg/console"
	"github.com/flowline/examplectl/pkg/frontmatter"
	"github.com/flowline/examplectl/pkg/logger"
)

var helpersLog = logger.New("cli:helpers")

// loadCatalog scans the configured roots and reports any per-file problems
// to stderr. Problems never abort the command; the catalog holds whatever
// scanned cleanly.
func loadCatalog(root string, dirs []string) (*catalog.Catalog, error) {
	cat, err := catalog.Scan(catalog.ScanOptions{Root: root, Dirs: dirs})
	if err != nil {
		return nil, err
	}

	for _, problem := range cat.Problems() {
		var perr *frontmatter.ParseError
		if errors.As(problem.Err, &perr) {
			fmt.Fprint(os.Stderr, console.FormatError(parseFileError(perr)))
			continue
		}
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage(fmt.Sprintf("Skipped %s", problem)))
	}
	helpersLog.Printf("Loaded catalog: %d examples, %d problems", cat.Len(), len(cat.Problems()))
	return cat, nil
}

// resolveExample resolves a user-supplied selector to exactly one record.
// No match or an ambiguous match is a user input error listing what was
// (or was not) found.
func resolveExample(cat *catalog.Catalog, selector string) (*catalog.Example, error) {
	matches := cat.Find(selector)

	if len(matches) == 0 {
		return nil, fmt.Errorf("no examples found matching %q", selector)
	}
	if len(matches) > 1 {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(fmt.Sprintf("Multiple examples found matching %q:", selector)))
		for _, ex := range matches {
			fmt.Fprintf(os.Stderr, "- %s\n", ex.RepoPath)
		}
		return nil, fmt.Errorf("selector %q is ambiguous (%d matches)", selector, len(matches))
	}
	return matches[0], nil
}

// parseFileError converts a header parse error into a positioned diagnostic
// with source context around the failing line.
func parseFileError(perr *frontmatter.ParseError) console.FileError {
	fileErr := console.FileError{
		Position: console.ErrorPosition{File: perr.File, Line: perr.Line, Column: perr.Column},
		Type:     "warning",
		Message:  perr.Message,
		Hint:     "the file is excluded from the catalog until its header parses",
	}

	if content, err := os.ReadFile(perr.File); err == nil {
		lines := strings.Split(string(content), "\n")
		start := perr.Line - 2
		if start < 1 {
			start = 1
		}
		end := perr.Line + 1
		if end > len(lines) {
			end = len(lines)
		}
		if start <= len(lines) {
			fileErr.Context = lines[start-1 : end]
		}
	}
	return fileErr
}

// catalogJSON renders a slice of records as indented JSON.
func catalogJSON(examples []*catalog.Example) ([]byte, error) {
	return json.MarshalIndent(examples, "", "  ")
}
