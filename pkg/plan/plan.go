// Package plan derives the ordered set of examples to test from a catalog
// and a set of changed file paths.
//
// Selection is deterministic: the plan preserves catalog order, and the same
// catalog plus the same changed set always yields the same plan. An empty
// changed set yields an empty plan; callers treat that as "nothing to test".
package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/flowline/examplectl/pkg/catalog"
	"github.com/flowline/examplectl/pkg/logger"
)

var log = logger.New("plan:select")

// Policy configures which examples a change selects beyond direct path hits.
type Policy struct {
	// TestAllPrefixes lists repo-relative path prefixes whose changes
	// invalidate everything, e.g. "internal/" when the tooling itself
	// changed. A full-catalog plan still excludes pytest:false records.
	TestAllPrefixes []string
	// AlwaysRun lists repo paths included in every non-empty plan
	// regardless of the change set (the smoke-test set).
	AlwaysRun []string
}

// Plan is the ordered subset of examples selected for execution.
type Plan struct {
	Examples []*catalog.Example
	// TestAll records that a tooling change widened the plan to the whole
	// catalog, with the file that triggered it.
	TestAll   bool
	TriggerBy string
}

// Select filters the catalog to the examples requiring a re-test given the
// changed paths. Records with pytest disabled are never selected.
func Select(cat *catalog.Catalog, changed []string, policy Policy) *Plan {
	changedSet := make(map[string]struct{}, len(changed))
	for _, path := range changed {
		changedSet[Normalize(cat.Root(), path)] = struct{}{}
	}

	plan := &Plan{}

	// A change under a test-all prefix invalidates the whole catalog.
	for path := range changedSet {
		for _, prefix := range policy.TestAllPrefixes {
			if strings.HasPrefix(path, prefix) {
				log.Printf("Tooling change %s selects the whole catalog", path)
				plan.TestAll = true
				plan.TriggerBy = path
			}
		}
	}

	alwaysRun := make(map[string]struct{}, len(policy.AlwaysRun))
	if len(changedSet) > 0 {
		for _, path := range policy.AlwaysRun {
			alwaysRun[path] = struct{}{}
		}
	}

	for _, ex := range cat.Examples() {
		if !ex.Pytest {
			continue
		}
		if plan.TestAll {
			plan.Examples = append(plan.Examples, ex)
			continue
		}
		if _, ok := changedSet[ex.RepoPath]; ok {
			plan.Examples = append(plan.Examples, ex)
			continue
		}
		if _, ok := alwaysRun[ex.RepoPath]; ok {
			plan.Examples = append(plan.Examples, ex)
		}
	}

	log.Printf("Selected %d of %d examples from %d changed files", len(plan.Examples), cat.Len(), len(changed))
	return plan
}

// Normalize reduces a possibly absolute or ./-prefixed path to the
// repo-relative slash form used as the catalog key.
func Normalize(root, path string) string {
	path = filepath.ToSlash(path)
	if root != "" {
		rootSlash := filepath.ToSlash(root)
		if rel, ok := strings.CutPrefix(path, rootSlash+"/"); ok {
			return rel
		}
	}
	return strings.TrimPrefix(path, "./")
}

// Len returns the number of selected examples.
func (p *Plan) Len() int { return len(p.Examples) }

// Paths returns the selected repo paths in plan order.
func (p *Plan) Paths() []string {
	paths := make([]string, 0, len(p.Examples))
	for _, ex := range p.Examples {
		paths = append(paths, ex.RepoPath)
	}
	return paths
}

// WriteText renders the plan in the human-readable format.
func (p *Plan) WriteText(w io.Writer) error {
	if p.Len() == 0 {
		_, err := fmt.Fprintln(w, "No examples to test.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Test plan: %d examples to test\n", p.Len()); err != nil {
		return err
	}
	for _, ex := range p.Examples {
		if _, err := fmt.Fprintf(w, "- %s\n", ex.RepoPath); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON renders the plan as an indented JSON array of example records.
func (p *Plan) WriteJSON(w io.Writer) error {
	examples := p.Examples
	if examples == nil {
		examples = []*catalog.Example{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(examples)
}
