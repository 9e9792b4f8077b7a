// Package catalog enumerates the example files of the repository and
// attaches their parsed header metadata.
//
// A scan is a pure read: it never mutates the tree, tolerates unreadable or
// malformed files by recording them as problems, and yields records in
// lexicographic path order so every invocation sees the same catalog.
package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flowline/examplectl/pkg/frontmatter"
	"github.com/flowline/examplectl/pkg/logger"
)

var log = logger.New("catalog:scan")

// ExampleExtension is the file extension recognized as an example source.
const ExampleExtension = ".py"

// skippedDirPrefixes are directory names excluded from scanning. Internal
// tooling, editor/venv clutter, and archived material are not examples.
var skippedDirPrefixes = []string{
	".", "_", "internal", "misc", "archive",
	"venv", "env", "node_modules", "__pycache__",
}

// ScanOptions configures a catalog scan.
type ScanOptions struct {
	// Root is the repository root. Defaults to the current directory.
	Root string
	// Dirs are the directories under Root to scan. Empty means every
	// non-skipped directory directly under Root.
	Dirs []string
}

// Problem records a file that could not become a catalog entry. Problems
// are non-fatal: the scan continues and the caller reports them in its
// end-of-run summary.
type Problem struct {
	Path string
	Err  error
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %v", p.Path, p.Err)
}

// Catalog is an ordered collection of example records.
type Catalog struct {
	root     string
	examples []*Example
	problems []Problem
}

// Scan enumerates example files under the configured roots and parses their
// headers. The only fatal error is an unusable root directory; per-file
// failures are recorded as problems.
func Scan(opts ScanOptions) (*Catalog, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("examples root %s is not a directory", root)
	}

	dirs := opts.Dirs
	if len(dirs) == 0 {
		dirs, err = topLevelDirs(absRoot)
		if err != nil {
			return nil, err
		}
	}

	cat := &Catalog{root: absRoot}
	for _, dir := range dirs {
		if err := cat.scanDir(absRoot, filepath.Join(absRoot, dir)); err != nil {
			return nil, err
		}
	}

	sort.Slice(cat.examples, func(i, j int) bool {
		return cat.examples[i].RepoPath < cat.examples[j].RepoPath
	})

	log.Printf("Scanned %d examples, %d problems", len(cat.examples), len(cat.problems))
	return cat, nil
}

func topLevelDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read examples root %s: %w", root, err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && !skippedDir(entry.Name()) {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func (c *Catalog) scanDir(root, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Printf("Skipping missing directory %s", dir)
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are problems, not fatal errors.
			c.problems = append(c.problems, Problem{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && skippedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ExampleExtension || d.Name() == "__init__"+ExampleExtension {
			return nil
		}

		ex, err := c.load(root, path)
		if err != nil {
			c.problems = append(c.problems, Problem{Path: path, Err: err})
			return nil
		}
		c.examples = append(c.examples, ex)
		return nil
	})
}

func (c *Catalog) load(root, path string) (*Example, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil, err
	}
	repoPath := filepath.ToSlash(rel)

	res, err := frontmatter.ExtractFile(path)
	if err != nil {
		return nil, err
	}

	meta := res.Metadata
	stem := strings.TrimSuffix(filepath.Base(path), ExampleExtension)

	title := meta.Title
	if title == "" {
		title = titleFromStem(stem)
	}
	cmd := meta.Cmd
	if len(cmd) == 0 {
		cmd = append(append([]string{}, DefaultRunCommand...), repoPath)
	}

	return &Example{
		RepoPath:    repoPath,
		AbsPath:     path,
		Stem:        stem,
		Title:       title,
		Description: meta.Description,
		Tags:        meta.Tags,
		Deploy:      meta.Deploy,
		Pytest:      meta.Pytest,
		Cmd:         cmd,
		Args:        meta.Args,
		Deps:        meta.Deps,
		Env:         meta.Env,
		Metadata:    res.Raw,
		Body:        res.Body,
	}, nil
}

// Root returns the absolute repository root the catalog was scanned from.
func (c *Catalog) Root() string { return c.root }

// Examples returns all records in lexicographic path order.
func (c *Catalog) Examples() []*Example { return c.examples }

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.examples) }

// Problems returns the files that failed to scan.
func (c *Catalog) Problems() []Problem { return c.problems }

// Get returns the record with the exact repo path, or nil.
func (c *Catalog) Get(repoPath string) *Example {
	for _, ex := range c.examples {
		if ex.RepoPath == repoPath {
			return ex
		}
	}
	return nil
}

// Find resolves a user-supplied selector to matching records. Resolution is
// staged: exact repo path, then exact stem, then substring of the repo path.
// Later stages run only when earlier ones match nothing.
func (c *Catalog) Find(selector string) []*Example {
	if ex := c.Get(selector); ex != nil {
		return []*Example{ex}
	}

	var matches []*Example
	for _, ex := range c.examples {
		if ex.Stem == selector {
			matches = append(matches, ex)
		}
	}
	if len(matches) > 0 {
		return matches
	}

	for _, ex := range c.examples {
		if strings.Contains(ex.RepoPath, selector) {
			matches = append(matches, ex)
		}
	}
	return matches
}

// FilterTag returns the records declaring the given tag, in catalog order.
func (c *Catalog) FilterTag(tag string) []*Example {
	var matches []*Example
	for _, ex := range c.examples {
		if ex.HasTag(tag) {
			matches = append(matches, ex)
		}
	}
	return matches
}

// Deployable returns the records eligible for deployment, in catalog order.
func (c *Catalog) Deployable() []*Example {
	var matches []*Example
	for _, ex := range c.examples {
		if ex.Deployable() {
			matches = append(matches, ex)
		}
	}
	return matches
}

// JSON renders the catalog as an indented JSON array.
func (c *Catalog) JSON() ([]byte, error) {
	if len(c.examples) == 0 {
		return []byte("[]"), nil
	}
	return json.MarshalIndent(c.examples, "", "  ")
}

func skippedDir(name string) bool {
	for _, prefix := range skippedDirPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
