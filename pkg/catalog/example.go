package catalog

import (
	"slices"
	"strings"
)

// DefaultRunCommand is the command prefix used when a header declares no cmd.
// The example's repo-relative path is appended as the final argument.
var DefaultRunCommand = []string{"flowline", "run"}

// Example is the in-memory record for one example file plus its parsed
// header metadata. Records are constructed by Scan and immutable afterwards.
type Example struct {
	// RepoPath is the slash-separated path relative to the repository root.
	// It is the unique key for the record.
	RepoPath string `json:"repo_path"`
	// AbsPath is the resolved filesystem path of the source file.
	AbsPath string `json:"abs_path"`
	// Stem is the filename without directory or extension.
	Stem string `json:"stem"`

	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Deploy      bool              `json:"deploy"`
	Pytest      bool              `json:"pytest"`
	Cmd         []string          `json:"cmd"`
	Args        []string          `json:"args,omitempty"`
	Deps        []string          `json:"deps,omitempty"`
	Env         map[string]string `json:"env,omitempty"`

	// Metadata is the raw header mapping including unknown keys, nil when
	// the file carries no header block.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Body is the source with the header block stripped.
	Body []byte `json:"-"`
}

// Argv returns the full command line for running the example: the declared
// (or default) command followed by any extra arguments.
func (e *Example) Argv() []string {
	return append(slices.Clone(e.Cmd), e.Args...)
}

// HasTag reports whether the example declares the given tag.
func (e *Example) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// Deployable reports whether the example is eligible for deployment:
// marked deploy in its header and carrying a non-empty command.
func (e *Example) Deployable() bool {
	return e.Deploy && len(e.Cmd) > 0
}

// titleFromStem derives a display title from a filename stem:
// "01_hello_world" becomes "01 Hello World".
func titleFromStem(stem string) string {
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
