//go:build !integration

package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowline/examplectl/pkg/catalog"
)

func TestRenderMarkdownProseAndCode(t *testing.T) {
	ex := &catalog.Example{
		RepoPath:    "flows/hello.py",
		Stem:        "hello",
		Title:       "Hello World",
		Description: "The smallest flow.",
		Body: []byte(`# Run your first flow.
#
# Flows are plain functions.

def main():
    print("hi")

# Call it like any function.

main()
`),
	}

	out := RenderMarkdown(ex, "")

	assert.True(t, strings.HasPrefix(out, "---\ntitle: Hello World\ndescription: The smallest flow.\n---\n"), "docs frontmatter header:\n%s", out)
	assert.Contains(t, out, "View on GitHub")
	assert.Contains(t, out, DefaultBaseURL+"flows/hello.py")
	assert.Contains(t, out, "Run your first flow.")
	assert.Contains(t, out, "Flows are plain functions.")
	assert.Contains(t, out, "```python\ndef main():\n    print(\"hi\")\n\n```")
	assert.Contains(t, out, "Call it like any function.")
	assert.Contains(t, out, "```python\nmain()\n\n```")
	// Comment markers themselves never appear in prose
	assert.NotContains(t, out, "# Run your first flow.")
}

func TestRenderMarkdownSingleCodeBlock(t *testing.T) {
	ex := &catalog.Example{
		RepoPath: "flows/raw.py",
		Stem:     "raw",
		Title:    "Raw",
		Body:     []byte("x = 1\ny = 2\n"),
	}

	out := RenderMarkdown(ex, "")

	assert.Contains(t, out, "# Example (raw.py)")
	assert.Contains(t, out, "This is the source code for **flows/raw.py**.")
	assert.Contains(t, out, "```python\nx = 1\ny = 2\n\n```")
}

func TestRenderMarkdownDeterministic(t *testing.T) {
	ex := &catalog.Example{
		RepoPath: "flows/hello.py",
		Stem:     "hello",
		Title:    "Hello",
		Body:     []byte("# Prose.\n\nprint(1)\n"),
	}

	first := RenderMarkdown(ex, "")
	second := RenderMarkdown(ex, "")
	assert.Equal(t, first, second)
}

func TestRenderMarkdownCustomBaseURL(t *testing.T) {
	ex := &catalog.Example{
		RepoPath: "flows/hello.py",
		Stem:     "hello",
		Title:    "Hello",
		Body:     []byte("print(1)\n"),
	}

	out := RenderMarkdown(ex, "https://example.com/src/")
	assert.Contains(t, out, `href="https://example.com/src/flows/hello.py"`)
}
