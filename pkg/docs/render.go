// Package docs renders example records into markdown documentation,
// mirroring the source layout into per-category directories with a
// generated index. Rendering is a pure function of the catalog, so
// re-running over unchanged inputs produces byte-identical output.
package docs

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/flowline/examplectl/pkg/catalog"
)

// DefaultBaseURL is the browse URL prefix for the "View on GitHub" link.
var DefaultBaseURL = "https://github.com/flowline/examples/blob/main/"

var newlineRE = regexp.MustCompile(`\r?\n`)

// RenderMarkdown converts an example's header-stripped body into markdown:
// comment lines become prose, contiguous code lines become fenced python
// blocks, and the header metadata becomes a docs frontmatter plus a source
// link.
func RenderMarkdown(ex *catalog.Example, baseURL string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	lines := newlineRE.Split(string(ex.Body), -1)

	var markdown []string
	var code []string
	flushCode := func() {
		if len(code) > 0 {
			markdown = append(markdown, "```python")
			markdown = append(markdown, code...)
			markdown = append(markdown, "```", "")
			code = nil
		}
	}

	for _, line := range lines {
		if line == "#" || strings.HasPrefix(line, "# ") {
			flushCode()
			markdown = append(markdown, strings.TrimPrefix(strings.TrimPrefix(line, "#"), " "))
		} else {
			if len(markdown) > 0 && markdown[len(markdown)-1] != "" && len(code) == 0 {
				markdown = append(markdown, "")
			}
			if len(code) > 0 || line != "" {
				code = append(code, line)
			}
		}
	}
	flushCode()

	body := strings.Join(markdown, "\n")

	// Pages that are nothing but a single code block get a heading so the
	// document is not bare source.
	if isSingleCodeBlock(body) {
		filename := path.Base(ex.RepoPath)
		body = fmt.Sprintf("# Example (%s)\n\nThis is the source code for **%s**.\n%s", filename, ex.RepoPath, body)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString("title: " + ex.Title + "\n")
	if ex.Description != "" {
		sb.WriteString("description: " + ex.Description + "\n")
	}
	sb.WriteString("---\n\n")

	// Raw HTML keeps its styling in MDX renderers and degrades to a plain
	// link when HTML is stripped.
	sb.WriteString(fmt.Sprintf("<a href=%q target=\"_blank\">View on GitHub</a>\n\n", baseURL+ex.RepoPath))
	sb.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

func isSingleCodeBlock(text string) bool {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```python\n") || !strings.HasSuffix(trimmed, "```") {
		return false
	}
	// Any interior fence means more than one block.
	interior := strings.TrimSuffix(strings.TrimPrefix(trimmed, "```python\n"), "```")
	return !strings.Contains(interior, "```")
}
