package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flowline/examplectl/pkg/catalog"
	"github.com/flowline/examplectl/pkg/logger"
)

var log = logger.New("docs:generate")

// Extensions lists the accepted rendered-output extensions.
var Extensions = []string{".md", ".mdx"}

// GenerateOptions configures documentation generation.
type GenerateOptions struct {
	// OutputDir receives the rendered tree. Created if missing.
	OutputDir string
	// Extension is the rendered file extension, ".md" or ".mdx".
	Extension string
	// BaseURL overrides the source link prefix.
	BaseURL string
	// FailFast aborts on the first per-example failure instead of
	// skipping it.
	FailFast bool
}

// Skip records an example that could not be rendered.
type Skip struct {
	RepoPath string
	Err      error
}

// Report summarizes a generation pass.
type Report struct {
	Written   []string // rendered file paths, in write order
	Skipped   []Skip
	IndexPath string
}

// Generate renders every catalog example into opts.OutputDir, grouped into
// per-category directories, and writes an index enumerating the documents.
// A single unrenderable example is skipped and reported unless FailFast is
// set; an unwritable output path is always fatal.
func Generate(cat *catalog.Catalog, opts GenerateOptions) (*Report, error) {
	ext := opts.Extension
	if ext == "" {
		ext = ".mdx"
	}
	if !validExtension(ext) {
		return nil, fmt.Errorf("unsupported documentation extension %q (expected .md or .mdx)", ext)
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", opts.OutputDir, err)
	}

	report := &Report{}
	categories := map[string][]*catalog.Example{}

	for _, ex := range cat.Examples() {
		category := categoryOf(ex.RepoPath)

		categoryDir := filepath.Join(opts.OutputDir, category)
		if err := os.MkdirAll(categoryDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", categoryDir, err)
		}

		outPath := filepath.Join(categoryDir, ex.Stem+ext)
		content := RenderMarkdown(ex, opts.BaseURL)
		if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
			if opts.FailFast {
				return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			log.Printf("Skipping %s: %v", ex.RepoPath, err)
			report.Skipped = append(report.Skipped, Skip{RepoPath: ex.RepoPath, Err: err})
			continue
		}

		report.Written = append(report.Written, outPath)
		categories[category] = append(categories[category], ex)
	}

	indexPath := filepath.Join(opts.OutputDir, "index"+ext)
	if err := os.WriteFile(indexPath, []byte(renderIndex(categories, ext)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write index %s: %w", indexPath, err)
	}
	report.IndexPath = indexPath

	log.Printf("Rendered %d documents, skipped %d", len(report.Written), len(report.Skipped))
	return report, nil
}

// renderIndex produces the catalog index, grouped by category in sorted
// order so output is stable across runs.
func renderIndex(categories map[string][]*catalog.Example, ext string) string {
	var sb strings.Builder
	sb.WriteString("# Examples\n\n")
	sb.WriteString("This documentation is auto-generated from the examples repository.\n\n")

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sb.WriteString("## " + displayName(name) + "\n\n")
		for _, ex := range categories[name] {
			link := name + "/" + ex.Stem + ext
			sb.WriteString(fmt.Sprintf("- [%s](%s)\n", ex.Title, link))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func categoryOf(repoPath string) string {
	if idx := strings.IndexByte(repoPath, '/'); idx > 0 {
		return repoPath[:idx]
	}
	return "misc"
}

func displayName(category string) string {
	words := strings.FieldsFunc(category, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func validExtension(ext string) bool {
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
