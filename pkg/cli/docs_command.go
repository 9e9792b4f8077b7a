package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flowline/examplectl/pkg/console"
	"github.com/flowline/examplectl/pkg/docs"
	"github.com/flowline/examplectl/pkg/logger"
)

var docsLog = logger.New("cli:generate_docs")

// NewGenerateDocsCommand creates the generate-docs command
func NewGenerateDocsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate documentation from examples",
		Long: `Render every example into markdown documentation, grouped into
per-category directories mirroring the source layout, with a generated
index. Re-running over unchanged examples produces byte-identical output.

Examples:
  examplectl generate-docs -o docs              # Render .mdx docs into docs/
  examplectl generate-docs -o docs -e .md       # Render plain markdown
  examplectl generate-docs -o docs --watch      # Re-render on source changes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, dirs, _ := scanFlags(cmd)
			outputDir, _ := cmd.Flags().GetString("output-dir")
			extension, _ := cmd.Flags().GetString("extension")
			baseURL, _ := cmd.Flags().GetString("base-url")
			failFast, _ := cmd.Flags().GetBool("fail-fast")
			watch, _ := cmd.Flags().GetBool("watch")
			return RunGenerateDocs(root, dirs, outputDir, extension, baseURL, failFast, watch)
		},
	}

	cmd.Flags().StringP("output-dir", "o", "docs", "Output directory for documentation files")
	cmd.Flags().StringP("extension", "e", ".mdx", "File extension for documentation files (.md or .mdx)")
	cmd.Flags().String("base-url", "", "Source link prefix for rendered documents")
	cmd.Flags().Bool("fail-fast", false, "Abort on the first unrenderable example")
	cmd.Flags().Bool("watch", false, "Watch example sources and re-render on change")

	return cmd
}

// RunGenerateDocs renders the catalog into the output directory, optionally
// watching for source changes.
func RunGenerateDocs(root string, dirs []string, outputDir, extension, baseURL string, failFast, watch bool) error {
	generate := func() error {
		cat, err := loadCatalog(root, dirs)
		if err != nil {
			return err
		}
		if cat.Len() == 0 {
			fmt.Fprintln(os.Stderr, console.FormatInfoMessage("No examples found."))
			return nil
		}

		docsLog.Printf("Rendering %d examples into %s", cat.Len(), outputDir)
		report, err := docs.Generate(cat, docs.GenerateOptions{
			OutputDir: outputDir,
			Extension: extension,
			BaseURL:   baseURL,
			FailFast:  failFast,
		})
		if err != nil {
			return err
		}

		for _, skip := range report.Skipped {
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage(
				fmt.Sprintf("Skipped %s: %v", skip.RepoPath, skip.Err)))
		}
		fmt.Println(console.FormatSuccessMessage(fmt.Sprintf(
			"Created %d documentation files in %s (%d skipped)",
			len(report.Written), outputDir, len(report.Skipped))))
		return nil
	}

	if !watch {
		return generate()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(console.FormatInfoMessage("Watching for changes. Press Ctrl-C to stop."))
	err := docs.Watch(ctx, root, generate)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
