// Package cli wires the examplectl subcommands: catalog listing, example
// execution, change-driven test plans, deployment, and doc generation.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the examplectl command tree.
func NewRootCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examplectl",
		Short: "Internal tooling for the examples repository",
		Long: `examplectl is the internal tooling for the examples repository.

It discovers example files, parses their frontmatter headers, runs and
deploys selected examples, derives change-driven test plans, and renders
the example catalog into documentation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("root", ".", "Repository root to scan for examples")
	cmd.PersistentFlags().StringSlice("dir", nil, "Directories under the root to scan (default: all non-internal directories)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewTestPlanCommand())
	cmd.AddCommand(NewDeployCommand())
	cmd.AddCommand(NewGenerateDocsCommand())
	cmd.AddCommand(newVersionCommand(version))

	return cmd
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the examplectl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("examplectl version " + version)
		},
	}
}

// scanFlags extracts the shared catalog flags from a command invocation.
func scanFlags(cmd *cobra.Command) (root string, dirs []string, verbose bool) {
	root, _ = cmd.Flags().GetString("root")
	dirs, _ = cmd.Flags().GetStringSlice("dir")
	verbose, _ = cmd.Flags().GetBool("verbose")
	return root, dirs, verbose
}

// isTTY reports whether stdin and stdout are attached to a terminal, the
// precondition for interactive prompts.
func isTTY() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
