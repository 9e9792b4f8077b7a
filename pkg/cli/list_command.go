package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowline/examplectl/pkg/catalog"
	"github.com/flowline/examplectl/pkg/console"
	"github.com/flowline/examplectl/pkg/logger"
)

var listLog = logger.New("cli:list")

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [pattern]",
		Short: "List examples in the repository",
		Long: `List all examples in the repository with their deploy eligibility.

The optional pattern argument filters examples by repo path (case-insensitive
substring match).

Examples:
  examplectl list                 # List all examples
  examplectl list flows/          # List examples under flows/
  examplectl list --json          # Output in JSON format
  examplectl list --tag basics    # List examples tagged 'basics'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pattern string
			if len(args) > 0 {
				pattern = args[0]
			}
			root, dirs, verbose := scanFlags(cmd)
			jsonFlag, _ := cmd.Flags().GetBool("json")
			tagFilter, _ := cmd.Flags().GetString("tag")
			return RunListExamples(root, dirs, pattern, tagFilter, jsonFlag, verbose)
		},
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().String("tag", "", "Filter examples by tag")

	return cmd
}

// RunListExamples lists the catalog to stdout.
func RunListExamples(root string, dirs []string, pattern, tagFilter string, jsonOutput, verbose bool) error {
	listLog.Printf("Listing examples: pattern=%s, tag=%s, json=%v", pattern, tagFilter, jsonOutput)

	cat, err := loadCatalog(root, dirs)
	if err != nil {
		return err
	}

	examples := cat.Examples()
	if tagFilter != "" {
		examples = cat.FilterTag(tagFilter)
	}
	if pattern != "" {
		var filtered []*catalog.Example
		for _, ex := range examples {
			if strings.Contains(strings.ToLower(ex.RepoPath), strings.ToLower(pattern)) {
				filtered = append(filtered, ex)
			}
		}
		examples = filtered
	}

	if jsonOutput {
		filteredCat := examples
		if filteredCat == nil {
			filteredCat = []*catalog.Example{}
		}
		data, err := catalogJSON(filteredCat)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(examples) == 0 {
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage("No examples found."))
		return nil
	}

	fmt.Printf("Found %d examples:\n", len(examples))
	for _, ex := range examples {
		marker := " "
		if ex.Deployable() {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, ex.RepoPath)
		if verbose {
			fmt.Printf("    title: %s\n", ex.Title)
			if len(ex.Tags) > 0 {
				fmt.Printf("    tags: %s\n", strings.Join(ex.Tags, ", "))
			}
			fmt.Printf("    cmd: %s\n", strings.Join(ex.Argv(), " "))
		}
	}
	fmt.Println()
	fmt.Println("* = marked for deployment")
	return nil
}
