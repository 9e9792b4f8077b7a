package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flowline/examplectl/pkg/catalog"
	"github.com/flowline/examplectl/pkg/console"
	"github.com/flowline/examplectl/pkg/logger"
	"github.com/flowline/examplectl/pkg/runner"
)

var deployLog = logger.New("cli:deploy")

// NewDeployCommand creates the deploy command
func NewDeployCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy examples marked for deployment",
		Long: `Deploy examples whose header carries deploy: true and a run command.

Examples:
  examplectl deploy -l                 # List examples that would be deployed
  examplectl deploy -e flows/hello.py  # Deploy a specific example
  examplectl deploy -a                 # Deploy all eligible examples`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, dirs, _ := scanFlags(cmd)
			selector, _ := cmd.Flags().GetString("example")
			all, _ := cmd.Flags().GetBool("all")
			listOnly, _ := cmd.Flags().GetBool("list")
			return RunDeploy(root, dirs, selector, all, listOnly)
		},
	}

	cmd.Flags().StringP("example", "e", "", "Deploy a specific example by name or path")
	cmd.Flags().BoolP("all", "a", false, "Deploy all examples marked for deployment")
	cmd.Flags().BoolP("list", "l", false, "List examples that would be deployed without deploying them")
	cmd.MarkFlagsMutuallyExclusive("example", "all", "list")

	return cmd
}

// RunDeploy deploys the selected examples and reports a summary.
func RunDeploy(root string, dirs []string, selector string, all, listOnly bool) error {
	cat, err := loadCatalog(root, dirs)
	if err != nil {
		return err
	}

	switch {
	case listOnly:
		return listDeployable(cat)
	case selector != "":
		ex, err := resolveExample(cat, selector)
		if err != nil {
			return err
		}
		if !ex.Deployable() {
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage(
				fmt.Sprintf("Example %s is not marked for deployment, skipping", ex.RepoPath)))
			return nil
		}
		return deployExamples([]*catalog.Example{ex})
	case all:
		return deployExamples(cat.Deployable())
	}

	return fmt.Errorf("nothing selected: use --example, --all, or --list")
}

func listDeployable(cat *catalog.Catalog) error {
	eligible := cat.Deployable()
	if len(eligible) == 0 {
		fmt.Println("No examples found to deploy")
		return nil
	}

	fmt.Printf("Found %d examples that would be deployed:\n", len(eligible))
	for _, ex := range eligible {
		fmt.Printf("- %s\n", ex.RepoPath)
		fmt.Printf("  Command: %s\n", strings.Join(ex.Argv(), " "))
	}
	return nil
}

func deployExamples(examples []*catalog.Example) error {
	if len(examples) == 0 {
		fmt.Println("No examples found to deploy")
		return nil
	}

	deployLog.Printf("Deploying %d examples", len(examples))
	fmt.Printf("Found %d examples to deploy\n", len(examples))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := runner.OptionsFromEnv()
	failed := 0
	for _, ex := range examples {
		fmt.Println(console.FormatInfoMessage("Deploying " + ex.RepoPath + "..."))
		fmt.Println(console.FormatCommandMessage("  " + strings.Join(ex.Argv(), " ")))

		result := opts.Run(ctx, ex)
		switch {
		case result.Err != nil:
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(
				fmt.Sprintf("Failed to deploy %s: %v", ex.RepoPath, result.Err)))
			failed++
		case !result.Passed:
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(
				fmt.Sprintf("Failed to deploy %s: exit code %d", ex.RepoPath, result.ExitCode)))
			failed++
		default:
			fmt.Println(console.FormatSuccessMessage("Successfully deployed " + ex.RepoPath))
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to deploy %d of %d examples", failed, len(examples))
	}
	fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("Successfully deployed %d examples", len(examples))))
	return nil
}
