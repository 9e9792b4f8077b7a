package cli

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/flowline/examplectl/pkg/catalog"
	"github.com/flowline/examplectl/pkg/console"
	"github.com/flowline/examplectl/pkg/logger"
	"github.com/flowline/examplectl/pkg/runner"
)

var runLog = logger.New("cli:run")

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an example",
		Long: `Run a single example as an isolated process.

The example's header block is stripped before execution and its declared
environment overrides apply only to that process. Selection is by repo path,
stem, or substring; with no selector on a terminal, an interactive picker is
shown.

Examples:
  examplectl run -e flows/hello.py     # Run by path
  examplectl run -e hello              # Run by stem or substring
  examplectl run -r                    # Run a random example
  examplectl run -l                    # List runnable examples`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, dirs, verbose := scanFlags(cmd)
			selector, _ := cmd.Flags().GetString("example")
			random, _ := cmd.Flags().GetBool("random")
			listOnly, _ := cmd.Flags().GetBool("list")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			return RunExample(root, dirs, selector, random, listOnly, timeout, verbose)
		},
	}

	cmd.Flags().StringP("example", "e", "", "Run a specific example by stem name or path")
	cmd.Flags().BoolP("random", "r", false, "Run a random example")
	cmd.Flags().BoolP("list", "l", false, "List all available examples")
	cmd.Flags().Duration("timeout", 0, "Per-example timeout (default from EXAMPLECTL_TIMEOUT or 10m)")
	cmd.MarkFlagsMutuallyExclusive("example", "random", "list")

	return cmd
}

// RunExample resolves and executes one example, reporting its outcome.
func RunExample(root string, dirs []string, selector string, random, listOnly bool, timeout time.Duration, verbose bool) error {
	cat, err := loadCatalog(root, dirs)
	if err != nil {
		return err
	}

	if listOnly {
		return RunListExamples(root, dirs, "", "", false, verbose)
	}

	if cat.Len() == 0 {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage("No examples found."))
		return fmt.Errorf("no examples found")
	}

	var ex *catalog.Example
	switch {
	case random:
		ex = cat.Examples()[rand.Intn(cat.Len())]
		runLog.Printf("Picked random example %s", ex.RepoPath)
	case selector != "":
		ex, err = resolveExample(cat, selector)
		if err != nil {
			return err
		}
	case isTTY():
		ex, err = pickExample(cat)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("no example selected: use --example, --random, or --list")
	}

	opts := runner.OptionsFromEnv()
	if timeout > 0 {
		opts.Timeout = timeout
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(console.FormatInfoMessage("Running: " + ex.RepoPath))
	fmt.Println(console.FormatCommandMessage("  " + strings.Join(ex.Argv(), " ")))

	result := opts.Run(ctx, ex)
	return reportResult(result)
}

func reportResult(result runner.Result) error {
	elapsed := result.Elapsed.Round(10 * time.Millisecond)
	switch {
	case result.Err != nil:
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(fmt.Sprintf("Failed to run %s: %v", result.RepoPath, result.Err)))
		return fmt.Errorf("example %s could not be run", result.RepoPath)
	case result.TimedOut:
		fmt.Println(console.FormatErrorMessage(fmt.Sprintf("Timed out after %s", elapsed)))
		return fmt.Errorf("example %s timed out", result.RepoPath)
	case !result.Passed:
		fmt.Println(console.FormatErrorMessage(fmt.Sprintf("Failed after %s with exit code %d", elapsed, result.ExitCode)))
		return fmt.Errorf("example %s failed with exit code %d", result.RepoPath, result.ExitCode)
	default:
		fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("Success after %s", elapsed)))
		return nil
	}
}

// pickExample offers an interactive selection over the catalog.
func pickExample(cat *catalog.Catalog) (*catalog.Example, error) {
	options := make([]huh.Option[string], 0, cat.Len())
	for _, ex := range cat.Examples() {
		options = append(options, huh.NewOption(ex.RepoPath, ex.RepoPath))
	}

	var chosen string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select an example to run").
				Options(options...).
				Value(&chosen),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return cat.Get(chosen), nil
}
