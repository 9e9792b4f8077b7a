package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowline/examplectl/pkg/console"
	"github.com/flowline/examplectl/pkg/gitutil"
	"github.com/flowline/examplectl/pkg/logger"
	"github.com/flowline/examplectl/pkg/plan"
	"github.com/flowline/examplectl/pkg/runner"
)

var testPlanLog = logger.New("cli:test_plan")

// NewTestPlanCommand creates the test-plan command
func NewTestPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test-plan",
		Short: "Generate a test plan from changed files",
		Long: `Generate the ordered set of examples to re-test given a set of changed
files. Examples are selected when their path changed or when a tooling
change invalidates everything; records that opt out of testing are excluded
even when changed.

An empty changed set yields an empty plan and a zero exit code.

Examples:
  examplectl test-plan --changed-files flows/hello.py
  examplectl test-plan --git-diff HEAD^..HEAD
  examplectl test-plan --github-action --format json
  examplectl test-plan --git-diff main..HEAD --run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, dirs, _ := scanFlags(cmd)
			changedFiles, _ := cmd.Flags().GetStringSlice("changed-files")
			gitDiff, _ := cmd.Flags().GetString("git-diff")
			githubAction, _ := cmd.Flags().GetBool("github-action")
			format, _ := cmd.Flags().GetString("format")
			runPlan, _ := cmd.Flags().GetBool("run")
			jobs, _ := cmd.Flags().GetInt("jobs")
			testAllPrefixes, _ := cmd.Flags().GetStringSlice("test-all-prefix")
			alwaysRun, _ := cmd.Flags().GetStringSlice("always-run")

			return RunTestPlan(TestPlanConfig{
				Root:            root,
				Dirs:            dirs,
				ChangedFiles:    changedFiles,
				GitDiff:         gitDiff,
				GitHubAction:    githubAction,
				Format:          format,
				Run:             runPlan,
				Jobs:            jobs,
				TestAllPrefixes: testAllPrefixes,
				AlwaysRun:       alwaysRun,
			})
		},
	}

	cmd.Flags().StringSlice("changed-files", nil, "Explicitly specify changed files")
	cmd.Flags().String("git-diff", "", "Get changed files from git diff in the given commit range (e.g., 'HEAD^..HEAD')")
	cmd.Flags().Bool("github-action", false, "Get changed files from the GitHub Actions event payload")
	cmd.Flags().String("format", "text", "Output format: text or json")
	cmd.Flags().Bool("run", false, "Execute the selected examples after printing the plan")
	cmd.Flags().Int("jobs", 0, "Concurrent examples when running the plan (default from EXAMPLECTL_JOBS)")
	cmd.Flags().StringSlice("test-all-prefix", []string{"internal/"}, "Path prefixes whose changes select the whole catalog")
	cmd.Flags().StringSlice("always-run", nil, "Repo paths included in every non-empty plan")
	cmd.MarkFlagsMutuallyExclusive("changed-files", "git-diff", "github-action")

	return cmd
}

// TestPlanConfig carries the resolved test-plan inputs.
type TestPlanConfig struct {
	Root            string
	Dirs            []string
	ChangedFiles    []string
	GitDiff         string
	GitHubAction    bool
	Format          string
	Run             bool
	Jobs            int
	TestAllPrefixes []string
	AlwaysRun       []string
}

// RunTestPlan derives the plan, prints it, and optionally executes it.
func RunTestPlan(cfg TestPlanConfig) error {
	if cfg.Format != "text" && cfg.Format != "json" {
		return fmt.Errorf("unknown format %q (expected text or json)", cfg.Format)
	}

	changed, err := changedFiles(cfg)
	if err != nil {
		return err
	}
	testPlanLog.Printf("Changed files: %d", len(changed))

	cat, err := loadCatalog(cfg.Root, cfg.Dirs)
	if err != nil {
		return err
	}

	p := plan.Select(cat, changed, plan.Policy{
		TestAllPrefixes: cfg.TestAllPrefixes,
		AlwaysRun:       cfg.AlwaysRun,
	})

	if p.TestAll && cfg.Format == "text" {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("Tooling changed (%s), testing all examples", p.TriggerBy)))
	}

	switch cfg.Format {
	case "json":
		if err := p.WriteJSON(os.Stdout); err != nil {
			return err
		}
	default:
		if err := p.WriteText(os.Stdout); err != nil {
			return err
		}
	}

	if !cfg.Run || p.Len() == 0 {
		return nil
	}

	opts := runner.OptionsFromEnv()
	if cfg.Jobs > 0 {
		opts.Jobs = cfg.Jobs
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary := opts.RunAll(ctx, p.Examples)
	printRunSummary(summary)
	if !summary.Ok() {
		return fmt.Errorf("%d of %d examples failed", summary.Failed, len(summary.Results))
	}
	return nil
}

func changedFiles(cfg TestPlanConfig) ([]string, error) {
	switch {
	case cfg.GitHubAction:
		return gitutil.ChangedFilesFromActionsEvent()
	case cfg.GitDiff != "":
		return gitutil.ChangedFilesFromDiff(cfg.GitDiff)
	default:
		return cfg.ChangedFiles, nil
	}
}

func printRunSummary(summary *runner.Summary) {
	fmt.Println()
	for _, r := range summary.Results {
		switch {
		case r.Passed:
			fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("%s (%s)", r.RepoPath, r.Elapsed.Round(10*time.Millisecond))))
		case r.Err != nil:
			fmt.Println(console.FormatErrorMessage(fmt.Sprintf("%s: %v", r.RepoPath, r.Err)))
		default:
			fmt.Println(console.FormatErrorMessage(fmt.Sprintf("%s (exit %d)", r.RepoPath, r.ExitCode)))
		}
	}
	fmt.Printf("\n%d processed, %d passed, %d failed in %s\n",
		len(summary.Results), summary.Passed, summary.Failed, summary.Elapsed.Round(10*time.Millisecond))
}
