// Package runner executes example records as isolated child processes.
//
// Each run copies the example's header-stripped body to a private temporary
// file, invokes the record's command against it with the record's
// environment overrides merged over the ambient environment, and captures
// the exit status. The temporary file is removed on every exit path,
// including cancellation. Run never panics or returns an error for a
// well-formed record; outcomes are always reported as a Result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/flowline/examplectl/pkg/catalog"
	"github.com/flowline/examplectl/pkg/envutil"
	"github.com/flowline/examplectl/pkg/logger"
)

var log = logger.New("runner:exec")

// DefaultTimeout bounds a single example run.
const DefaultTimeout = 10 * time.Minute

// Options configures example execution.
type Options struct {
	// Timeout per example. Zero means DefaultTimeout.
	Timeout time.Duration
	// Jobs is the number of examples run concurrently by RunAll.
	// Values below 1 mean sequential execution.
	Jobs int
	// Stdout and Stderr receive the child process output. Nil means the
	// runner process's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// OptionsFromEnv reads runner options from EXAMPLECTL_TIMEOUT and
// EXAMPLECTL_JOBS, falling back to defaults.
func OptionsFromEnv() Options {
	return Options{
		Timeout: envutil.GetDurationFromEnv("EXAMPLECTL_TIMEOUT", DefaultTimeout, log),
		Jobs:    envutil.GetIntFromEnv("EXAMPLECTL_JOBS", 1, 1, 64, log),
	}
}

// Result is the outcome of executing one example.
type Result struct {
	RepoPath string        `json:"repo_path"`
	Passed   bool          `json:"passed"`
	ExitCode int           `json:"exit_code"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	TimedOut bool          `json:"timed_out,omitempty"`
	// Err is set when the example could not be launched at all
	// (malformed record, missing binary). Execution failures are
	// expressed through ExitCode, not Err.
	Err error `json:"-"`
}

// Run executes a single example and reports its outcome. The context bounds
// the child process; on cancellation the process is killed and the
// temporary file still removed.
func (o Options) Run(ctx context.Context, ex *catalog.Example) Result {
	start := time.Now()
	result := Result{RepoPath: exPath(ex), ExitCode: -1}

	if err := validate(ex); err != nil {
		result.Err = err
		result.Elapsed = time.Since(start)
		return result
	}

	tmp, err := os.CreateTemp("", "example-*"+catalog.ExampleExtension)
	if err != nil {
		result.Err = fmt.Errorf("failed to create temp file: %w", err)
		result.Elapsed = time.Since(start)
		return result
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(ex.Body); err != nil {
		tmp.Close()
		result.Err = fmt.Errorf("failed to write temp file %s: %w", tmpPath, err)
		result.Elapsed = time.Since(start)
		return result
	}
	if err := tmp.Close(); err != nil {
		result.Err = fmt.Errorf("failed to close temp file %s: %w", tmpPath, err)
		result.Elapsed = time.Since(start)
		return result
	}

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := substitute(ex.Argv(), ex.RepoPath, tmpPath)
	log.Printf("Running %s: %v", ex.RepoPath, argv)

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Env = mergeEnv(os.Environ(), ex.Env)
	cmd.Stdout = o.Stdout
	cmd.Stderr = o.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err = cmd.Run()
	result.Elapsed = time.Since(start)

	switch {
	case err == nil:
		result.Passed = true
		result.ExitCode = 0
	case runCtx.Err() != nil:
		result.TimedOut = errors.Is(runCtx.Err(), context.DeadlineExceeded)
		result.ExitCode = 1
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Launch failure: command not found, permission denied.
			result.Err = err
		}
	}

	log.Printf("Finished %s: passed=%v exit=%d elapsed=%s", ex.RepoPath, result.Passed, result.ExitCode, result.Elapsed)
	return result
}

// RunAll executes the given examples and collects their results. With
// Jobs > 1 independent examples run concurrently; results are reported in
// repo-path order either way, as no ordering between examples is assumed.
func (o Options) RunAll(ctx context.Context, examples []*catalog.Example) *Summary {
	start := time.Now()
	var results []Result

	if o.Jobs > 1 && len(examples) > 1 {
		p := pool.NewWithResults[Result]().WithMaxGoroutines(o.Jobs)
		for _, ex := range examples {
			p.Go(func() Result {
				return o.Run(ctx, ex)
			})
		}
		results = p.Wait()
	} else {
		for _, ex := range examples {
			results = append(results, o.Run(ctx, ex))
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].RepoPath < results[j].RepoPath
	})

	summary := &Summary{Results: results, Elapsed: time.Since(start)}
	for _, r := range results {
		if r.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// Summary aggregates the results of a run.
type Summary struct {
	Results []Result
	Passed  int
	Failed  int
	Elapsed time.Duration
}

// Ok reports whether every example passed.
func (s *Summary) Ok() bool { return s.Failed == 0 }

func validate(ex *catalog.Example) error {
	if ex == nil {
		return errors.New("nil example record")
	}
	if len(ex.Cmd) == 0 {
		return fmt.Errorf("example %s has no run command", ex.RepoPath)
	}
	if ex.AbsPath != "" {
		if _, err := os.Stat(ex.AbsPath); err != nil {
			return fmt.Errorf("example source %s is not readable: %w", ex.AbsPath, err)
		}
	}
	return nil
}

// substitute replaces exact occurrences of the record's repo path in the
// argv with the temporary file path, so the command runs against the
// header-stripped copy.
func substitute(argv []string, repoPath, tmpPath string) []string {
	for i, arg := range argv {
		if arg == repoPath {
			argv[i] = tmpPath
		}
	}
	return argv
}

func mergeEnv(ambient []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return ambient
	}
	env := make([]string, len(ambient), len(ambient)+len(overrides))
	copy(env, ambient)
	// Deterministic order keeps debug output stable.
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+overrides[k])
	}
	return env
}

func exPath(ex *catalog.Example) string {
	if ex == nil {
		return ""
	}
	return ex.RepoPath
}
