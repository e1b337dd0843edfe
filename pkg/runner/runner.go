// Package runner executes external commands on behalf of the operator
// logic, capturing combined output and logging every invocation before and
// after execution. Failures are never retried here; callers decide.
package runner

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// maxLoggedOutput bounds the amount of captured output echoed to the log.
const maxLoggedOutput = 256

// Runner runs external commands and returns their trimmed combined output.
type Runner interface {
	Run(args []string, opts ...Option) (string, error)
}

// Options collects per-invocation settings. Exposed as a struct so fakes
// can inspect what an invocation asked for.
type Options struct {
	Shell bool
	Dir   string
}

// Apply folds the given options into a single Options value.
func Apply(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a single invocation.
type Option func(*Options)

// WithShell runs the command line through "sh -c" instead of executing the
// first argument directly. A single-element vector is passed to the shell
// verbatim; a multi-element vector is quote-joined so word boundaries
// survive the shell.
func WithShell() Option {
	return func(o *Options) { o.Shell = true }
}

// WithDir sets the working directory for the invocation.
func WithDir(dir string) Option {
	return func(o *Options) { o.Dir = dir }
}

// NotFoundError reports that the executable could not be located.
type NotFoundError struct {
	Args []string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command %q not found: %s", strings.Join(e.Args, " "), e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ExitError reports a nonzero exit, carrying the exit code and the combined
// output captured up to the failure.
type ExitError struct {
	Args   []string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q failed with retcode %d: %s",
		strings.Join(e.Args, " "), e.Code, e.Output)
}

// Exec is the process-backed Runner implementation.
type Exec struct {
	log *slog.Logger
}

var _ Runner = (*Exec)(nil)

// New creates a Runner logging through the given logger.
func New(log *slog.Logger) *Exec {
	if log == nil {
		log = slog.Default()
	}
	return &Exec{log: log}
}

// Run executes the given argument vector and returns its combined output
// with trailing whitespace trimmed. The argument vector is the source of
// truth; the shell-quoted line is only built for log display.
func (e *Exec) Run(args []string, opts ...Option) (string, error) {
	o := Apply(opts)

	display := shellescape.QuoteCommand(args)
	e.log.Info("running command", "command", display)

	var cmd *exec.Cmd
	if o.Shell {
		line := args[0]
		if len(args) > 1 {
			line = shellescape.QuoteCommand(args)
		}
		cmd = exec.Command("sh", "-c", line)
	} else {
		cmd = exec.Command(args[0], args[1:]...)
	}
	cmd.Dir = o.Dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			nf := &NotFoundError{Args: args, Err: execErr.Err}
			e.log.Error("command not found", "command", display, "error", execErr.Err)
			return "", nf
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ee := &ExitError{Args: args, Code: exitErr.ExitCode(), Output: string(out)}
			e.log.Error("command failed",
				"command", display, "retcode", ee.Code, "output", truncate(ee.Output))
			return "", ee
		}
		e.log.Error("command failed", "command", display, "error", err)
		return "", fmt.Errorf("run %s: %w", display, err)
	}

	result := strings.TrimRight(string(out), "\n\r\t ")
	e.log.Info("command succeeded", "command", display, "output", truncate(result))
	return result, nil
}

func truncate(s string) string {
	if len(s) > maxLoggedOutput {
		return s[:maxLoggedOutput] + "..."
	}
	return s
}
