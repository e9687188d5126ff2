package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Result holds the outcome of one external command
type Result struct {
	ExitCode int
	Output   string
}

// OK reports whether the command exited with code 0
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Runner executes external commands
type Runner interface {
	// Run captures stdout. It never returns an error: launch failures are
	// reported as a non-zero exit code with the error text as output.
	Run(ctx context.Context, dir, name string, args ...string) Result
	// Stream writes the command's stdout and stderr to w, or to the runner's
	// own writers when w is nil.
	Stream(ctx context.Context, w io.Writer, dir, name string, args ...string) Result
}

// ExecRunner implements Runner with os/exec
type ExecRunner struct {
	defaultDir string
	stdout     io.Writer
	stderr     io.Writer
}

// NewExecRunner creates a runner that uses defaultDir when no working directory is given
func NewExecRunner(defaultDir string) *ExecRunner {
	return &ExecRunner{
		defaultDir: defaultDir,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
}

// WithOutput sets where streamed commands write
func (r *ExecRunner) WithOutput(stdout, stderr io.Writer) *ExecRunner {
	r.stdout = stdout
	r.stderr = stderr
	return r
}

// Run executes name with args and returns the cleaned stdout
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) Result {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.workDir(dir)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return Result{ExitCode: exitCode(err), Output: msg}
	}

	return Result{ExitCode: 0, Output: Clean(stdout.String())}
}

// Stream executes name with args attached to w or the runner's writers
func (r *ExecRunner) Stream(ctx context.Context, w io.Writer, dir, name string, args ...string) Result {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.workDir(dir)
	cmd.Stdout, cmd.Stderr = r.stdout, r.stderr
	if w != nil {
		cmd.Stdout, cmd.Stderr = w, w
	}

	if err := cmd.Run(); err != nil {
		return Result{ExitCode: exitCode(err), Output: err.Error()}
	}
	return Result{}
}

func (r *ExecRunner) workDir(dir string) string {
	if dir == "" {
		return r.defaultDir
	}
	return dir
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// Clean strips the quote characters docker --format templates leave behind and trims whitespace
func Clean(output string) string {
	return strings.TrimSpace(strings.ReplaceAll(output, `"`, ""))
}

// SplitNames splits probe output into non-blank, trimmed lines
func SplitNames(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	return names
}

// CommandLine renders a command for error messages
func CommandLine(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return fmt.Sprintf("%s %s", name, strings.Join(args, " "))
}

// Verify ExecRunner implements Runner interface
var _ Runner = (*ExecRunner)(nil)
