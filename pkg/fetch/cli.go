package fetch

import (
	"context"

	apperrors "github.com/computerscienceiscool/ghpages-local/internal/errors"
	"github.com/computerscienceiscool/ghpages-local/pkg/runner"
)

// CLICloner clones with the git binary
type CLICloner struct {
	runner   runner.Runner
	binary   string
	autocrlf string
}

// NewCLICloner creates a cloner. When autocrlf is set, core.autocrlf is
// switched to it for the duration of each clone and restored afterwards.
func NewCLICloner(r runner.Runner, autocrlf string) *CLICloner {
	return &CLICloner{runner: r, binary: "git", autocrlf: autocrlf}
}

// Clone runs git clone --branch into src.Dir
func (c *CLICloner) Clone(ctx context.Context, src Source) error {
	clone := func() error {
		args := []string{"clone", "--quiet", "--no-progress", src.URL}
		if src.Ref != "" {
			args = append(args, "--branch", src.Ref)
		}
		args = append(args, src.Dir)

		res := c.runner.Run(ctx, "", c.binary, args...)
		if !res.OK() {
			return &apperrors.CommandError{
				Command:  runner.CommandLine(c.binary, args...),
				ExitCode: res.ExitCode,
				Output:   res.Output,
			}
		}
		return nil
	}

	if c.autocrlf == "" {
		return clone()
	}
	return NewGlobalConfig(c.runner, c.binary).With(ctx, "core.autocrlf", c.autocrlf, clone)
}

var _ Cloner = (*CLICloner)(nil)
