package fetch

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/computerscienceiscool/ghpages-local/internal/errors"
	"github.com/computerscienceiscool/ghpages-local/pkg/runner"
)

// GlobalConfig reads and writes git's global configuration
type GlobalConfig struct {
	runner runner.Runner
	binary string
}

// NewGlobalConfig creates a GlobalConfig that runs binary through r
func NewGlobalConfig(r runner.Runner, binary string) *GlobalConfig {
	if binary == "" {
		binary = "git"
	}
	return &GlobalConfig{runner: r, binary: binary}
}

// Get returns the value of key and whether it is set. git exits 1 for an unset key.
func (g *GlobalConfig) Get(ctx context.Context, key string) (string, bool, error) {
	res := g.runner.Run(ctx, "", g.binary, "config", "--global", "--get", key)
	switch res.ExitCode {
	case 0:
		return res.Output, true, nil
	case 1:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("%w: get %s: %s", apperrors.ErrGitConfig, key, res.Output)
	}
}

// Set writes key=value
func (g *GlobalConfig) Set(ctx context.Context, key, value string) error {
	res := g.runner.Run(ctx, "", g.binary, "config", "--global", key, value)
	if !res.OK() {
		return fmt.Errorf("%w: set %s: %s", apperrors.ErrGitConfig, key, res.Output)
	}
	return nil
}

// Unset removes key
func (g *GlobalConfig) Unset(ctx context.Context, key string) error {
	res := g.runner.Run(ctx, "", g.binary, "config", "--global", "--unset", key)
	// exit 5: key was not set
	if !res.OK() && res.ExitCode != 5 {
		return fmt.Errorf("%w: unset %s: %s", apperrors.ErrGitConfig, key, res.Output)
	}
	return nil
}

// With sets key to value, runs fn, and restores the prior value (or unsets
// the key) whatever fn returns. A restore failure is joined to fn's error.
func (g *GlobalConfig) With(ctx context.Context, key, value string, fn func() error) (err error) {
	prior, wasSet, err := g.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := g.Set(ctx, key, value); err != nil {
		return err
	}

	defer func() {
		restoreCtx := context.WithoutCancel(ctx)
		var restoreErr error
		if wasSet {
			restoreErr = g.Set(restoreCtx, key, prior)
		} else {
			restoreErr = g.Unset(restoreCtx, key)
		}
		if restoreErr != nil {
			err = errors.Join(err, restoreErr)
		}
	}()

	return fn()
}
