package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	apperrors "github.com/computerscienceiscool/ghpages-local/internal/errors"
)

// Source is a repository pinned to a branch or tag, and where to put it
type Source struct {
	URL string
	Ref string
	Dir string
}

// Outcome reports what Fetch did
type Outcome string

const (
	OutcomeSkipped Outcome = "skipped"
	OutcomeCloned  Outcome = "cloned"
)

// Cloner clones a source into an empty or missing directory
type Cloner interface {
	Clone(ctx context.Context, src Source) error
}

// Fetcher downloads a dependency repository unless it is already present
type Fetcher struct {
	cloner Cloner
	out    io.Writer
	logger *slog.Logger
}

// New creates a Fetcher that prints progress to out
func New(cloner Cloner, out io.Writer, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{cloner: cloner, out: out, logger: logger.With("component", "fetch")}
}

// Fetch clones src when its directory is missing or force is set. An existing
// directory without force is left untouched.
func (f *Fetcher) Fetch(ctx context.Context, src Source, force bool) (Outcome, error) {
	if _, err := os.Stat(src.Dir); err == nil {
		if !force {
			fmt.Fprintf(f.out, "  --> exists directory: %s\n", src.Dir)
			return OutcomeSkipped, nil
		}
		fmt.Fprintf(f.out, "  --> Remove directory: %s\n", src.Dir)
		if err := os.RemoveAll(src.Dir); err != nil {
			fmt.Fprintf(f.out, "  [ERROR] %v\n", err)
			return OutcomeSkipped, &apperrors.ResourceError{Op: "remove directory", Resource: src.Dir, Err: err}
		}
	} else if !os.IsNotExist(err) {
		return OutcomeSkipped, &apperrors.ResourceError{Op: "stat directory", Resource: src.Dir, Err: err}
	}

	f.logger.Debug("cloning", "url", src.URL, "ref", src.Ref, "dir", src.Dir)
	if err := f.cloner.Clone(ctx, src); err != nil {
		fmt.Fprintf(f.out, "  [ERROR] %v\n", err)
		return OutcomeSkipped, fmt.Errorf("%w: %w", apperrors.ErrCloneFailed, err)
	}

	fmt.Fprintf(f.out, "  --> Get clone %s(%s)\n", src.URL, src.Ref)
	return OutcomeCloned, nil
}
