package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GoGitCloner clones in-process with go-git, without a git binary
type GoGitCloner struct {
	depth    int
	progress io.Writer
}

// NewGoGitCloner creates a cloner. depth 0 clones full history.
func NewGoGitCloner(depth int, progress io.Writer) *GoGitCloner {
	return &GoGitCloner{depth: depth, progress: progress}
}

// Clone checks out src.Ref, trying it as a branch first and then as a tag
func (c *GoGitCloner) Clone(ctx context.Context, src Source) error {
	if src.Ref == "" {
		return c.clone(ctx, src, "")
	}

	branchErr := c.clone(ctx, src, plumbing.NewBranchReferenceName(src.Ref))
	if branchErr == nil {
		return nil
	}
	if err := os.RemoveAll(src.Dir); err != nil {
		return fmt.Errorf("failed to clean up after branch clone: %w", err)
	}

	tagErr := c.clone(ctx, src, plumbing.NewTagReferenceName(src.Ref))
	if tagErr == nil {
		return nil
	}
	os.RemoveAll(src.Dir)
	return fmt.Errorf("clone %s at %s: %w", src.URL, src.Ref, errors.Join(branchErr, tagErr))
}

func (c *GoGitCloner) clone(ctx context.Context, src Source, ref plumbing.ReferenceName) error {
	opts := &git.CloneOptions{
		URL:           src.URL,
		ReferenceName: ref,
		SingleBranch:  ref != "",
		Depth:         c.depth,
	}
	if c.progress != nil {
		opts.Progress = c.progress
	}

	_, err := git.PlainCloneContext(ctx, src.Dir, false, opts)
	return err
}

var _ Cloner = (*GoGitCloner)(nil)
