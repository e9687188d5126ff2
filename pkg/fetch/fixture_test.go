package fetch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/computerscienceiscool/ghpages-local/pkg/runner"
)

// createSourceRepo builds a local repository with a Dockerfile on master, a
// "release" branch and a "v1.0.12" tag, to clone from without network access.
func createSourceRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("ARG RUBY_VERSION\nFROM ruby:$RUBY_VERSION-slim\n"), 0644))
	_, err = wt.Add("Dockerfile")
	require.NoError(t, err)

	hash, err := wt.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "ghpages-local",
			Email: "ghpages-local@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("release"), hash)))
	_, err = repo.CreateTag("v1.0.12", hash, nil)
	require.NoError(t, err)

	return dir
}

// fakeRunner answers git invocations through a handler and records them
type fakeRunner struct {
	calls   [][]string
	handler func(argv []string) runner.Result
}

func (f *fakeRunner) Run(_ context.Context, _ string, name string, args ...string) runner.Result {
	argv := append([]string{name}, args...)
	f.calls = append(f.calls, argv)
	if f.handler == nil {
		return runner.Result{}
	}
	return f.handler(argv)
}

func (f *fakeRunner) Stream(ctx context.Context, _ io.Writer, dir, name string, args ...string) runner.Result {
	return f.Run(ctx, dir, name, args...)
}

func (f *fakeRunner) joined() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, strings.Join(c, " "))
	}
	return out
}

// fakeCloner creates the target directory and counts calls
type fakeCloner struct {
	calls int
	err   error
}

func (f *fakeCloner) Clone(_ context.Context, src Source) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.MkdirAll(src.Dir, 0755)
}
