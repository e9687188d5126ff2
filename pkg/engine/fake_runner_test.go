package engine

import (
	"context"
	"io"
	"strings"

	"github.com/computerscienceiscool/ghpages-local/pkg/runner"
)

// fakeRunner records every invocation and answers from a table keyed by the joined argv
type fakeRunner struct {
	calls     [][]string
	dirs      []string
	responses map[string]runner.Result
	streamOut string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string]runner.Result{}}
}

func (f *fakeRunner) on(result runner.Result, argv ...string) {
	f.responses[strings.Join(argv, " ")] = result
}

func (f *fakeRunner) record(dir, name string, args []string) runner.Result {
	argv := append([]string{name}, args...)
	f.calls = append(f.calls, argv)
	f.dirs = append(f.dirs, dir)
	return f.responses[strings.Join(argv, " ")]
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) runner.Result {
	return f.record(dir, name, args)
}

func (f *fakeRunner) Stream(_ context.Context, w io.Writer, dir, name string, args ...string) runner.Result {
	res := f.record(dir, name, args)
	if w != nil && f.streamOut != "" {
		io.WriteString(w, f.streamOut)
	}
	return res
}

var _ runner.Runner = (*fakeRunner)(nil)
