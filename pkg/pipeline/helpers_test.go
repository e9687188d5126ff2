package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/computerscienceiscool/ghpages-local/pkg/config"
	"github.com/computerscienceiscool/ghpages-local/pkg/engine/enginetest"
	"github.com/computerscienceiscool/ghpages-local/pkg/fetch"
)

var ctx = context.Background()

var anything = mock.Anything

// dirCloner creates the target directory in place of a real clone
type dirCloner struct {
	calls []fetch.Source
	err   error
}

func (c *dirCloner) Clone(_ context.Context, src fetch.Source) error {
	c.calls = append(c.calls, src)
	if c.err != nil {
		return c.err
	}
	return os.MkdirAll(src.Dir, 0755)
}

type harness struct {
	engine *enginetest.MockEngine
	cloner *dirCloner
	out    *bytes.Buffer
	sleeps int
	driver *Driver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		engine: new(enginetest.MockEngine),
		cloner: &dirCloner{},
		out:    &bytes.Buffer{},
	}
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h.driver = New(h.engine, h.cloner, h.out, nil,
		WithSleep(func(ctx context.Context, _ time.Duration) error {
			h.sleeps++
			return ctx.Err()
		}),
		WithClock(func() time.Time {
			clock = clock.Add(time.Millisecond)
			return clock
		}),
	)
	return h
}

func resolved(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.RootDir = t.TempDir()
	cfg.Serve.InputDir = "docs"
	out, err := cfg.Resolve()
	require.NoError(t, err)
	return out
}

func writeLogs(text string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		_, _ = io.WriteString(args.Get(2).(io.Writer), text)
	}
}
