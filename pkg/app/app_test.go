package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/computerscienceiscool/ghpages-local/internal/logging"
	"github.com/computerscienceiscool/ghpages-local/pkg/config"
	"github.com/computerscienceiscool/ghpages-local/pkg/engine/enginetest"
	"github.com/computerscienceiscool/ghpages-local/pkg/fetch"
	"github.com/computerscienceiscool/ghpages-local/pkg/journal"
	"github.com/computerscienceiscool/ghpages-local/pkg/pipeline"
)

var ctx = context.Background()

type nopCloner struct{}

func (nopCloner) Clone(context.Context, fetch.Source) error { return nil }

func newTestApp(t *testing.T, e *enginetest.MockEngine, j journal.Journal) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := config.Defaults()
	cfg.RootDir = t.TempDir()
	cfg.Serve.InputDir = "docs"
	cfg.Serve.WaitLogs = 0
	resolved, err := cfg.Resolve()
	require.NoError(t, err)

	var out bytes.Buffer
	noSleep := func(context.Context, time.Duration) error { return nil }
	return &App{
		config:  resolved,
		logger:  logging.Discard(),
		out:     &out,
		engine:  e,
		driver:  pipeline.New(e, nopCloner{}, &out, nil, pipeline.WithSleep(noSleep)),
		journal: j,
	}, &out
}

func failingServe(e *enginetest.MockEngine) {
	e.On("FindRunningContainersByName", mock.Anything, "server_jekyll").Return(nil, errors.New("Cannot connect to the Docker daemon"))
	e.On("ListContainers", mock.Anything).Return(nil, errors.New("Cannot connect to the Docker daemon"))
}

func TestRunServe_FailureIsReturned(t *testing.T) {
	e := new(enginetest.MockEngine)
	failingServe(e)
	app, out := newTestApp(t, e, journal.Nop{})

	err := app.RunServe(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "serve pipeline failed")
	assert.Contains(t, out.String(), "  [ERROR] Failed container stop: server_jekyll")
}

func TestRunServe_ExitZero(t *testing.T) {
	e := new(enginetest.MockEngine)
	failingServe(e)
	app, _ := newTestApp(t, e, journal.Nop{})
	app.config.ExitZero = true

	assert.NoError(t, app.RunServe(ctx))
}

func TestRunServe_ValidatesFirst(t *testing.T) {
	e := new(enginetest.MockEngine)
	app, _ := newTestApp(t, e, journal.Nop{})
	app.config.Serve.InputDir = ""

	assert.Error(t, app.RunServe(ctx))
	e.AssertNotCalled(t, "FindRunningContainersByName", mock.Anything, mock.Anything)
}

func TestRunServe_RecordedInJournal(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "j.db"))
	require.NoError(t, err)
	defer j.Close()

	e := new(enginetest.MockEngine)
	e.On("FindRunningContainersByName", mock.Anything, "server_jekyll").Return([]string{}, nil)
	e.On("ImageExists", mock.Anything, "github_pages_server_image:latest").Return(true, nil)
	e.On("FindContainerByName", mock.Anything, "server_jekyll").Return([]string{"server_jekyll"}, nil)
	e.On("StartContainer", mock.Anything, "server_jekyll").Return(nil)
	e.On("Logs", mock.Anything, "server_jekyll", mock.Anything).Return(nil)
	e.On("ListContainers", mock.Anything).Return(nil, nil)
	app, _ := newTestApp(t, e, j)

	require.NoError(t, app.RunServe(ctx))

	var hist bytes.Buffer
	require.NoError(t, app.History(ctx, 5, &hist))
	assert.Contains(t, hist.String(), "serve")
	assert.Contains(t, hist.String(), "create-container")
	assert.Contains(t, hist.String(), "reused")
	assert.NotContains(t, hist.String(), "FAILED")
}

func TestHistory_Empty(t *testing.T) {
	app, _ := newTestApp(t, new(enginetest.MockEngine), journal.Nop{})

	var hist bytes.Buffer
	require.NoError(t, app.History(ctx, 5, &hist))
	assert.Equal(t, "No runs recorded.\n", hist.String())
}
