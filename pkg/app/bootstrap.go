package app

import (
	"fmt"
	"io"

	"github.com/computerscienceiscool/ghpages-local/internal/logging"
	"github.com/computerscienceiscool/ghpages-local/pkg/config"
	"github.com/computerscienceiscool/ghpages-local/pkg/engine"
	"github.com/computerscienceiscool/ghpages-local/pkg/fetch"
	"github.com/computerscienceiscool/ghpages-local/pkg/journal"
	"github.com/computerscienceiscool/ghpages-local/pkg/pipeline"
	"github.com/computerscienceiscool/ghpages-local/pkg/runner"
)

// Streams are the writers an App prints to
type Streams struct {
	Out    io.Writer
	ErrOut io.Writer
}

// Bootstrap resolves cfg and wires the engine, cloner, journal and pipeline
// driver it selects
func Bootstrap(cfg *config.Config, streams Streams) (*App, error) {
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(streams.ErrOut, resolved.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:  resolved,
		logger:  logger.With("component", "app"),
		out:     streams.Out,
		journal: journal.Nop{},
	}

	r := runner.NewExecRunner(resolved.RootDir).WithOutput(streams.Out, streams.ErrOut)

	eng, err := newEngine(resolved.Engine, r, streams.Out)
	if err != nil {
		return nil, err
	}
	a.engine = eng
	if c, ok := eng.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	cloner := newCloner(resolved.Git, r, streams.Out)

	if resolved.Journal != "" {
		j, err := journal.Open(resolved.Journal)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.journal = j
		a.closers = append(a.closers, j)
	}

	a.driver = pipeline.New(eng, cloner, streams.Out, logger)
	logger.Debug("bootstrapped",
		"root", resolved.RootDir,
		"engine", resolved.Engine.Driver,
		"git", resolved.Git.Driver,
		"journal", resolved.Journal)
	return a, nil
}

func newEngine(cfg config.EngineConfig, r runner.Runner, out io.Writer) (engine.Engine, error) {
	switch cfg.Driver {
	case config.EngineDriverAPI:
		e, err := engine.NewAPIEngine(out)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return engine.NewCLIEngine(cfg.Binary, r), nil
	}
}

func newCloner(cfg config.GitConfig, r runner.Runner, out io.Writer) fetch.Cloner {
	switch cfg.Driver {
	case config.GitDriverGoGit:
		return fetch.NewGoGitCloner(cfg.Depth, out)
	default:
		return fetch.NewCLICloner(r, cfg.Autocrlf)
	}
}

// OpenJournal opens only the journal, for commands that do not touch the
// engine
func OpenJournal(cfg *config.Config, streams Streams) (*App, error) {
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	if resolved.Journal == "" {
		return nil, fmt.Errorf("no journal configured, set --journal or journal in the config file")
	}
	logger, err := logging.New(streams.ErrOut, resolved.LogLevel)
	if err != nil {
		return nil, err
	}
	j, err := journal.Open(resolved.Journal)
	if err != nil {
		return nil, err
	}
	return &App{
		config:  resolved,
		logger:  logger.With("component", "app"),
		out:     streams.Out,
		journal: j,
		closers: []io.Closer{j},
	}, nil
}
