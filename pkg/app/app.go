package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/computerscienceiscool/ghpages-local/pkg/config"
	"github.com/computerscienceiscool/ghpages-local/pkg/engine"
	"github.com/computerscienceiscool/ghpages-local/pkg/journal"
	"github.com/computerscienceiscool/ghpages-local/pkg/pipeline"
)

// App represents the main application
type App struct {
	config  *config.Config
	logger  *slog.Logger
	out     io.Writer
	engine  engine.Engine
	driver  *pipeline.Driver
	journal journal.Journal
	closers []io.Closer
}

// RunBuild runs the build pipeline and records it in the journal
func (a *App) RunBuild(ctx context.Context) error {
	if err := a.config.ValidateBuild(); err != nil {
		return err
	}
	res := a.driver.Build(ctx, a.config.Build)
	return a.finish(ctx, res)
}

// RunServe runs the serve pipeline and records it in the journal
func (a *App) RunServe(ctx context.Context) error {
	if err := a.config.ValidateServe(); err != nil {
		return err
	}
	res := a.driver.Serve(ctx, a.config.Serve)
	return a.finish(ctx, res)
}

// finish records res and maps its error to the process outcome. A journal
// failure never fails the run.
func (a *App) finish(ctx context.Context, res *pipeline.Result) error {
	if runID, err := a.journal.Record(context.WithoutCancel(ctx), res); err != nil {
		a.logger.Warn("failed to record run", "error", err)
	} else if runID != "" {
		a.logger.Debug("run recorded", "run_id", runID)
	}

	if res.Err == nil {
		return nil
	}
	if a.config.ExitZero {
		a.logger.Info("pipeline failed, exiting 0", "pipeline", res.Pipeline, "error", res.Err)
		return nil
	}
	return fmt.Errorf("%s pipeline failed: %w", res.Pipeline, res.Err)
}

// History prints the last limit runs
func (a *App) History(ctx context.Context, limit int, w io.Writer) error {
	runs, err := a.journal.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range runs {
		outcome := "ok"
		if r.Failed {
			outcome = "FAILED"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.StartedAt.Local().Format(time.DateTime), r.Pipeline, outcome)
		for _, e := range r.Entries {
			fmt.Fprintf(tw, "\t  %s\t%s\t%dms\t%s\n", e.Step, e.Status, e.DurationMS, e.Detail)
		}
	}
	return tw.Flush()
}

// Close releases the engine client and the journal
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *App) GetConfig() *config.Config {
	return a.config
}

func (a *App) GetEngine() engine.Engine {
	return a.engine
}

func (a *App) GetJournal() journal.Journal {
	return a.journal
}
