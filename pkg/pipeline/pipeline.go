// Package pipeline sequences the reconcile and fetch steps of the build and
// serve workflows. Each step runs only if every earlier required step
// succeeded; nothing is rolled back.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/computerscienceiscool/ghpages-local/pkg/engine"
	"github.com/computerscienceiscool/ghpages-local/pkg/fetch"
	"github.com/computerscienceiscool/ghpages-local/pkg/reconcile"
)

// Step names
const (
	StepStopContainer   = "stop-container"
	StepRemoveContainer = "remove-container"
	StepRemoveImage     = "remove-image"
	StepFetch           = "fetch"
	StepBuildImage      = "build-image"
	StepCreateContainer = "create-container"
	StepWait            = "wait"
	StepLogs            = "logs"
	StepList            = "list"
)

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Driver runs the build and serve pipelines against one engine
type Driver struct {
	engine     engine.Engine
	reconciler *reconcile.Reconciler
	fetcher    *fetch.Fetcher
	out        io.Writer
	logger     *slog.Logger
	sleep      SleepFunc
	now        func() time.Time
}

// Option configures a Driver
type Option func(*Driver)

// WithSleep replaces the one-second wait used between progress dots
func WithSleep(fn SleepFunc) Option {
	return func(d *Driver) {
		d.sleep = fn
	}
}

// WithClock replaces the clock used for step timings
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.now = now
	}
}

// New creates a Driver. Progress goes to out, diagnostics to logger.
func New(e engine.Engine, cloner fetch.Cloner, out io.Writer, logger *slog.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d := &Driver{
		engine:     e,
		reconciler: reconcile.New(e, out, logger),
		fetcher:    fetch.New(cloner, out, logger),
		out:        out,
		logger:     logger.With("component", "pipeline"),
		sleep:      sleepContext,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *Driver) header(title string) {
	fmt.Fprintf(d.out, "\n[## %s]\n", title)
}

// run executes fn as a required step. Once res has an error no further
// required step runs.
func (d *Driver) run(res *Result, name, title string, fn func() (string, error)) bool {
	if res.Err != nil {
		return false
	}
	d.header(title)
	step := d.exec(name, fn)
	if step.Err != nil {
		step.Status = StatusFailed
		res.Err = fmt.Errorf("%s: %w", name, step.Err)
		d.logger.Error("step failed", "pipeline", res.Pipeline, "step", name, "error", step.Err)
	}
	res.Steps = append(res.Steps, step)
	return step.Err == nil
}

// report executes fn as a reporting step. Its failure is recorded as a
// warning and does not fail the run.
func (d *Driver) report(res *Result, name, title string, fn func() (string, error)) {
	d.header(title)
	step := d.exec(name, fn)
	if step.Err != nil {
		step.Status = StatusWarning
		fmt.Fprintf(d.out, "  [ERROR] %v\n", step.Err)
		d.logger.Warn("report step failed", "pipeline", res.Pipeline, "step", name, "error", step.Err)
	}
	res.Steps = append(res.Steps, step)
}

func (d *Driver) exec(name string, fn func() (string, error)) Step {
	started := d.now()
	detail, err := fn()
	return Step{
		Name:     name,
		Status:   StatusOK,
		Detail:   detail,
		Started:  started,
		Duration: d.now().Sub(started),
		Err:      err,
	}
}

// wait prints one dot per second, 30 to a line
func (d *Driver) wait(ctx context.Context, seconds int) error {
	const perLine = 30
	for i := 0; i < seconds; i++ {
		if err := d.sleep(ctx, time.Second); err != nil {
			fmt.Fprintln(d.out)
			return err
		}
		if i%perLine == perLine-1 {
			fmt.Fprintln(d.out, ".")
		} else {
			fmt.Fprint(d.out, ".")
		}
	}
	fmt.Fprintln(d.out)
	return nil
}

func (d *Driver) waitStep(ctx context.Context, res *Result, seconds int) bool {
	return d.run(res, StepWait, fmt.Sprintf("Wait: %d sec", seconds), func() (string, error) {
		return fmt.Sprintf("%ds", seconds), d.wait(ctx, seconds)
	})
}

func (d *Driver) logsStep(ctx context.Context, res *Result, name string) {
	d.report(res, StepLogs, "docker logs", func() (string, error) {
		return name, d.engine.Logs(ctx, name, d.out)
	})
}

func (d *Driver) listStep(ctx context.Context, res *Result) {
	d.report(res, StepList, "Container list", func() (string, error) {
		list, err := d.engine.ListContainers(ctx)
		if err != nil {
			return "", err
		}
		if len(list) == 0 {
			return "0 containers", nil
		}
		const rule = "--------------------------------------------------"
		fmt.Fprintln(d.out, rule)
		for _, c := range list {
			fmt.Fprintf(d.out, "%s\tState[%s]\tPort:%s\n", c.Name, c.Status, c.Ports)
		}
		fmt.Fprintln(d.out, rule)
		return fmt.Sprintf("%d containers", len(list)), nil
	})
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
