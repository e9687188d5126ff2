package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	apperrors "github.com/computerscienceiscool/ghpages-local/internal/errors"
	"github.com/computerscienceiscool/ghpages-local/pkg/engine"
)

// Action is what a reconcile step did to converge
type Action string

const (
	ActionNone    Action = "none"
	ActionRemoved Action = "removed"
	ActionBuilt   Action = "built"
	ActionCreated Action = "created"
	ActionReused  Action = "reused"
	ActionStopped Action = "stopped"
	ActionAbsent  Action = "absent"
)

// Reconciler compares the desired container and image against what the engine
// reports and issues the remove, build, create or start calls to converge.
type Reconciler struct {
	engine engine.Engine
	out    io.Writer
	logger *slog.Logger
}

// New creates a Reconciler that prints progress to out
func New(e engine.Engine, out io.Writer, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reconciler{
		engine: e,
		out:    out,
		logger: logger.With("component", "reconcile"),
	}
}

func (r *Reconciler) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

// RemoveContainersByImage force-removes every container created from ref.
// A failed probe aborts; a failed removal is reported and skipped.
func (r *Reconciler) RemoveContainersByImage(ctx context.Context, ref string) ([]string, error) {
	names, err := r.engine.FindContainersByImage(ctx, ref)
	if err != nil {
		r.printf("  [ERROR] Failed to list containers of image: %s\n", ref)
		return nil, err
	}

	var removed []string
	for _, name := range names {
		code := 0
		if err := r.engine.RemoveContainer(ctx, name); err != nil {
			code = 1
			r.logger.Warn("container removal failed", "container", name, "error", err)
		} else {
			removed = append(removed, name)
		}
		r.printf("  --> Remove container: %s(%d)\n", name, code)
	}
	return removed, nil
}

// RemoveImage removes ref if it exists. Absent and removed are both success.
func (r *Reconciler) RemoveImage(ctx context.Context, ref string) (Action, error) {
	exists, err := r.engine.ImageExists(ctx, ref)
	if err != nil {
		r.printf("  [ERROR] Don't remove a Docker image: %s\n", ref)
		return ActionNone, err
	}
	if !exists {
		r.logger.Debug("image not present", "image", ref)
		return ActionAbsent, nil
	}

	if err := r.engine.RemoveImage(ctx, ref); err != nil {
		r.printf("  [ERROR] Don't remove a Docker image: %s\n", ref)
		return ActionNone, err
	}
	r.printf("  --> Remove image: %s\n", ref)
	return ActionRemoved, nil
}

// EnsureImage builds spec.Ref when no image with that reference exists
func (r *Reconciler) EnsureImage(ctx context.Context, spec engine.BuildSpec) (Action, error) {
	exists, err := r.engine.ImageExists(ctx, spec.Ref)
	if err != nil {
		r.printf("  [ERROR] Not get Docker image: %s\n", spec.Ref)
		return ActionNone, err
	}
	if exists {
		r.printf("  --> Already exists image: %s\n", spec.Ref)
		return ActionNone, nil
	}

	r.logger.Info("building image", "image", spec.Ref, "context", spec.ContextDir, "dockerfile", spec.Dockerfile)
	if err := r.engine.BuildImage(ctx, spec); err != nil {
		r.printf("  [ERROR] Don't create a Docker image: %s\n", spec.Ref)
		return ActionNone, fmt.Errorf("%w: %w", apperrors.ErrBuildFailed, err)
	}
	r.printf("  --> Create image: %s\n", spec.Ref)
	return ActionBuilt, nil
}

// EnsureContainer starts the container named spec.Name if it exists and
// creates it otherwise. An exact name match always wins over creation.
func (r *Reconciler) EnsureContainer(ctx context.Context, spec engine.RunSpec) (Action, error) {
	names, err := r.engine.FindContainerByName(ctx, spec.Name)
	if err != nil {
		r.printf("  [ERROR] Not create Docker container: %s\n", spec.Name)
		return ActionNone, err
	}

	if engine.ContainsName(names, spec.Name) {
		r.printf("  --> Already exists container: %s\n", spec.Name)
		if err := r.engine.StartContainer(ctx, spec.Name); err != nil {
			r.printf("  [ERROR] Failed container Start :%s\n", spec.Name)
			return ActionNone, fmt.Errorf("%w: %w", apperrors.ErrStartFailed, err)
		}
		r.printf("  --> Start container: %s\n", spec.Name)
		return ActionReused, nil
	}

	if err := r.engine.RunContainer(ctx, spec); err != nil {
		r.printf("  [ERROR] Not create Docker container: %s\n", spec.Name)
		return ActionNone, fmt.Errorf("%w: %w", apperrors.ErrCreateFailed, err)
	}
	r.printf("  --> Create Docker container: %s\n", spec.Name)
	for _, m := range spec.Mounts {
		r.printf("        %-12s %s\n", strings.TrimPrefix(m.Target, "/root/")+":", m.Source)
	}
	return ActionCreated, nil
}

// StopContainers stops every running container matching name
func (r *Reconciler) StopContainers(ctx context.Context, name string) ([]string, error) {
	names, err := r.engine.FindRunningContainersByName(ctx, name)
	if err != nil {
		r.printf("  [ERROR] Failed container stop: %s\n", name)
		return nil, err
	}

	var stopped []string
	for _, n := range names {
		if err := r.engine.StopContainer(ctx, n); err != nil {
			r.printf("  [ERROR] Failed container stop: %s\n", n)
			return stopped, fmt.Errorf("%w: %w", apperrors.ErrStopFailed, err)
		}
		r.printf("  --> Stop container: %s\n", n)
		stopped = append(stopped, n)
	}
	return stopped, nil
}
