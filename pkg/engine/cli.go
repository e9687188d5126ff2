package engine

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	apperrors "github.com/computerscienceiscool/ghpages-local/internal/errors"
	"github.com/computerscienceiscool/ghpages-local/pkg/runner"
)

const (
	namesFormat = `"{{.Names}}"`
	listFormat  = `"{{.Names}}\t{{.Status}}\t{{.Ports}}"`
)

// CLIEngine implements Engine by shelling out to the docker (or podman) CLI
type CLIEngine struct {
	binary string
	runner runner.Runner
}

// NewCLIEngine creates an Engine that runs binary through r
func NewCLIEngine(binary string, r runner.Runner) *CLIEngine {
	if binary == "" {
		binary = "docker"
	}
	return &CLIEngine{binary: binary, runner: r}
}

func (e *CLIEngine) run(ctx context.Context, args ...string) (string, error) {
	res := e.runner.Run(ctx, "", e.binary, args...)
	if !res.OK() {
		return res.Output, &apperrors.CommandError{
			Command:  runner.CommandLine(e.binary, args...),
			ExitCode: res.ExitCode,
			Output:   res.Output,
		}
	}
	return res.Output, nil
}

// Ping verifies the engine answers
func (e *CLIEngine) Ping(ctx context.Context) error {
	if _, err := e.run(ctx, "version"); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrEngineUnavailable, err)
	}
	return nil
}

func (e *CLIEngine) probe(ctx context.Context, args ...string) ([]string, error) {
	out, err := e.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrProbeFailed, err)
	}
	return runner.SplitNames(out), nil
}

// FindContainerByName lists containers in any state matching the name filter
func (e *CLIEngine) FindContainerByName(ctx context.Context, name string) ([]string, error) {
	return e.probe(ctx, "ps", "-a", "--format", namesFormat, "--filter", "name="+name)
}

// FindRunningContainersByName lists running containers matching the name filter
func (e *CLIEngine) FindRunningContainersByName(ctx context.Context, name string) ([]string, error) {
	return e.probe(ctx, "ps", "--format", namesFormat, "--filter", "name="+name)
}

// FindContainersByImage lists containers in any state created from ref
func (e *CLIEngine) FindContainersByImage(ctx context.Context, ref string) ([]string, error) {
	return e.probe(ctx, "ps", "-a", "--format", namesFormat, "--filter", "ancestor="+ref)
}

// ImageExists reports whether `images -q ref` prints anything
func (e *CLIEngine) ImageExists(ctx context.Context, ref string) (bool, error) {
	out, err := e.run(ctx, "images", "-q", ref)
	if err != nil {
		return false, fmt.Errorf("%w: %w", apperrors.ErrProbeFailed, err)
	}
	return out != "", nil
}

// RemoveContainer force-removes a container
func (e *CLIEngine) RemoveContainer(ctx context.Context, name string) error {
	if _, err := e.run(ctx, "rm", "-f", name); err != nil {
		return &apperrors.ResourceError{Op: "remove container", Resource: name, Err: err}
	}
	return nil
}

// RemoveImage removes an image by reference
func (e *CLIEngine) RemoveImage(ctx context.Context, ref string) error {
	if _, err := e.run(ctx, "rmi", ref); err != nil {
		return &apperrors.ResourceError{Op: "remove image", Resource: ref, Err: err}
	}
	return nil
}

// StartContainer starts an existing container
func (e *CLIEngine) StartContainer(ctx context.Context, name string) error {
	if _, err := e.run(ctx, "start", name); err != nil {
		return &apperrors.ResourceError{Op: "start container", Resource: name, Err: err}
	}
	return nil
}

// StopContainer stops a running container
func (e *CLIEngine) StopContainer(ctx context.Context, name string) error {
	if _, err := e.run(ctx, "stop", name); err != nil {
		return &apperrors.ResourceError{Op: "stop container", Resource: name, Err: err}
	}
	return nil
}

// BuildImage runs `build` attached to the terminal from the context directory
func (e *CLIEngine) BuildImage(ctx context.Context, spec BuildSpec) error {
	args := BuildArgs(spec)
	res := e.runner.Stream(ctx, nil, spec.ContextDir, e.binary, args...)
	if !res.OK() {
		return &apperrors.ResourceError{
			Op:       "build image",
			Resource: spec.Ref,
			Err: &apperrors.CommandError{
				Command:  runner.CommandLine(e.binary, args...),
				ExitCode: res.ExitCode,
				Output:   res.Output,
			},
		}
	}
	return nil
}

// BuildArgs renders the argument vector for an image build
func BuildArgs(spec BuildSpec) []string {
	args := []string{"build"}

	keys := make([]string, 0, len(spec.BuildArgs))
	for k := range spec.BuildArgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--build-arg", k+"="+spec.BuildArgs[k])
	}

	args = append(args, "-t", spec.Ref)
	if spec.Dockerfile != "" {
		args = append(args, "-f", spec.Dockerfile)
	}
	return append(args, spec.ContextDir)
}

// RunContainer creates and starts a detached container
func (e *CLIEngine) RunContainer(ctx context.Context, spec RunSpec) error {
	if _, err := e.run(ctx, RunArgs(spec)...); err != nil {
		return &apperrors.ResourceError{Op: "create container", Resource: spec.Name, Err: err}
	}
	return nil
}

// RunArgs renders the argument vector for a detached, interactive container
func RunArgs(spec RunSpec) []string {
	args := []string{"run", "-dit", "--name", spec.Name}

	hostname := spec.Hostname
	if hostname == "" {
		hostname = spec.Name
	}
	args = append(args, "--hostname", hostname)

	if spec.AutoRemove {
		args = append(args, "--rm")
	}
	for _, p := range spec.Ports {
		args = append(args, "--publish", p.String())
	}
	for _, m := range spec.Mounts {
		args = append(args, "-v", m.String())
	}
	for _, env := range spec.Env {
		args = append(args, "-e", env)
	}
	if spec.WorkDir != "" {
		args = append(args, "--workdir", spec.WorkDir)
	}

	args = append(args, spec.Image)
	return append(args, spec.Cmd...)
}

// Logs copies the container's logs to w
func (e *CLIEngine) Logs(ctx context.Context, name string, w io.Writer) error {
	res := e.runner.Stream(ctx, w, "", e.binary, "logs", name)
	if !res.OK() {
		return &apperrors.ResourceError{
			Op:       "logs",
			Resource: name,
			Err:      &apperrors.CommandError{Command: e.binary + " logs " + name, ExitCode: res.ExitCode, Output: res.Output},
		}
	}
	return nil
}

// ListContainers lists every container with its status and published ports
func (e *CLIEngine) ListContainers(ctx context.Context) ([]ContainerStatus, error) {
	out, err := e.run(ctx, "ps", "-a", "--format", listFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrProbeFailed, err)
	}

	var list []ContainerStatus
	for _, line := range runner.SplitNames(out) {
		fields := strings.SplitN(line, "\t", 3)
		cs := ContainerStatus{Name: fields[0]}
		if len(fields) > 1 {
			cs.Status = fields[1]
		}
		if len(fields) > 2 {
			cs.Ports = fields[2]
		}
		list = append(list, cs)
	}
	return list, nil
}

// Verify CLIEngine implements Engine interface
var _ Engine = (*CLIEngine)(nil)
