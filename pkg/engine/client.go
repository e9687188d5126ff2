package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"

	apperrors "github.com/computerscienceiscool/ghpages-local/internal/errors"
)

// APIEngine implements Engine against the Docker Engine API
type APIEngine struct {
	cli      *client.Client
	buildOut io.Writer
}

// NewAPIEngine connects to the engine configured by the DOCKER_* environment.
// Build progress is rendered to buildOut.
func NewAPIEngine(buildOut io.Writer) (*APIEngine, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Docker client: %v", apperrors.ErrEngineUnavailable, err)
	}
	return &APIEngine{cli: cli, buildOut: buildOut}, nil
}

// Close releases the client's connections
func (e *APIEngine) Close() error {
	return e.cli.Close()
}

// Ping verifies the daemon answers
func (e *APIEngine) Ping(ctx context.Context) error {
	if _, err := e.cli.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrEngineUnavailable, err)
	}
	return nil
}

func (e *APIEngine) listNames(ctx context.Context, all bool, key, value string) ([]string, error) {
	containers, err := e.cli.ContainerList(ctx, types.ContainerListOptions{
		All:     all,
		Filters: filters.NewArgs(filters.Arg(key, value)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrProbeFailed, err)
	}

	var names []string
	for _, c := range containers {
		names = append(names, primaryName(c.Names))
	}
	return names, nil
}

// primaryName picks the container's own name from the API's slash-prefixed
// list, skipping link aliases like /other/alias.
func primaryName(names []string) string {
	for _, n := range names {
		n = strings.TrimPrefix(n, "/")
		if !strings.Contains(n, "/") {
			return n
		}
	}
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}

// FindContainerByName lists containers in any state matching the name filter
func (e *APIEngine) FindContainerByName(ctx context.Context, name string) ([]string, error) {
	return e.listNames(ctx, true, "name", name)
}

// FindRunningContainersByName lists running containers matching the name filter
func (e *APIEngine) FindRunningContainersByName(ctx context.Context, name string) ([]string, error) {
	return e.listNames(ctx, false, "name", name)
}

// FindContainersByImage lists containers in any state created from ref
func (e *APIEngine) FindContainersByImage(ctx context.Context, ref string) ([]string, error) {
	return e.listNames(ctx, true, "ancestor", ref)
}

// ImageExists reports whether a local image matches ref
func (e *APIEngine) ImageExists(ctx context.Context, ref string) (bool, error) {
	images, err := e.cli.ImageList(ctx, types.ImageListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", ref)),
	})
	if err != nil {
		return false, fmt.Errorf("%w: %w", apperrors.ErrProbeFailed, err)
	}
	return len(images) > 0, nil
}

// RemoveContainer force-removes a container
func (e *APIEngine) RemoveContainer(ctx context.Context, name string) error {
	if err := e.cli.ContainerRemove(ctx, name, types.ContainerRemoveOptions{Force: true}); err != nil {
		return &apperrors.ResourceError{Op: "remove container", Resource: name, Err: err}
	}
	return nil
}

// RemoveImage removes an image by reference
func (e *APIEngine) RemoveImage(ctx context.Context, ref string) error {
	if _, err := e.cli.ImageRemove(ctx, ref, types.ImageRemoveOptions{PruneChildren: true}); err != nil {
		return &apperrors.ResourceError{Op: "remove image", Resource: ref, Err: err}
	}
	return nil
}

// StartContainer starts an existing container
func (e *APIEngine) StartContainer(ctx context.Context, name string) error {
	if err := e.cli.ContainerStart(ctx, name, types.ContainerStartOptions{}); err != nil {
		return &apperrors.ResourceError{Op: "start container", Resource: name, Err: err}
	}
	return nil
}

// StopContainer stops a running container
func (e *APIEngine) StopContainer(ctx context.Context, name string) error {
	if err := e.cli.ContainerStop(ctx, name, container.StopOptions{}); err != nil {
		return &apperrors.ResourceError{Op: "stop container", Resource: name, Err: err}
	}
	return nil
}

// BuildImage tars the context directory and streams the build through the API
func (e *APIEngine) BuildImage(ctx context.Context, spec BuildSpec) error {
	dockerfile, err := contextRelative(spec.ContextDir, spec.Dockerfile)
	if err != nil {
		return &apperrors.ResourceError{Op: "build image", Resource: spec.Ref, Err: err}
	}

	buildCtx, err := archive.TarWithOptions(spec.ContextDir, &archive.TarOptions{})
	if err != nil {
		return &apperrors.ResourceError{Op: "build image", Resource: spec.Ref, Err: fmt.Errorf("failed to archive build context: %w", err)}
	}
	defer buildCtx.Close()

	resp, err := e.cli.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:       []string{spec.Ref},
		Dockerfile: dockerfile,
		BuildArgs:  buildArgPointers(spec.BuildArgs),
		Remove:     true,
	})
	if err != nil {
		return &apperrors.ResourceError{Op: "build image", Resource: spec.Ref, Err: err}
	}
	defer resp.Body.Close()

	out := e.buildOut
	if out == nil {
		out = io.Discard
	}
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, out, 0, false, nil); err != nil {
		return &apperrors.ResourceError{Op: "build image", Resource: spec.Ref, Err: err}
	}
	return nil
}

// contextRelative returns the Dockerfile path relative to the build context.
// The API only sees files inside the tarred context.
func contextRelative(contextDir, dockerfile string) (string, error) {
	if dockerfile == "" {
		return "Dockerfile", nil
	}
	if !filepath.IsAbs(dockerfile) {
		return filepath.ToSlash(dockerfile), nil
	}
	rel, err := filepath.Rel(contextDir, dockerfile)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("dockerfile %s is outside build context %s; use the cli engine driver", dockerfile, contextDir)
	}
	return filepath.ToSlash(rel), nil
}

func buildArgPointers(args map[string]string) map[string]*string {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]*string, len(args))
	for k, v := range args {
		v := v
		out[k] = &v
	}
	return out
}

// RunContainer creates and starts a detached, interactive container
func (e *APIEngine) RunContainer(ctx context.Context, spec RunSpec) error {
	exposed, bindings, err := portMaps(spec.Ports)
	if err != nil {
		return &apperrors.ResourceError{Op: "create container", Resource: spec.Name, Err: err}
	}

	hostname := spec.Hostname
	if hostname == "" {
		hostname = spec.Name
	}

	cfg := &container.Config{
		Hostname:     hostname,
		Image:        spec.Image,
		Env:          spec.Env,
		Cmd:          strslice.StrSlice(spec.Cmd),
		WorkingDir:   spec.WorkDir,
		ExposedPorts: exposed,
		Tty:          true,
		OpenStdin:    true,
	}

	// Binds rather than mount.Mount so missing host directories are created, as with -v.
	binds := make([]string, 0, len(spec.Mounts))
	for _, m := range spec.Mounts {
		binds = append(binds, m.String())
	}
	hostCfg := &container.HostConfig{
		Binds:        binds,
		PortBindings: bindings,
		AutoRemove:   spec.AutoRemove,
	}

	resp, err := e.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		return &apperrors.ResourceError{Op: "create container", Resource: spec.Name, Err: err}
	}
	if err := e.cli.ContainerStart(ctx, resp.ID, types.ContainerStartOptions{}); err != nil {
		return &apperrors.ResourceError{Op: "start container", Resource: spec.Name, Err: err}
	}
	return nil
}

func portMaps(ports []PortBinding) (nat.PortSet, nat.PortMap, error) {
	if len(ports) == 0 {
		return nil, nil, nil
	}
	exposed := nat.PortSet{}
	bindings := nat.PortMap{}
	for _, p := range ports {
		port, err := nat.NewPort("tcp", strconv.Itoa(p.ContainerPort))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid container port %d: %w", p.ContainerPort, err)
		}
		exposed[port] = struct{}{}
		bindings[port] = append(bindings[port], nat.PortBinding{HostPort: strconv.Itoa(p.HostPort)})
	}
	return exposed, bindings, nil
}

// Logs copies the container's logs to w, demultiplexing when it has no TTY
func (e *APIEngine) Logs(ctx context.Context, name string, w io.Writer) error {
	info, err := e.cli.ContainerInspect(ctx, name)
	if err != nil {
		return &apperrors.ResourceError{Op: "logs", Resource: name, Err: err}
	}

	rc, err := e.cli.ContainerLogs(ctx, name, types.ContainerLogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return &apperrors.ResourceError{Op: "logs", Resource: name, Err: err}
	}
	defer rc.Close()

	if info.Config != nil && info.Config.Tty {
		_, err = io.Copy(w, rc)
	} else {
		_, err = stdcopy.StdCopy(w, w, rc)
	}
	if err != nil {
		return &apperrors.ResourceError{Op: "logs", Resource: name, Err: err}
	}
	return nil
}

// ListContainers lists every container with its status and published ports
func (e *APIEngine) ListContainers(ctx context.Context) ([]ContainerStatus, error) {
	containers, err := e.cli.ContainerList(ctx, types.ContainerListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrProbeFailed, err)
	}

	list := make([]ContainerStatus, 0, len(containers))
	for _, c := range containers {
		var ports []string
		for _, p := range c.Ports {
			ports = append(ports, formatPort(p.IP, p.PublicPort, p.PrivatePort, p.Type))
		}
		list = append(list, ContainerStatus{
			Name:   primaryName(c.Names),
			Status: c.Status,
			Ports:  strings.Join(ports, ", "),
		})
	}
	return list, nil
}

// formatPort renders a port the way `docker ps` does
func formatPort(ip string, public, private uint16, proto string) string {
	if public == 0 {
		return fmt.Sprintf("%d/%s", private, proto)
	}
	return fmt.Sprintf("%s:%d->%d/%s", ip, public, private, proto)
}

// Verify APIEngine implements Engine interface
var _ Engine = (*APIEngine)(nil)
