package engine

import (
	"context"
	"fmt"
	"io"
)

// Mount binds a host path into a container
type Mount struct {
	Source string
	Target string
}

// String renders the mount in -v form
func (m Mount) String() string {
	return fmt.Sprintf("%s:%s", m.Source, m.Target)
}

// PortBinding publishes a container port on the host
type PortBinding struct {
	HostPort      int
	ContainerPort int
}

// String renders the binding in --publish form
func (p PortBinding) String() string {
	return fmt.Sprintf("%d:%d", p.HostPort, p.ContainerPort)
}

// BuildSpec describes an image build
type BuildSpec struct {
	Ref        string
	ContextDir string
	Dockerfile string
	BuildArgs  map[string]string
}

// RunSpec describes a detached, interactive container
type RunSpec struct {
	Name       string
	Hostname   string
	Image      string
	Mounts     []Mount
	Env        []string // KEY=VALUE, in order
	Ports      []PortBinding
	WorkDir    string
	Cmd        []string
	AutoRemove bool
}

// ContainerStatus is one row of the container list
type ContainerStatus struct {
	Name   string
	Status string
	Ports  string
}

// Engine is the container engine adapter used by the reconciler
type Engine interface {
	Ping(ctx context.Context) error

	FindContainerByName(ctx context.Context, name string) ([]string, error)
	FindRunningContainersByName(ctx context.Context, name string) ([]string, error)
	FindContainersByImage(ctx context.Context, ref string) ([]string, error)
	ImageExists(ctx context.Context, ref string) (bool, error)

	RemoveContainer(ctx context.Context, name string) error
	RemoveImage(ctx context.Context, ref string) error
	StartContainer(ctx context.Context, name string) error
	StopContainer(ctx context.Context, name string) error
	BuildImage(ctx context.Context, spec BuildSpec) error
	RunContainer(ctx context.Context, spec RunSpec) error

	Logs(ctx context.Context, name string, w io.Writer) error
	ListContainers(ctx context.Context) ([]ContainerStatus, error)
}

// ImageRef joins an image name and version into name:version
func ImageRef(name, version string) string {
	if version == "" {
		return name
	}
	return name + ":" + version
}

// ContainsName reports whether names holds an exact match for name
func ContainsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
