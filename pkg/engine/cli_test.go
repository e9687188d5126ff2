package engine

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/computerscienceiscool/ghpages-local/internal/errors"
	"github.com/computerscienceiscool/ghpages-local/pkg/runner"
)

func TestCLIEngine_DefaultBinary(t *testing.T) {
	e := NewCLIEngine("", newFakeRunner())
	assert.Equal(t, "docker", e.binary)
}

func TestCLIEngine_FindContainerByName(t *testing.T) {
	r := newFakeRunner()
	r.on(runner.Result{Output: "build_jekyll\n\nbuild_jekyll_old"},
		"docker", "ps", "-a", "--format", `"{{.Names}}"`, "--filter", "name=build_jekyll")
	e := NewCLIEngine("docker", r)

	names, err := e.FindContainerByName(context.Background(), "build_jekyll")
	require.NoError(t, err)
	assert.Equal(t, []string{"build_jekyll", "build_jekyll_old"}, names)
	assert.True(t, ContainsName(names, "build_jekyll"))
}

func TestCLIEngine_FindRunningContainersByName(t *testing.T) {
	r := newFakeRunner()
	r.on(runner.Result{Output: "server_jekyll"},
		"podman", "ps", "--format", `"{{.Names}}"`, "--filter", "name=server_jekyll")
	e := NewCLIEngine("podman", r)

	names, err := e.FindRunningContainersByName(context.Background(), "server_jekyll")
	require.NoError(t, err)
	assert.Equal(t, []string{"server_jekyll"}, names)
}

func TestCLIEngine_FindContainersByImage(t *testing.T) {
	r := newFakeRunner()
	r.on(runner.Result{Output: "a\nb\n"},
		"docker", "ps", "-a", "--format", `"{{.Names}}"`, "--filter", "ancestor=img:latest")
	e := NewCLIEngine("docker", r)

	names, err := e.FindContainersByImage(context.Background(), "img:latest")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestCLIEngine_ProbeFailure(t *testing.T) {
	r := newFakeRunner()
	r.on(runner.Result{ExitCode: 1, Output: "Cannot connect to the Docker daemon"},
		"docker", "ps", "-a", "--format", `"{{.Names}}"`, "--filter", "ancestor=img:latest")
	e := NewCLIEngine("docker", r)

	_, err := e.FindContainersByImage(context.Background(), "img:latest")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrProbeFailed))
	assert.Contains(t, err.Error(), "Cannot connect")
}

func TestCLIEngine_ImageExists(t *testing.T) {
	r := newFakeRunner()
	r.on(runner.Result{Output: "sha256abc"}, "docker", "images", "-q", "present:latest")
	r.on(runner.Result{Output: ""}, "docker", "images", "-q", "absent:latest")
	e := NewCLIEngine("docker", r)

	ok, err := e.ImageExists(context.Background(), "present:latest")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.ImageExists(context.Background(), "absent:latest")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCLIEngine_Actions(t *testing.T) {
	ctx := context.Background()
	r := newFakeRunner()
	e := NewCLIEngine("docker", r)

	require.NoError(t, e.RemoveContainer(ctx, "c1"))
	require.NoError(t, e.RemoveImage(ctx, "img:1"))
	require.NoError(t, e.StartContainer(ctx, "c1"))
	require.NoError(t, e.StopContainer(ctx, "c1"))

	assert.Equal(t, [][]string{
		{"docker", "rm", "-f", "c1"},
		{"docker", "rmi", "img:1"},
		{"docker", "start", "c1"},
		{"docker", "stop", "c1"},
	}, r.calls)
}

func TestCLIEngine_ActionFailureIsResourceError(t *testing.T) {
	r := newFakeRunner()
	r.on(runner.Result{ExitCode: 1, Output: "image is being used"}, "docker", "rmi", "img:1")
	e := NewCLIEngine("docker", r)

	err := e.RemoveImage(context.Background(), "img:1")
	require.Error(t, err)

	var resErr *apperrors.ResourceError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "img:1", resErr.Resource)
	assert.True(t, errors.Is(err, apperrors.ErrCommandFailed))
}

func TestBuildArgs(t *testing.T) {
	args := BuildArgs(BuildSpec{
		Ref:        "github_pages_build_image:latest",
		ContextDir: "/work/test/.build",
		Dockerfile: "/work/test/.build/Dockerfile",
		BuildArgs:  map[string]string{"RUBY_VERSION": "2.7.4", "A": "1"},
	})

	assert.Equal(t, []string{
		"build",
		"--build-arg", "A=1",
		"--build-arg", "RUBY_VERSION=2.7.4",
		"-t", "github_pages_build_image:latest",
		"-f", "/work/test/.build/Dockerfile",
		"/work/test/.build",
	}, args)
}

func TestCLIEngine_BuildImageRunsInContextDir(t *testing.T) {
	r := newFakeRunner()
	e := NewCLIEngine("docker", r)

	err := e.BuildImage(context.Background(), BuildSpec{Ref: "img:1", ContextDir: "/ctx"})
	require.NoError(t, err)
	require.Len(t, r.calls, 1)
	assert.Equal(t, "/ctx", r.dirs[0])
	assert.Equal(t, []string{"docker", "build", "-t", "img:1", "/ctx"}, r.calls[0])
}

func TestCLIEngine_BuildImageFailure(t *testing.T) {
	r := newFakeRunner()
	r.on(runner.Result{ExitCode: 1}, "docker", "build", "-t", "img:1", "/ctx")
	e := NewCLIEngine("docker", r)

	err := e.BuildImage(context.Background(), BuildSpec{Ref: "img:1", ContextDir: "/ctx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build image img:1")
}

func TestRunArgs(t *testing.T) {
	spec := RunSpec{
		Name:       "build_jekyll",
		Image:      "github_pages_build_image:latest",
		AutoRemove: true,
		Mounts: []Mount{
			{Source: "/w/test/.build/Gemfile", Target: "/root/src/Gemfile"},
			{Source: "/w/docs", Target: "/root/src"},
		},
		Env:     []string{"GITHUB_WORKSPACE=/root", "INPUT_TOKEN="},
		WorkDir: "/",
		Cmd:     []string{"/bin/bash"},
	}

	assert.Equal(t, []string{
		"run", "-dit",
		"--name", "build_jekyll",
		"--hostname", "build_jekyll",
		"--rm",
		"-v", "/w/test/.build/Gemfile:/root/src/Gemfile",
		"-v", "/w/docs:/root/src",
		"-e", "GITHUB_WORKSPACE=/root",
		"-e", "INPUT_TOKEN=",
		"--workdir", "/",
		"github_pages_build_image:latest",
		"/bin/bash",
	}, RunArgs(spec))
}

func TestRunArgs_WithPorts(t *testing.T) {
	args := RunArgs(RunSpec{
		Name:     "server_jekyll",
		Hostname: "preview",
		Image:    "img",
		Ports:    []PortBinding{{HostPort: 4000, ContainerPort: 8000}},
	})

	assert.Equal(t, []string{
		"run", "-dit",
		"--name", "server_jekyll",
		"--hostname", "preview",
		"--publish", "4000:8000",
		"img",
	}, args)
}

func TestCLIEngine_Logs(t *testing.T) {
	r := newFakeRunner()
	r.streamOut = "Server running...\n"
	e := NewCLIEngine("docker", r)

	var buf bytes.Buffer
	require.NoError(t, e.Logs(context.Background(), "server_jekyll", &buf))
	assert.Equal(t, "Server running...\n", buf.String())
	assert.Equal(t, []string{"docker", "logs", "server_jekyll"}, r.calls[0])
}

func TestCLIEngine_ListContainers(t *testing.T) {
	r := newFakeRunner()
	r.on(runner.Result{Output: "server_jekyll\tUp 2 minutes\t0.0.0.0:8000->8000/tcp\nbuild_jekyll\tExited (0) 1 hour ago\t"},
		"docker", "ps", "-a", "--format", `"{{.Names}}\t{{.Status}}\t{{.Ports}}"`)
	e := NewCLIEngine("docker", r)

	list, err := e.ListContainers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ContainerStatus{Name: "server_jekyll", Status: "Up 2 minutes", Ports: "0.0.0.0:8000->8000/tcp"}, list[0])
	assert.Equal(t, "build_jekyll", list[1].Name)
	assert.Equal(t, "Exited (0) 1 hour ago", list[1].Status)
}

func TestCLIEngine_Ping(t *testing.T) {
	r := newFakeRunner()
	r.on(runner.Result{ExitCode: 127, Output: "not found"}, "docker", "version")
	e := NewCLIEngine("docker", r)

	err := e.Ping(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrEngineUnavailable))
}

func TestImageRef(t *testing.T) {
	assert.Equal(t, "img:latest", ImageRef("img", "latest"))
	assert.Equal(t, "img", ImageRef("img", ""))
}

func TestContainsName(t *testing.T) {
	assert.False(t, ContainsName([]string{"build_jekyll_old"}, "build_jekyll"))
	assert.True(t, ContainsName([]string{"x", "build_jekyll"}, "build_jekyll"))
	assert.False(t, ContainsName(nil, "x"))
}
