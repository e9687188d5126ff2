// Package enginetest provides a testify mock of engine.Engine.
package enginetest

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/computerscienceiscool/ghpages-local/pkg/engine"
)

// MockEngine for testing
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEngine) FindContainerByName(ctx context.Context, name string) ([]string, error) {
	args := m.Called(ctx, name)
	return names(args.Get(0)), args.Error(1)
}

func (m *MockEngine) FindRunningContainersByName(ctx context.Context, name string) ([]string, error) {
	args := m.Called(ctx, name)
	return names(args.Get(0)), args.Error(1)
}

func (m *MockEngine) FindContainersByImage(ctx context.Context, ref string) ([]string, error) {
	args := m.Called(ctx, ref)
	return names(args.Get(0)), args.Error(1)
}

func (m *MockEngine) ImageExists(ctx context.Context, ref string) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngine) RemoveContainer(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockEngine) RemoveImage(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

func (m *MockEngine) StartContainer(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockEngine) StopContainer(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockEngine) BuildImage(ctx context.Context, spec engine.BuildSpec) error {
	return m.Called(ctx, spec).Error(0)
}

func (m *MockEngine) RunContainer(ctx context.Context, spec engine.RunSpec) error {
	return m.Called(ctx, spec).Error(0)
}

func (m *MockEngine) Logs(ctx context.Context, name string, w io.Writer) error {
	return m.Called(ctx, name, w).Error(0)
}

func (m *MockEngine) ListContainers(ctx context.Context) ([]engine.ContainerStatus, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]engine.ContainerStatus)
	return list, args.Error(1)
}

func names(v interface{}) []string {
	s, _ := v.([]string)
	return s
}

var _ engine.Engine = (*MockEngine)(nil)
