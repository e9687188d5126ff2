package runner

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"quoted names", "\"build_jekyll\"\n\"other\"\n", "build_jekyll\nother"},
		{"empty", "", ""},
		{"whitespace only", "  \n\t\n", ""},
		{"no quotes", "abc123\n", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two names", "build_jekyll\nserver_jekyll", []string{"build_jekyll", "server_jekyll"}},
		{"blank lines dropped", "\nbuild_jekyll\n\n\nserver_jekyll\n", []string{"build_jekyll", "server_jekyll"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitNames(tt.input))
		})
	}
}

func TestCommandLine(t *testing.T) {
	assert.Equal(t, "docker", CommandLine("docker"))
	assert.Equal(t, "docker rm -f x", CommandLine("docker", "rm", "-f", "x"))
}

func TestResultOK(t *testing.T) {
	assert.True(t, Result{}.OK())
	assert.False(t, Result{ExitCode: 2}.OK())
}

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_Run(t *testing.T) {
	requireSh(t)
	r := NewExecRunner(t.TempDir())

	res := r.Run(context.Background(), "", "sh", "-c", `echo '"quoted"'`)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "quoted", res.Output)
}

func TestExecRunner_RunUsesWorkingDirectory(t *testing.T) {
	requireSh(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0644))
	r := NewExecRunner("/")

	res := r.Run(context.Background(), dir, "sh", "-c", "ls")
	require.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "marker", res.Output)
}

func TestExecRunner_RunDefaultDirectory(t *testing.T) {
	requireSh(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default"), []byte("x"), 0644))
	r := NewExecRunner(dir)

	res := r.Run(context.Background(), "", "sh", "-c", "ls")
	assert.Equal(t, "default", res.Output)
}

func TestExecRunner_RunNonZeroExit(t *testing.T) {
	requireSh(t)
	r := NewExecRunner(t.TempDir())

	res := r.Run(context.Background(), "", "sh", "-c", "echo boom >&2; exit 3")
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "boom", res.Output)
}

func TestExecRunner_RunMissingBinary(t *testing.T) {
	r := NewExecRunner(t.TempDir())

	res := r.Run(context.Background(), "", "definitely-not-a-real-binary-xyz")
	assert.NotEqual(t, 0, res.ExitCode)
	assert.NotEmpty(t, res.Output)
}

func TestExecRunner_Stream(t *testing.T) {
	requireSh(t)
	var out, errOut bytes.Buffer
	r := NewExecRunner(t.TempDir()).WithOutput(&out, &errOut)

	res := r.Stream(context.Background(), nil, "", "sh", "-c", "echo hello; echo oops >&2")
	assert.True(t, res.OK())
	assert.Equal(t, "hello\n", out.String())
	assert.Equal(t, "oops\n", errOut.String())
}

func TestExecRunner_StreamFailure(t *testing.T) {
	requireSh(t)
	r := NewExecRunner(t.TempDir()).WithOutput(&bytes.Buffer{}, &bytes.Buffer{})

	res := r.Stream(context.Background(), nil, "", "sh", "-c", "exit 7")
	assert.Equal(t, 7, res.ExitCode)
}

func TestExecRunner_StreamToWriter(t *testing.T) {
	requireSh(t)
	var own, w bytes.Buffer
	r := NewExecRunner(t.TempDir()).WithOutput(&own, &own)

	res := r.Stream(context.Background(), &w, "", "sh", "-c", "echo to-writer")
	assert.True(t, res.OK())
	assert.Equal(t, "to-writer\n", w.String())
	assert.Empty(t, own.String())
}
