package config

import (
	"fmt"
	"path/filepath"

	apperrors "github.com/computerscienceiscool/ghpages-local/internal/errors"
)

// Config holds the settings for one invocation. It is built once by the CLI
// layer and not modified afterwards.
type Config struct {
	RootDir  string       `yaml:"root_dir"`
	Engine   EngineConfig `yaml:"engine"`
	Git      GitConfig    `yaml:"git"`
	Journal  string       `yaml:"journal"`
	LogLevel string       `yaml:"log_level"`
	ExitZero bool         `yaml:"exit_zero"`
	Build    BuildConfig  `yaml:"build"`
	Serve    ServeConfig  `yaml:"serve"`
}

// EngineConfig selects how the container engine is driven
type EngineConfig struct {
	Driver string `yaml:"driver"`
	Binary string `yaml:"binary"`
}

// GitConfig selects how the dependency repository is cloned
type GitConfig struct {
	Driver   string `yaml:"driver"`
	Autocrlf string `yaml:"autocrlf"`
	Depth    int    `yaml:"depth"`
}

// BuildConfig configures the jekyll-build-pages pipeline
type BuildConfig struct {
	URL            string `yaml:"url"`
	Branch         string `yaml:"branch"`
	ImageName      string `yaml:"image_name"`
	ImageVersion   string `yaml:"image_version"`
	RubyVersion    string `yaml:"image_option_ruby_version"`
	ContainerName  string `yaml:"container_name"`
	DockerfileName string `yaml:"dockerfile_name"`
	GemfilePath    string `yaml:"gemfile_path"`
	Src            string `yaml:"src"`
	DownloadDir    string `yaml:"download_dir"`
	SiteDir        string `yaml:"volume_site"`
	CloneAgain     bool   `yaml:"clone_again"`
	RemakeImage    bool   `yaml:"remake_image"`
	WaitLogs       int    `yaml:"wait_logs"`
	ShowList       bool   `yaml:"show_list"`
}

// ServeConfig configures the Jekyll preview server pipeline
type ServeConfig struct {
	InputDir            string `yaml:"input_dir"`
	ImageName           string `yaml:"image_name"`
	ImageVersion        string `yaml:"image_version"`
	ContainerName       string `yaml:"container_name"`
	Port                int    `yaml:"port"`
	OutputDir           string `yaml:"output_dir"`
	DockerfilePath      string `yaml:"dockerfile_path"`
	NodeDir             string `yaml:"node_dir"`
	JekyllDir           string `yaml:"jekyll_dir"`
	Setup               bool   `yaml:"setup"`
	RemakeContainerOnly bool   `yaml:"remake_container_only"`
	WaitLogs            int    `yaml:"wait_logs"`
}

// Defaults returns the configuration used when nothing is overridden
func Defaults() *Config {
	return &Config{
		RootDir:  ".",
		Engine:   EngineConfig{Driver: EngineDriverCLI, Binary: "docker"},
		Git:      GitConfig{Driver: GitDriverCLI, Depth: DefaultGitDepth},
		LogLevel: DefaultLogLevel,
		Build: BuildConfig{
			URL:            DefaultBuildURL,
			Branch:         DefaultBuildBranch,
			ImageName:      DefaultBuildImageName,
			ImageVersion:   DefaultImageVersion,
			RubyVersion:    DefaultRubyVersion,
			ContainerName:  DefaultBuildContainer,
			DockerfileName: DefaultBuildDockerfile,
			GemfilePath:    DefaultBuildGemfilePath,
			Src:            DefaultBuildSrc,
			DownloadDir:    DefaultBuildDownloadDir,
			SiteDir:        DefaultBuildSiteDir,
		},
		Serve: ServeConfig{
			ImageName:      DefaultServeImageName,
			ImageVersion:   DefaultImageVersion,
			ContainerName:  DefaultServeContainer,
			Port:           DefaultServePort,
			OutputDir:      DefaultServeOutputDir,
			DockerfilePath: DefaultServeDockerfilePath,
			NodeDir:        DefaultServeNodeDir,
			JekyllDir:      DefaultServeJekyllDir,
			WaitLogs:       DefaultServeWaitLogs,
		},
	}
}

// ImageRef returns name:version for the build image
func (b BuildConfig) ImageRef() string {
	return imageRef(b.ImageName, b.ImageVersion)
}

// DockerfilePath is the Dockerfile inside the downloaded repository
func (b BuildConfig) DockerfilePath() string {
	return filepath.Join(b.DownloadDir, b.DockerfileName)
}

// ForceFetch reports whether the dependency must be downloaded again
func (b BuildConfig) ForceFetch() bool {
	return b.CloneAgain || b.RemakeImage
}

// ImageRef returns name:version for the server image
func (s ServeConfig) ImageRef() string {
	return imageRef(s.ImageName, s.ImageVersion)
}

func imageRef(name, version string) string {
	if version == "" {
		return name
	}
	return name + ":" + version
}

// Resolve returns a copy with every path made absolute against the root
// directory and the implied flags applied: clone_again implies remake_image,
// remake_container_only implies setup.
func (c *Config) Resolve() (*Config, error) {
	out := *c

	root, err := filepath.Abs(c.RootDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve root directory: %w", err)
	}
	out.RootDir = root

	if out.Journal != "" {
		out.Journal = resolvePath(root, out.Journal)
	}

	b := &out.Build
	b.DownloadDir = resolvePath(root, b.DownloadDir)
	b.Src = resolvePath(root, b.Src)
	b.SiteDir = resolvePath(root, b.SiteDir)
	b.GemfilePath = resolvePath(root, b.GemfilePath)
	if b.CloneAgain {
		b.RemakeImage = true
	}

	s := &out.Serve
	if s.InputDir != "" {
		s.InputDir = resolvePath(root, s.InputDir)
	}
	s.OutputDir = resolvePath(root, s.OutputDir)
	s.DockerfilePath = resolvePath(root, s.DockerfilePath)
	s.NodeDir = resolvePath(root, s.NodeDir)
	s.JekyllDir = resolvePath(root, s.JekyllDir)
	if s.RemakeContainerOnly {
		s.Setup = true
	}

	return &out, nil
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// Validate checks the settings shared by both pipelines
func (c *Config) Validate() error {
	switch c.Engine.Driver {
	case EngineDriverCLI, EngineDriverAPI:
	default:
		return invalid("engine.driver", c.Engine.Driver)
	}
	switch c.Git.Driver {
	case GitDriverCLI, GitDriverGoGit:
	default:
		return invalid("git.driver", c.Git.Driver)
	}
	if c.Git.Depth < 0 {
		return invalid("git.depth", c.Git.Depth)
	}
	return nil
}

// ValidateBuild checks the build pipeline settings
func (c *Config) ValidateBuild() error {
	if err := c.Validate(); err != nil {
		return err
	}
	b := c.Build
	required := []struct{ field, value string }{
		{"build.url", b.URL},
		{"build.image_name", b.ImageName},
		{"build.container_name", b.ContainerName},
		{"build.download_dir", b.DownloadDir},
	}
	for _, r := range required {
		if r.value == "" {
			return invalid(r.field, r.value)
		}
	}
	if b.WaitLogs < 0 {
		return invalid("build.wait_logs", b.WaitLogs)
	}
	return nil
}

// ValidateServe checks the serve pipeline settings
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	s := c.Serve
	if s.InputDir == "" {
		return invalid("serve.input_dir", s.InputDir)
	}
	if s.ImageName == "" {
		return invalid("serve.image_name", s.ImageName)
	}
	if s.ContainerName == "" {
		return invalid("serve.container_name", s.ContainerName)
	}
	if s.Port < 1 || s.Port > 65535 {
		return invalid("serve.port", s.Port)
	}
	if s.WaitLogs < 0 {
		return invalid("serve.wait_logs", s.WaitLogs)
	}
	return nil
}

func invalid(field string, value interface{}) error {
	return &apperrors.ValidationError{Field: field, Value: value, Err: apperrors.ErrInvalidConfig}
}
