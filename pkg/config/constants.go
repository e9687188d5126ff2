package config

// Default values for the build and serve pipelines
const (
	// Build pipeline: actions/jekyll-build-pages pinned release
	DefaultBuildURL         = "https://github.com/actions/jekyll-build-pages.git"
	DefaultBuildBranch      = "v1.0.12"
	DefaultBuildImageName   = "github_pages_build_image"
	DefaultBuildContainer   = "build_jekyll"
	DefaultRubyVersion      = "2.7.4" // https://pages.github.com/versions/
	DefaultBuildDockerfile  = "Dockerfile"
	DefaultBuildGemfilePath = "test/.build/Gemfile"
	DefaultBuildSrc         = "docs"
	DefaultBuildDownloadDir = "test/.build"
	DefaultBuildSiteDir     = "_site"
	DefaultImageVersion     = "latest"

	// Serve pipeline
	DefaultServeImageName      = "github_pages_server_image"
	DefaultServeContainer      = "server_jekyll"
	DefaultServePort           = 8000
	DefaultServeOutputDir      = "_site"
	DefaultServeDockerfilePath = "data/Dockerfile"
	DefaultServeNodeDir        = "data/node"
	DefaultServeJekyllDir      = "data/jekyll"
	DefaultServeWaitLogs       = 6

	// Container side of the bind mounts
	ContainerWorkspace = "/root"
	ContainerSrc       = "/root/src"
	ContainerSite      = "/root/_site"
	ContainerGemfile   = "/root/src/Gemfile"
	ContainerNode      = "/root/node"
	ContainerShell     = "/bin/bash"
	ServerPort         = 8000

	// Engine and Git drivers
	EngineDriverCLI = "cli"
	EngineDriverAPI = "api"
	GitDriverCLI    = "cli"
	GitDriverGoGit  = "go-git"
	DefaultGitDepth = 1

	DefaultLogLevel     = "warn"
	DefaultHistoryLimit = 20
	ConfigFileName      = "ghpages-local.config"
	EnvPrefix           = "GHPAGES"
)
