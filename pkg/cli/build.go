package cli

import (
	"github.com/spf13/cobra"

	"github.com/computerscienceiscool/ghpages-local/pkg/config"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the site with actions/jekyll-build-pages",
		Long: `Download actions/jekyll-build-pages, build its image and run it over the
source directory. The generated site is written to the volume_site directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), config.FromViper(), streams(cmd))
		},
	}

	f := cmd.Flags()
	f.String("url", config.DefaultBuildURL, "Repository URL of jekyll-build-pages")
	f.String("branch", config.DefaultBuildBranch, "Branch or tag to check out")
	f.String("image_name", config.DefaultBuildImageName, "Docker image name")
	f.String("image_version", config.DefaultImageVersion, "Docker image version")
	f.String("image_option_ruby_version", config.DefaultRubyVersion, "Ruby version")
	f.String("container_name", config.DefaultBuildContainer, "Docker container name")
	f.String("dockerfile_name", config.DefaultBuildDockerfile, "Dockerfile name inside download_dir")
	f.String("gemfile_path", config.DefaultBuildGemfilePath, "Gemfile mounted into the container")
	f.String("src", config.DefaultBuildSrc, "Build directory")
	f.String("download_dir", config.DefaultBuildDownloadDir, "Directory jekyll-build-pages is cloned into")
	f.String("volume_site", config.DefaultBuildSiteDir, "Output directory of the generated site")
	f.Bool("clone_again", false, "Clone again, then rebuild the image")
	f.Bool("remake_image", false, "Remove and rebuild the image")
	f.Int("wait_logs", 0, "Seconds to wait before printing the container logs (0 skips)")
	f.Bool("show_list", false, "Print the container list at the end")

	bindFlags(f, map[string]string{
		"url":                       "build.url",
		"branch":                    "build.branch",
		"image_name":                "build.image_name",
		"image_version":             "build.image_version",
		"image_option_ruby_version": "build.image_option_ruby_version",
		"container_name":            "build.container_name",
		"dockerfile_name":           "build.dockerfile_name",
		"gemfile_path":              "build.gemfile_path",
		"src":                       "build.src",
		"download_dir":              "build.download_dir",
		"volume_site":               "build.volume_site",
		"clone_again":               "build.clone_again",
		"remake_image":              "build.remake_image",
		"wait_logs":                 "build.wait_logs",
		"show_list":                 "build.show_list",
	})
	return cmd
}
