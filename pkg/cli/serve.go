package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/computerscienceiscool/ghpages-local/pkg/config"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve INPUT_DIR",
		Short: "Serve INPUT_DIR with a Jekyll preview server",
		Long: `Stop any running preview container, make sure the server image and
container exist, then start serving INPUT_DIR on the published port.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.Set("serve.input_dir", args[0])
			return runServe(cmd.Context(), config.FromViper(), streams(cmd))
		},
	}

	f := cmd.Flags()
	f.String("image_name", config.DefaultServeImageName, "Docker image name")
	f.String("image_version", config.DefaultImageVersion, "Docker image version")
	f.String("container_name", config.DefaultServeContainer, "Docker container name")
	f.Int("port", config.DefaultServePort, "Publish port")
	f.String("output_dir", config.DefaultServeOutputDir, "Output directory of the generated site")
	f.String("dockerfile_path", config.DefaultServeDockerfilePath, "Dockerfile of the server image")
	f.String("node_dir", config.DefaultServeNodeDir, "Directory mounted at /root/node")
	f.String("jekyll_dir", config.DefaultServeJekyllDir, "Build context of the server image")
	f.Bool("setup", false, "Remove the containers and image first")
	f.Bool("remake_container_only", false, "Remove the containers but keep the image")
	f.Int("wait_logs", config.DefaultServeWaitLogs, "Seconds to wait before printing the container logs")

	bindFlags(f, map[string]string{
		"image_name":            "serve.image_name",
		"image_version":         "serve.image_version",
		"container_name":        "serve.container_name",
		"port":                  "serve.port",
		"output_dir":            "serve.output_dir",
		"dockerfile_path":       "serve.dockerfile_path",
		"node_dir":              "serve.node_dir",
		"jekyll_dir":            "serve.jekyll_dir",
		"setup":                 "serve.setup",
		"remake_container_only": "serve.remake_container_only",
		"wait_logs":             "serve.wait_logs",
	})
	return cmd
}
