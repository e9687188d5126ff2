package config

import (
	"github.com/spf13/viper"
)

// SetViperDefaults sets all default configuration values in Viper. Keys
// mirror the yaml tags of Config so a config file and flags share one namespace.
func SetViperDefaults() {
	d := Defaults()

	viper.SetDefault("root_dir", d.RootDir)
	viper.SetDefault("journal", d.Journal)
	viper.SetDefault("log_level", d.LogLevel)
	viper.SetDefault("exit_zero", d.ExitZero)

	// Engine defaults
	viper.SetDefault("engine.driver", d.Engine.Driver)
	viper.SetDefault("engine.binary", d.Engine.Binary)

	// Git defaults
	viper.SetDefault("git.driver", d.Git.Driver)
	viper.SetDefault("git.autocrlf", d.Git.Autocrlf)
	viper.SetDefault("git.depth", d.Git.Depth)

	// Build defaults
	viper.SetDefault("build.url", d.Build.URL)
	viper.SetDefault("build.branch", d.Build.Branch)
	viper.SetDefault("build.image_name", d.Build.ImageName)
	viper.SetDefault("build.image_version", d.Build.ImageVersion)
	viper.SetDefault("build.image_option_ruby_version", d.Build.RubyVersion)
	viper.SetDefault("build.container_name", d.Build.ContainerName)
	viper.SetDefault("build.dockerfile_name", d.Build.DockerfileName)
	viper.SetDefault("build.gemfile_path", d.Build.GemfilePath)
	viper.SetDefault("build.src", d.Build.Src)
	viper.SetDefault("build.download_dir", d.Build.DownloadDir)
	viper.SetDefault("build.volume_site", d.Build.SiteDir)
	viper.SetDefault("build.clone_again", d.Build.CloneAgain)
	viper.SetDefault("build.remake_image", d.Build.RemakeImage)
	viper.SetDefault("build.wait_logs", d.Build.WaitLogs)
	viper.SetDefault("build.show_list", d.Build.ShowList)

	// Serve defaults
	viper.SetDefault("serve.input_dir", d.Serve.InputDir)
	viper.SetDefault("serve.image_name", d.Serve.ImageName)
	viper.SetDefault("serve.image_version", d.Serve.ImageVersion)
	viper.SetDefault("serve.container_name", d.Serve.ContainerName)
	viper.SetDefault("serve.port", d.Serve.Port)
	viper.SetDefault("serve.output_dir", d.Serve.OutputDir)
	viper.SetDefault("serve.dockerfile_path", d.Serve.DockerfilePath)
	viper.SetDefault("serve.node_dir", d.Serve.NodeDir)
	viper.SetDefault("serve.jekyll_dir", d.Serve.JekyllDir)
	viper.SetDefault("serve.setup", d.Serve.Setup)
	viper.SetDefault("serve.remake_container_only", d.Serve.RemakeContainerOnly)
	viper.SetDefault("serve.wait_logs", d.Serve.WaitLogs)
}

// FromViper builds a Config from the current Viper values
func FromViper() *Config {
	return &Config{
		RootDir:  viper.GetString("root_dir"),
		Journal:  viper.GetString("journal"),
		LogLevel: viper.GetString("log_level"),
		ExitZero: viper.GetBool("exit_zero"),
		Engine: EngineConfig{
			Driver: viper.GetString("engine.driver"),
			Binary: viper.GetString("engine.binary"),
		},
		Git: GitConfig{
			Driver:   viper.GetString("git.driver"),
			Autocrlf: viper.GetString("git.autocrlf"),
			Depth:    viper.GetInt("git.depth"),
		},
		Build: BuildConfig{
			URL:            viper.GetString("build.url"),
			Branch:         viper.GetString("build.branch"),
			ImageName:      viper.GetString("build.image_name"),
			ImageVersion:   viper.GetString("build.image_version"),
			RubyVersion:    viper.GetString("build.image_option_ruby_version"),
			ContainerName:  viper.GetString("build.container_name"),
			DockerfileName: viper.GetString("build.dockerfile_name"),
			GemfilePath:    viper.GetString("build.gemfile_path"),
			Src:            viper.GetString("build.src"),
			DownloadDir:    viper.GetString("build.download_dir"),
			SiteDir:        viper.GetString("build.volume_site"),
			CloneAgain:     viper.GetBool("build.clone_again"),
			RemakeImage:    viper.GetBool("build.remake_image"),
			WaitLogs:       viper.GetInt("build.wait_logs"),
			ShowList:       viper.GetBool("build.show_list"),
		},
		Serve: ServeConfig{
			InputDir:            viper.GetString("serve.input_dir"),
			ImageName:           viper.GetString("serve.image_name"),
			ImageVersion:        viper.GetString("serve.image_version"),
			ContainerName:       viper.GetString("serve.container_name"),
			Port:                viper.GetInt("serve.port"),
			OutputDir:           viper.GetString("serve.output_dir"),
			DockerfilePath:      viper.GetString("serve.dockerfile_path"),
			NodeDir:             viper.GetString("serve.node_dir"),
			JekyllDir:           viper.GetString("serve.jekyll_dir"),
			Setup:               viper.GetBool("serve.setup"),
			RemakeContainerOnly: viper.GetBool("serve.remake_container_only"),
			WaitLogs:            viper.GetInt("serve.wait_logs"),
		},
	}
}
