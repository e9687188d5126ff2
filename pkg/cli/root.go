package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/computerscienceiscool/ghpages-local/pkg/app"
	"github.com/computerscienceiscool/ghpages-local/pkg/config"
)

// Version is set at build time
var Version = "0.1.0"

var cfgFile string

// runBuild and runServe are replaced in tests
var (
	runBuild = func(ctx context.Context, cfg *config.Config, s app.Streams) error {
		a, err := app.Bootstrap(cfg, s)
		if err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
		defer a.Close()
		return a.RunBuild(ctx)
	}
	runServe = func(ctx context.Context, cfg *config.Config, s app.Streams) error {
		a, err := app.Bootstrap(cfg, s)
		if err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
		defer a.Close()
		return a.RunServe(ctx)
	}
)

// NewRootCmd builds the command tree and binds its flags to Viper
func NewRootCmd() *cobra.Command {
	setupViper()

	rootCmd := &cobra.Command{
		Use:   "ghpages-local",
		Short: "Build and preview a GitHub Pages site locally in Docker",
		Long: `ghpages-local reproduces the GitHub Pages Jekyll build on a workstation.
"build" runs actions/jekyll-build-pages in a container; "serve" starts a
Jekyll preview server on a host port. Each run converges the Docker images and
containers it needs, reusing what already exists.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} ver.{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ./"+config.ConfigFileName+".yaml or $HOME/"+config.ConfigFileName+".yaml)")
	pf.String("root_dir", ".", "Root directory that relative paths are resolved against")
	pf.String("log-level", config.DefaultLogLevel, "Diagnostic log level: debug, info, warn, error")
	pf.String("journal", "", "SQLite file to record runs in (disabled when empty)")
	pf.String("engine", config.EngineDriverCLI, "Container engine driver: cli or api")
	pf.String("engine-binary", "docker", "Engine executable used by the cli driver")
	pf.String("git-driver", config.GitDriverCLI, "Git driver: cli or go-git")
	pf.String("git-autocrlf", "", "core.autocrlf value applied while cloning with the cli driver")
	pf.Int("git-depth", config.DefaultGitDepth, "Clone depth for the go-git driver (0 for full history)")
	pf.Bool("exit-zero", false, "Exit 0 even when a pipeline fails")

	bindFlags(pf, map[string]string{
		"root_dir":      "root_dir",
		"log-level":     "log_level",
		"journal":       "journal",
		"engine":        "engine.driver",
		"engine-binary": "engine.binary",
		"git-driver":    "git.driver",
		"git-autocrlf":  "git.autocrlf",
		"git-depth":     "git.depth",
		"exit-zero":     "exit_zero",
	})

	rootCmd.AddCommand(newBuildCmd(), newServeCmd(), newHistoryCmd(), newConfigCmd())
	return rootCmd
}

func setupViper() {
	// Set all default values in Viper
	config.SetViperDefaults()

	// Set default config file name
	viper.SetConfigName(config.ConfigFileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")

	// Enable environment variables with GHPAGES prefix, e.g. GHPAGES_SERVE_PORT
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// bindFlags binds each flag to its Viper key
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		viper.BindPFlag(key, fs.Lookup(flag))
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
		// Config file not found; using defaults and flags
	}
}

func streams(cmd *cobra.Command) app.Streams {
	return app.Streams{Out: cmd.OutOrStdout(), ErrOut: cmd.ErrOrStderr()}
}

// Execute runs the root command. An interrupt cancels the running pipeline.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
