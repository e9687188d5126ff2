package pipeline

import (
	"context"
	"path/filepath"

	"github.com/computerscienceiscool/ghpages-local/pkg/config"
	"github.com/computerscienceiscool/ghpages-local/pkg/engine"
	"github.com/computerscienceiscool/ghpages-local/pkg/fetch"
)

// BuildRunSpec is the container that runs jekyll-build-pages over src,
// writing the site to the site directory
func BuildRunSpec(cfg config.BuildConfig) engine.RunSpec {
	return engine.RunSpec{
		Name:     cfg.ContainerName,
		Hostname: cfg.ContainerName,
		Image:    cfg.ImageRef(),
		Mounts: []engine.Mount{
			{Source: cfg.GemfilePath, Target: config.ContainerGemfile},
			{Source: cfg.Src, Target: config.ContainerSrc},
			{Source: cfg.SiteDir, Target: config.ContainerSite},
		},
		Env: []string{
			"GITHUB_WORKSPACE=" + config.ContainerWorkspace,
			"INPUT_SOURCE=" + filepath.Base(config.ContainerSrc),
			"INPUT_DESTINATION=" + filepath.Base(config.ContainerSite),
			"INPUT_FUTURE=true",
			"INPUT_VERBOSE=true",
			"INPUT_TOKEN=",
			"INPUT_BUILD_REVISION=",
		},
		WorkDir:    "/",
		Cmd:        []string{config.ContainerShell},
		AutoRemove: true,
	}
}

// BuildImageSpec builds the jekyll-build-pages image from the downloaded
// repository
func BuildImageSpec(cfg config.BuildConfig) engine.BuildSpec {
	return engine.BuildSpec{
		Ref:        cfg.ImageRef(),
		ContextDir: cfg.DownloadDir,
		Dockerfile: cfg.DockerfilePath(),
		BuildArgs:  map[string]string{"RUBY_VERSION": cfg.RubyVersion},
	}
}

// Build runs the build pipeline. cfg must already be resolved.
//
//  1. remove containers created from the image
//  2. remove the image when remake_image is set
//  3. download jekyll-build-pages
//  4. build the image if absent
//  5. start or create the container
//  6. optionally wait and print logs and the container list
func (d *Driver) Build(ctx context.Context, cfg config.BuildConfig) *Result {
	res := &Result{Pipeline: NameBuild, Started: d.now()}
	ref := cfg.ImageRef()
	d.logger.Info("build pipeline starting", "image", ref, "container", cfg.ContainerName)

	d.run(res, StepRemoveContainer, "Remove a container", func() (string, error) {
		removed, err := d.reconciler.RemoveContainersByImage(ctx, ref)
		return joinNames(removed), err
	})

	if cfg.RemakeImage {
		d.run(res, StepRemoveImage, "Remove a docker image", func() (string, error) {
			action, err := d.reconciler.RemoveImage(ctx, ref)
			return string(action), err
		})
	}

	d.run(res, StepFetch, "Download jekyll-build-pages", func() (string, error) {
		src := fetch.Source{URL: cfg.URL, Ref: cfg.Branch, Dir: cfg.DownloadDir}
		outcome, err := d.fetcher.Fetch(ctx, src, cfg.ForceFetch())
		return string(outcome), err
	})

	d.run(res, StepBuildImage, "Create a Docker image", func() (string, error) {
		action, err := d.reconciler.EnsureImage(ctx, BuildImageSpec(cfg))
		return string(action), err
	})

	d.run(res, StepCreateContainer, "Create Docker Container", func() (string, error) {
		action, err := d.reconciler.EnsureContainer(ctx, BuildRunSpec(cfg))
		return string(action), err
	})

	if res.Err == nil && cfg.WaitLogs > 0 {
		if d.waitStep(ctx, res, cfg.WaitLogs) {
			d.logsStep(ctx, res, cfg.ContainerName)
		}
	}
	if cfg.ShowList {
		d.listStep(ctx, res)
	}

	d.logger.Info("build pipeline finished", "failed", res.Failed())
	return res
}
