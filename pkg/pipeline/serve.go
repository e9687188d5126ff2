package pipeline

import (
	"context"

	"github.com/computerscienceiscool/ghpages-local/pkg/config"
	"github.com/computerscienceiscool/ghpages-local/pkg/engine"
)

// ServeRunSpec is the container that serves the site from the input
// directory on the configured host port
func ServeRunSpec(cfg config.ServeConfig) engine.RunSpec {
	return engine.RunSpec{
		Name:     cfg.ContainerName,
		Hostname: cfg.ContainerName,
		Image:    cfg.ImageRef(),
		Ports:    []engine.PortBinding{{HostPort: cfg.Port, ContainerPort: config.ServerPort}},
		Mounts: []engine.Mount{
			{Source: cfg.NodeDir, Target: config.ContainerNode},
			{Source: cfg.InputDir, Target: config.ContainerSrc},
			{Source: cfg.OutputDir, Target: config.ContainerSite},
		},
		WorkDir: config.ContainerWorkspace,
		Cmd:     []string{config.ContainerShell},
	}
}

// ServeImageSpec builds the server image from the jekyll directory
func ServeImageSpec(cfg config.ServeConfig) engine.BuildSpec {
	return engine.BuildSpec{
		Ref:        cfg.ImageRef(),
		ContextDir: cfg.JekyllDir,
		Dockerfile: cfg.DockerfilePath,
	}
}

// Serve runs the preview server pipeline. cfg must already be resolved.
//
//  1. stop running containers matching the container name
//  2. with setup, remove containers of the image and, unless only the
//     container is remade, the image itself
//  3. build the image if absent
//  4. start or create the container
//  5. wait, then print the container logs
//  6. print the container list, whatever happened before
func (d *Driver) Serve(ctx context.Context, cfg config.ServeConfig) *Result {
	res := &Result{Pipeline: NameServe, Started: d.now()}
	ref := cfg.ImageRef()
	d.logger.Info("serve pipeline starting", "image", ref, "container", cfg.ContainerName, "port", cfg.Port)

	d.run(res, StepStopContainer, "Stop a container", func() (string, error) {
		stopped, err := d.reconciler.StopContainers(ctx, cfg.ContainerName)
		return joinNames(stopped), err
	})

	if cfg.Setup {
		d.run(res, StepRemoveContainer, "Remove a container", func() (string, error) {
			removed, err := d.reconciler.RemoveContainersByImage(ctx, ref)
			return joinNames(removed), err
		})
		if !cfg.RemakeContainerOnly {
			d.run(res, StepRemoveImage, "Remove a docker image", func() (string, error) {
				action, err := d.reconciler.RemoveImage(ctx, ref)
				return string(action), err
			})
		}
	}

	d.run(res, StepBuildImage, "Create a Docker image", func() (string, error) {
		action, err := d.reconciler.EnsureImage(ctx, ServeImageSpec(cfg))
		return string(action), err
	})

	d.run(res, StepCreateContainer, "Create Docker Container", func() (string, error) {
		action, err := d.reconciler.EnsureContainer(ctx, ServeRunSpec(cfg))
		return string(action), err
	})

	if res.Err == nil {
		if d.waitStep(ctx, res, cfg.WaitLogs) {
			d.logsStep(ctx, res, cfg.ContainerName)
		}
	}
	d.listStep(ctx, res)

	d.logger.Info("serve pipeline finished", "failed", res.Failed())
	return res
}
