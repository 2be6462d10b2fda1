package runtime

import (
	"context"
	"fmt"
	"log/slog"

	cberrors "cbenchf/internal/errors"
	"cbenchf/pkg/runtime"
)

// DockerCLI implements the ContainerRuntime interface by shelling out to the
// runtime's command-line client.
type DockerCLI struct {
	binary string
	runner runtime.ProcessRunner
}

// NewDockerCLI creates a DockerCLI that invokes binary through runner.
func NewDockerCLI(binary string, runner runtime.ProcessRunner) *DockerCLI {
	return &DockerCLI{
		binary: binary,
		runner: runner,
	}
}

// BuildRunArgs returns the argument vector for `run [-d] <image> <command>`.
// The command is passed through as a single argument.
func BuildRunArgs(opts runtime.RunOptions) []string {
	args := []string{"run"}
	if opts.Detached {
		args = append(args, "-d")
	}
	return append(args, opts.Image, opts.Command)
}

// RunContainer runs the image once and waits for the client to exit. The
// client inherits the standard streams; pulling missing images is left to it.
func (d *DockerCLI) RunContainer(ctx context.Context, opts runtime.RunOptions) error {
	args := BuildRunArgs(opts)
	slog.Info("Running container", "binary", d.binary, "image", opts.Image, "command", opts.Command, "detached", opts.Detached)

	exitCode, err := d.runner.Run(ctx, d.binary, args...)
	if err != nil {
		return cberrors.NewRuntimeError(
			"Failed to start the container runtime client",
			fmt.Sprintf("%s could not be executed", d.binary),
			"Check that runtime_binary is installed and on your PATH",
			fmt.Errorf("failed to execute %s: %w", d.binary, err),
		)
	}

	if exitCode != 0 {
		return cberrors.NewProcessError(
			"Container run failed",
			fmt.Sprintf("%s exited with status %d", d.binary, exitCode),
			"Check the runtime output above for details",
			&cberrors.ProcessError{Binary: d.binary, Args: args, ExitCode: exitCode},
		)
	}

	slog.Info("Container run command completed", "image", opts.Image, "detached", opts.Detached)
	return nil
}
