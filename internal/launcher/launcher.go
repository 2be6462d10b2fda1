package launcher

import (
	"context"
	"log/slog"

	"cbenchf/pkg/runtime"
)

// Launcher implements the Runner interface: it gates every run behind a
// permission check before handing it to the container runtime.
type Launcher struct {
	authorizer       Authorizer
	containerRuntime runtime.ContainerRuntime
}

// NewLauncher creates a new Launcher.
func NewLauncher(authorizer Authorizer, containerRuntime runtime.ContainerRuntime) *Launcher {
	return &Launcher{
		authorizer:       authorizer,
		containerRuntime: containerRuntime,
	}
}

// Run checks permissions and then runs image once. Nothing is started when
// the check fails, and failed runs are not retried.
func (l *Launcher) Run(ctx context.Context, image, command string, detached bool) error {
	if err := l.authorizer.Check(); err != nil {
		slog.Debug("Permission check rejected run", "image", image, "error", err)
		return err
	}

	return l.containerRuntime.RunContainer(ctx, runtime.RunOptions{
		Image:    image,
		Command:  command,
		Detached: detached,
	})
}
