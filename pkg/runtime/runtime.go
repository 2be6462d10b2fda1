package runtime

import "context"

// RunOptions defines the parameters for running a container.
type RunOptions struct {
	Image    string
	Command  string
	Detached bool
}

// ContainerRuntime defines the contract for container operations.
type ContainerRuntime interface {
	RunContainer(ctx context.Context, opts RunOptions) error
}

// ProcessRunner executes an external program and waits for it to exit.
// A non-nil error means the program could not be run at all; otherwise the
// exit status is returned.
type ProcessRunner interface {
	Run(ctx context.Context, name string, args ...string) (int, error)
}
