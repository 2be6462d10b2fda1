package launcher

import "context"

// Runner defines the interface for starting a container image.
type Runner interface {
	// Run starts image executing command. When detached is true the
	// container keeps running after the runtime client returns.
	Run(ctx context.Context, image, command string, detached bool) error
}

// Authorizer decides whether the caller may use the container runtime.
type Authorizer interface {
	Check() error
}
