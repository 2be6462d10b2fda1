package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"cbenchf/internal/launcher"
	"cbenchf/internal/permission"
	"cbenchf/internal/runtime"
	runtimePkg "cbenchf/pkg/runtime"
	"cbenchf/pkg/settings"
)

// DaemonPinger reports whether the daemon answers on its socket.
type DaemonPinger interface {
	Ping(ctx context.Context) (runtime.DaemonInfo, error)
	Close() error
}

// Factory builds the permission checker, container runtime and launcher for
// one set of settings. The OS-facing pieces can be swapped for tests.
type Factory struct {
	settings  *settings.Settings
	identity  permission.Identity
	ownerOf   permission.OwnerFunc
	stderr    io.Writer
	runner    runtimePkg.ProcessRunner
	newPinger func(socketPath string) (DaemonPinger, error)
}

type FactoryOption func(*Factory)

func WithIdentity(identity permission.Identity) FactoryOption {
	return func(f *Factory) { f.identity = identity }
}

func WithOwnerFunc(ownerOf permission.OwnerFunc) FactoryOption {
	return func(f *Factory) { f.ownerOf = ownerOf }
}

func WithErrorStream(w io.Writer) FactoryOption {
	return func(f *Factory) { f.stderr = w }
}

func WithProcessRunner(runner runtimePkg.ProcessRunner) FactoryOption {
	return func(f *Factory) { f.runner = runner }
}

func WithDaemonPinger(newPinger func(socketPath string) (DaemonPinger, error)) FactoryOption {
	return func(f *Factory) { f.newPinger = newPinger }
}

// NewFactory creates a Factory backed by the real OS unless overridden.
func NewFactory(s *settings.Settings, opts ...FactoryOption) *Factory {
	f := &Factory{
		settings: s,
		identity: permission.OSIdentity{},
		stderr:   os.Stderr,
		runner:   runtime.NewExecRunner(),
		newPinger: func(socketPath string) (DaemonPinger, error) {
			return runtime.NewDaemonProbe(socketPath)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Settings returns the settings the factory was built with.
func (f *Factory) Settings() *settings.Settings {
	return f.settings
}

// Checker returns a permission checker for the configured socket.
func (f *Factory) Checker() *permission.Checker {
	opts := []permission.Option{
		permission.WithIdentity(f.identity),
		permission.WithErrorStream(f.stderr),
	}
	if f.ownerOf != nil {
		opts = append(opts, permission.WithOwnerFunc(f.ownerOf))
	}
	return permission.NewChecker(f.settings.SocketPath, opts...)
}

// ContainerRuntime returns the CLI-backed runtime for the configured binary.
func (f *Factory) ContainerRuntime() *runtime.DockerCLI {
	return runtime.NewDockerCLI(f.settings.RuntimeBinary, f.runner)
}

// Launcher wires the checker in front of the container runtime.
func (f *Factory) Launcher() launcher.Runner {
	return launcher.NewLauncher(f.Checker(), f.ContainerRuntime())
}

// DaemonPinger returns a client for the daemon behind the configured socket.
func (f *Factory) DaemonPinger() (DaemonPinger, error) {
	pinger, err := f.newPinger(f.settings.SocketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon client: %w", err)
	}
	return pinger, nil
}
