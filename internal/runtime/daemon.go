package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
)

// DaemonInfo summarizes the daemon's answer to a ping.
type DaemonInfo struct {
	APIVersion   string
	OSType       string
	Experimental bool
}

type pinger interface {
	Ping(ctx context.Context) (types.Ping, error)
	Close() error
}

// DaemonProbe talks to the daemon over its control socket using the Docker client.
type DaemonProbe struct {
	client     pinger
	socketPath string
}

// NewDaemonProbe creates a probe for the daemon listening on socketPath.
// No connection is made until Ping is called.
func NewDaemonProbe(socketPath string) (*DaemonProbe, error) {
	dockerClient, err := client.NewClientWithOpts(
		client.WithHost("unix://"+socketPath),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &DaemonProbe{
		client:     dockerClient,
		socketPath: socketPath,
	}, nil
}

// Ping checks that the daemon answers on the socket.
func (p *DaemonProbe) Ping(ctx context.Context) (DaemonInfo, error) {
	ping, err := p.client.Ping(ctx)
	if err != nil {
		return DaemonInfo{}, fmt.Errorf("failed to connect to Docker daemon at %s: %w", p.socketPath, err)
	}

	slog.Debug("Docker daemon answered ping", "socket", p.socketPath, "apiVersion", ping.APIVersion, "osType", ping.OSType)
	return DaemonInfo{
		APIVersion:   ping.APIVersion,
		OSType:       ping.OSType,
		Experimental: ping.Experimental,
	}, nil
}

// Close releases the client's connections.
func (p *DaemonProbe) Close() error {
	return p.client.Close()
}
