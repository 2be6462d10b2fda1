package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	cberrors "cbenchf/internal/errors"
	"cbenchf/internal/runtime"
)

// RunRequest describes one container run requested by the user.
type RunRequest struct {
	Image    string
	Command  string
	Detached bool
}

// Run starts the requested container through the factory's launcher. An
// empty image is rejected before the permission check.
func Run(ctx context.Context, factory *Factory, req RunRequest) error {
	runID := uuid.New().String()
	logger := slog.With("runId", runID)

	if req.Image == "" {
		return cberrors.NewConfigError(
			"No image to run",
			"neither --image nor default_image is set",
			"Pass --image or set default_image in config.yaml",
			errors.New("image reference is empty"),
		)
	}

	logger.Info("Starting container run",
		"image", req.Image,
		"command", req.Command,
		"detached", req.Detached,
		"socket", factory.Settings().SocketPath,
		"binary", factory.Settings().RuntimeBinary,
	)

	if err := factory.Launcher().Run(ctx, req.Image, req.Command, req.Detached); err != nil {
		if errors.Is(err, cberrors.ErrProcessFailed) || errors.Is(err, cberrors.ErrRuntimeFailed) {
			logger.Error("Container run failed", "error", err)
		} else {
			logger.Warn("Container run rejected", "error", err)
		}
		return err
	}

	logger.Info("Container run finished", "image", req.Image)
	return nil
}

// CheckResult is the outcome of a successful Check.
type CheckResult struct {
	SocketPath string
	// Daemon is set only when a ping was requested.
	Daemon *runtime.DaemonInfo
}

// Check verifies socket permissions and, when ping is set, that the daemon
// answers on the socket.
func Check(ctx context.Context, factory *Factory, ping bool) (*CheckResult, error) {
	socketPath := factory.Settings().SocketPath
	if err := factory.Checker().Check(); err != nil {
		return nil, err
	}

	result := &CheckResult{SocketPath: socketPath}
	if !ping {
		return result, nil
	}

	pinger, err := factory.DaemonPinger()
	if err != nil {
		return nil, cberrors.NewRuntimeError(
			"Cannot create a client for the container runtime daemon",
			err.Error(),
			"Check that socket_path is a valid unix socket path",
			err,
		)
	}
	defer func() {
		if closeErr := pinger.Close(); closeErr != nil {
			slog.Warn("Failed to close daemon client", "error", closeErr)
		}
	}()

	info, err := pinger.Ping(ctx)
	if err != nil {
		return nil, cberrors.NewSocketError(
			"The container runtime daemon did not answer",
			fmt.Sprintf("no response on %s", socketPath),
			"Start the daemon or point socket_path at the socket it listens on",
			err,
		)
	}

	result.Daemon = &info
	return result, nil
}
