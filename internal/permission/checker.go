// Package permission decides whether the current process may talk to the
// container runtime's control socket.
package permission

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	cberrors "cbenchf/internal/errors"
)

// DiagnosticMessage is written to the error stream when the check fails.
const DiagnosticMessage = "Error: You don't have permission to use the Docker socket."

// Identity reports who the current process is.
type Identity interface {
	Geteuid() int
	Getgroups() ([]int, error)
}

// OSIdentity reads the identity of the running process.
type OSIdentity struct{}

func (OSIdentity) Geteuid() int { return os.Geteuid() }

func (OSIdentity) Getgroups() ([]int, error) { return os.Getgroups() }

// Owner is the owning user and group of a filesystem object.
type Owner struct {
	UID int
	GID int
}

// OwnerFunc looks up the owner of path.
type OwnerFunc func(path string) (Owner, error)

// Checker verifies access to a control socket. Ownership and identity are
// read on every call.
type Checker struct {
	socketPath string
	identity   Identity
	ownerOf    OwnerFunc
	stderr     io.Writer
}

type Option func(*Checker)

func WithIdentity(identity Identity) Option {
	return func(c *Checker) { c.identity = identity }
}

func WithOwnerFunc(ownerOf OwnerFunc) Option {
	return func(c *Checker) { c.ownerOf = ownerOf }
}

// WithErrorStream sets where DiagnosticMessage is written. Defaults to os.Stderr.
func WithErrorStream(w io.Writer) Option {
	return func(c *Checker) { c.stderr = w }
}

// NewChecker creates a Checker for the socket at socketPath.
func NewChecker(socketPath string, opts ...Option) *Checker {
	c := &Checker{
		socketPath: socketPath,
		identity:   OSIdentity{},
		ownerOf:    statOwner,
		stderr:     os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SocketPath returns the socket this checker guards.
func (c *Checker) SocketPath() string {
	return c.socketPath
}

// Check returns nil if the socket is owned by the effective user or by one of
// the process's groups. There is no superuser bypass.
func (c *Checker) Check() error {
	owner, err := c.ownerOf(c.socketPath)
	if err != nil {
		return cberrors.NewSocketError(
			"Cannot inspect the container runtime socket",
			fmt.Sprintf("stat of %s failed", c.socketPath),
			"Make sure the daemon is running and socket_path points at its control socket",
			fmt.Errorf("failed to stat socket %s: %w", c.socketPath, err),
		)
	}

	euid := c.identity.Geteuid()
	groups, err := c.identity.Getgroups()
	if err != nil {
		return cberrors.NewRuntimeError(
			"Cannot determine the groups of the current process",
			"",
			"",
			fmt.Errorf("failed to read group list: %w", err),
		)
	}

	if Authorized(owner, euid, groups) {
		slog.Debug("Socket access permitted", "socket", c.socketPath, "uid", euid, "socketUid", owner.UID, "socketGid", owner.GID)
		return nil
	}

	fmt.Fprintln(c.stderr, DiagnosticMessage)
	return cberrors.NewPermissionError(
		"Permission check failed",
		fmt.Sprintf("%s is owned by uid %d and gid %d; the current process has euid %d and groups %v", c.socketPath, owner.UID, owner.GID, euid, groups),
		"Add your user to the group that owns the socket (usually docker) and log in again, or run as the socket owner",
		&fs.PathError{Op: "access", Path: c.socketPath, Err: fs.ErrPermission},
	)
}

// Authorized reports whether a process with euid and groups may use a socket
// owned by owner.
func Authorized(owner Owner, euid int, groups []int) bool {
	return slices.Contains(groups, owner.GID) || owner.UID == euid
}
