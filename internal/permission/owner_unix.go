//go:build !windows

package permission

import (
	"fmt"
	"os"
	"syscall"
)

// statOwner follows symlinks, so a linked socket reports its target's owner.
func statOwner(path string) (Owner, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Owner{}, err
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return Owner{}, fmt.Errorf("failed to get system file info")
	}

	return Owner{UID: int(stat.Uid), GID: int(stat.Gid)}, nil
}
