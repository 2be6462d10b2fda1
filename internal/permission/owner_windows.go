//go:build windows

package permission

import "errors"

// statOwner is unsupported on Windows, where the daemon listens on a named pipe.
func statOwner(path string) (Owner, error) {
	return Owner{}, errors.New("socket ownership checks are not supported on windows")
}
