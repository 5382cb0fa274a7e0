//go:build linux || darwin

package cancel

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// makeCbreak clears ICANON and ECHO on fd and returns a func restoring the
// previous settings.
func makeCbreak(fd int) (func() error, error) {
	old, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, ErrNotTerminal
	}

	t := *old
	t.Lflag &^= unix.ICANON | unix.ECHO
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &t); err != nil {
		return nil, fmt.Errorf("cancel: set termios: %w", err)
	}

	return func() error {
		return unix.IoctlSetTermios(fd, ioctlSetTermios, old)
	}, nil
}
