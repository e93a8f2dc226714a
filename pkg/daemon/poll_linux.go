//go:build linux

package daemon

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// pollWait blocks until fd is readable or timeout elapses. EINTR is
// retried against the remaining budget rather than surfaced as an error.
func pollWait(fd int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, int(remaining.Milliseconds()))
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("poll: %w", err)
		}
		_ = n
		return nil
	}
}
