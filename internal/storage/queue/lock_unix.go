//go:build unix

package queue

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// removeWhileLocked is true where an open, locked file can be unlinked.
const removeWhileLocked = true

const lockRetryInterval = 2 * time.Millisecond

// lockFile takes an exclusive flock on f, retrying until ctx ends.
func lockFile(ctx context.Context, f *os.File) (func(), error) {
	fd := int(f.Fd())
	for {
		err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return func() { _ = unix.Flock(fd, unix.LOCK_UN) }, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}
