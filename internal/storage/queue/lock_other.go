//go:build !unix

package queue

import (
	"context"
	"os"
	"sync"
)

// Without flock the file must be closed before it can be removed.
const removeWhileLocked = false

// processLock serializes queue access within this process only. Clients
// in other processes are not excluded on these platforms.
var processLock sync.Mutex

func lockFile(ctx context.Context, _ *os.File) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	processLock.Lock()
	return processLock.Unlock, nil
}
