package liveness

import (
	"context"
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// Oracle reports whether a process is alive.
type Oracle interface {
	IsAlive(ctx context.Context, pid int) bool
}

// ProcessOracle consults the operating system process table.
type ProcessOracle struct{}

// NewProcessOracle returns an oracle backed by the process table.
func NewProcessOracle() ProcessOracle {
	return ProcessOracle{}
}

// IsAlive reports whether pid names a running process. Lookup errors
// count as not alive so a broken record can always be reclaimed.
func (ProcessOracle) IsAlive(ctx context.Context, pid int) bool {
	if pid < 1 || pid > int(^uint32(0)>>1) {
		return false
	}
	if pid == os.Getpid() {
		return true
	}
	ok, err := process.PidExistsWithContext(ctx, int32(pid))
	return err == nil && ok
}

// FuncOracle adapts a function to the Oracle interface.
type FuncOracle func(ctx context.Context, pid int) bool

// IsAlive calls f.
func (f FuncOracle) IsAlive(ctx context.Context, pid int) bool {
	return f(ctx, pid)
}
