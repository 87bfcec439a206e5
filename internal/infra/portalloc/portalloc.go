package portalloc

import (
	"fmt"
	"net"
	"strconv"

	"github.com/yndnr/devloop/internal/core/domain"
)

// DefaultMaxAttempts bounds the probe sequence.
const DefaultMaxAttempts = 100

const maxPort = 65535

// Allocator probes preferred, preferred+1, ... until a port binds. Any
// bind failure moves on to the next port; the cause of the last failure is
// kept on ErrNoFreePort.
type Allocator struct {
	Host        string
	MaxAttempts int

	// listen is replaced in tests.
	listen func(network, address string) (net.Listener, error)
}

// New returns an allocator for host. A maxAttempts below 1 selects
// DefaultMaxAttempts.
func New(host string, maxAttempts int) *Allocator {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Allocator{Host: host, MaxAttempts: maxAttempts, listen: net.Listen}
}

// Allocate returns the first port that can be bound. The probe listener is
// released before returning, so another process may still claim the port;
// prefer Listen when the caller is about to serve on it.
func (a *Allocator) Allocate(preferred int) (int, error) {
	ln, err := a.Listen(preferred)
	if err != nil {
		return 0, err
	}
	port := ln.Addr().(*net.TCPAddr).Port
	if err := ln.Close(); err != nil {
		return 0, fmt.Errorf("release probe on port %d: %w", port, err)
	}
	return port, nil
}

// Listen binds the first free port and returns the live listener.
func (a *Allocator) Listen(preferred int) (net.Listener, error) {
	if preferred < 1 || preferred > maxPort {
		return nil, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("preferred port %d out of range", preferred))
	}

	listen := a.listen
	if listen == nil {
		listen = net.Listen
	}
	attempts := a.MaxAttempts
	if attempts < 1 {
		attempts = DefaultMaxAttempts
	}

	last := preferred
	var lastErr error
	for port := preferred; port <= maxPort && port < preferred+attempts; port++ {
		last = port
		ln, err := listen("tcp", net.JoinHostPort(a.Host, strconv.Itoa(port)))
		if err == nil {
			return ln, nil
		}
		lastErr = err
	}

	return nil, domain.ErrNoFreePort.
		WithDetails(fmt.Sprintf("ports %d-%d on %q are in use", preferred, last, a.Host)).
		WithCause(lastErr)
}
