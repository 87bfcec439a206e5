package globals

import "sync/atomic"

// Globals is safe for one writer and many concurrent readers.
type Globals struct {
	version atomic.Int64
	status  atomic.Pointer[string]
}

// New returns globals with version 0 and no status.
func New() *Globals {
	return &Globals{}
}

// Version returns the current version. It never decreases.
func (g *Globals) Version() int64 {
	return g.version.Load()
}

// IncrementVersion bumps the version and returns the new value.
func (g *Globals) IncrementVersion() int64 {
	return g.version.Add(1)
}

// Status returns the status message and whether one is set.
func (g *Globals) Status() (string, bool) {
	p := g.status.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// SetStatus publishes msg. An empty message clears the status so the
// value is either absent or non-empty.
func (g *Globals) SetStatus(msg string) {
	if msg == "" {
		g.ClearStatus()
		return
	}
	g.status.Store(&msg)
}

// ClearStatus removes the status message.
func (g *Globals) ClearStatus() {
	g.status.Store(nil)
}
