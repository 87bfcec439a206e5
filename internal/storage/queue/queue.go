package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/devloop/internal/core/domain"
)

// Queue is the request mailbox between clients and the server.
type Queue interface {
	// Enqueue appends one request. It may be called from any process.
	Enqueue(ctx context.Context, req *domain.Request) error
	// DrainAll returns all pending requests in arrival order and empties
	// the queue atomically with respect to Enqueue.
	DrainAll(ctx context.Context) ([]*domain.Request, error)
}

const (
	dirPerm  = 0750
	filePerm = 0600

	// maxReopen bounds how often Enqueue chases a file replaced by a drain.
	maxReopen = 16
)

// FileQueue implements Queue on a single file.
type FileQueue struct {
	path      string
	logger    *slog.Logger
	malformed func(err error)
	now       func() time.Time
}

// Option configures a FileQueue.
type Option func(*FileQueue)

// WithLogger sets the logger used to report discarded entries.
func WithLogger(logger *slog.Logger) Option {
	return func(q *FileQueue) {
		q.logger = logger
	}
}

// WithMalformedHook registers a function called once per discarded entry.
func WithMalformedHook(fn func(err error)) Option {
	return func(q *FileQueue) {
		q.malformed = fn
	}
}

// New returns a queue stored at path. The file is created on first Enqueue.
func New(path string, opts ...Option) *FileQueue {
	q := &FileQueue{
		path:      path,
		logger:    slog.Default(),
		malformed: func(error) {},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Path returns the queue file location.
func (q *FileQueue) Path() string {
	return q.path
}

// Enqueue appends req. ID and timestamp are assigned when unset.
func (q *FileQueue) Enqueue(ctx context.Context, req *domain.Request) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	if err := req.Stamp(q.now()); err != nil {
		return err
	}
	frame, err := encodeFrame(req)
	if err != nil {
		return fmt.Errorf("queue: encode %s: %w", req.Kind, err)
	}

	if err := os.MkdirAll(filepath.Dir(q.path), dirPerm); err != nil {
		return fmt.Errorf("queue: create dir: %w", err)
	}

	for attempt := 0; attempt < maxReopen; attempt++ {
		f, err := os.OpenFile(q.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, filePerm)
		if err != nil {
			return fmt.Errorf("queue: open: %w", err)
		}

		unlock, err := lockFile(ctx, f)
		if err != nil {
			f.Close()
			return fmt.Errorf("queue: lock: %w", err)
		}

		current, err := namesPath(f, q.path)
		if err != nil || !current {
			unlock()
			f.Close()
			if err != nil {
				return err
			}
			continue
		}

		_, werr := f.Write(frame)
		if werr == nil {
			werr = f.Sync()
		}
		unlock()
		cerr := f.Close()
		if werr != nil {
			return fmt.Errorf("queue: append: %w", werr)
		}
		if cerr != nil {
			return fmt.Errorf("queue: close: %w", cerr)
		}
		return nil
	}
	return fmt.Errorf("queue: file replaced %d times while enqueuing", maxReopen)
}

// DrainAll returns every pending request and removes the queue file.
// Entries that cannot be decoded are logged and skipped.
func (q *FileQueue) DrainAll(ctx context.Context) ([]*domain.Request, error) {
	data, err := q.take(ctx)
	if err != nil || len(data) == 0 {
		return nil, err
	}

	reqs, dropped, err := decodeAll(data, func(offset int, err error) {
		q.logger.Warn("discarding malformed queue entry",
			"path", q.path,
			"offset", offset,
			"code", domain.ErrMalformedRequest.Code,
			"error", err,
		)
		q.malformed(err)
	})
	if err != nil {
		q.logger.Warn("discarding unreadable queue tail",
			"path", q.path,
			"bytes", dropped,
			"code", domain.ErrMalformedRequest.Code,
			"error", err,
		)
		q.malformed(err)
	}
	return reqs, nil
}

// Clear discards pending requests without decoding them.
func (q *FileQueue) Clear(ctx context.Context) error {
	_, err := q.take(ctx)
	return err
}

// take reads and removes the queue file under the lock. A missing file
// yields no data.
func (q *FileQueue) take(ctx context.Context) ([]byte, error) {
	for attempt := 0; attempt < maxReopen; attempt++ {
		f, err := os.Open(q.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil
			}
			return nil, fmt.Errorf("queue: open: %w", err)
		}

		unlock, err := lockFile(ctx, f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("queue: lock: %w", err)
		}

		// Another consumer may have drained and removed this file while we
		// waited for the lock.
		current, err := namesPath(f, q.path)
		if err != nil || !current {
			unlock()
			f.Close()
			if err != nil {
				return nil, err
			}
			continue
		}

		data, rerr := io.ReadAll(f)
		var rmErr error
		if rerr == nil {
			if removeWhileLocked {
				rmErr = os.Remove(q.path)
				unlock()
				f.Close()
			} else {
				f.Close()
				rmErr = os.Remove(q.path)
				unlock()
			}
		} else {
			unlock()
			f.Close()
		}

		if rerr != nil {
			return nil, fmt.Errorf("queue: read: %w", rerr)
		}
		if rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			// The data stays on disk; returning it now would repeat it later.
			return nil, fmt.Errorf("queue: remove: %w", rmErr)
		}
		return data, nil
	}
	return nil, fmt.Errorf("queue: file replaced %d times while draining", maxReopen)
}

// namesPath reports whether f is still the file found at path.
func namesPath(f *os.File, path string) (bool, error) {
	held, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("queue: stat open file: %w", err)
	}
	onDisk, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("queue: stat: %w", err)
	}
	return os.SameFile(held, onDisk), nil
}
