package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind identifies a request variant. Values are persisted in the queue
// frame's type byte and must never be renumbered.
type Kind uint8

const (
	KindUnspecified Kind = iota
	KindStop
	KindIncrementVersion
	KindSetStatus
	KindClearStatus
)

var kindNames = map[Kind]string{
	KindStop:             "stop",
	KindIncrementVersion: "increment_version",
	KindSetStatus:        "set_status",
	KindClearStatus:      "clear_status",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is a known variant.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind parses a kind name. Matching ignores case and accepts '-' for '_'.
func ParseKind(s string) (Kind, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for k, name := range kindNames {
		if name == norm {
			return k, nil
		}
	}
	return KindUnspecified, ErrInvalidArgument.WithDetails(fmt.Sprintf("unknown request kind %q", s))
}

// Request is one command posted to the server.
//
// ID and Timestamp are filled in on enqueue when left empty. Message is
// only meaningful for KindSetStatus.
type Request struct {
	ID        string
	Kind      Kind
	Timestamp int64 // Unix milliseconds
	Message   string
}

// NewStopRequest asks the server to shut down.
func NewStopRequest() *Request {
	return &Request{Kind: KindStop}
}

// NewIncrementVersionRequest asks the server to bump the live version.
func NewIncrementVersionRequest() *Request {
	return &Request{Kind: KindIncrementVersion}
}

// NewSetStatusRequest asks the server to publish a status message.
func NewSetStatusRequest(message string) *Request {
	return &Request{Kind: KindSetStatus, Message: message}
}

// NewClearStatusRequest asks the server to clear its status message.
func NewClearStatusRequest() *Request {
	return &Request{Kind: KindClearStatus}
}

// Validate checks the request variant and its payload.
func (r *Request) Validate() error {
	if r == nil {
		return ErrMalformedRequest.WithDetails("request is nil")
	}
	if !r.Kind.Valid() {
		return ErrMalformedRequest.WithDetails(fmt.Sprintf("unknown kind %d", uint8(r.Kind)))
	}
	if r.Kind == KindSetStatus && r.Message == "" {
		return ErrMalformedRequest.WithDetails("set_status requires a message")
	}
	return nil
}

// Stamp assigns an ID and timestamp when they are unset.
func (r *Request) Stamp(now time.Time) error {
	if r.Timestamp == 0 {
		r.Timestamp = now.UnixMilli()
	}
	if r.ID == "" {
		id, err := GenerateRequestID(now)
		if err != nil {
			return err
		}
		r.ID = id
	}
	return nil
}

// String returns a compact description for logs.
func (r *Request) String() string {
	if r.Kind == KindSetStatus {
		return fmt.Sprintf("%s(%q)", r.Kind, r.Message)
	}
	return r.Kind.String()
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// GenerateRequestID returns a new lexically sortable request ID.
func GenerateRequestID(now time.Time) (string, error) {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return strings.ToLower(id.String()), nil
}
