package queue

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/yndnr/devloop/internal/core/domain"
)

const (
	// headerSize is the length prefix plus the checksum.
	headerSize = 8

	// maxFrameSize bounds a single entry; anything larger is corruption.
	maxFrameSize = 1 << 20
)

var (
	ErrCorruptedEntry   = errors.New("queue: corrupted entry")
	ErrChecksumMismatch = errors.New("queue: checksum mismatch")
	ErrTruncated        = errors.New("queue: truncated entry")
)

// wirePayload is the JSON body of a frame. Kind repeats the type byte by
// name so a dumped queue file is readable; frames written without it are
// still accepted.
type wirePayload struct {
	Kind      string `json:"kind,omitempty"`
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
	Message   string `json:"message,omitempty"`
}

func encodeFrame(r *domain.Request) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(wirePayload{
		Kind:      r.Kind.String(),
		ID:        r.ID,
		Timestamp: r.Timestamp,
		Message:   r.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("queue: marshal payload: %w", err)
	}

	length := 4 + 1 + len(payload)
	if length > maxFrameSize {
		return nil, fmt.Errorf("queue: entry of %d bytes exceeds limit", length)
	}

	out := make([]byte, 4+length)
	binary.BigEndian.PutUint32(out[0:4], uint32(length))
	out[8] = byte(r.Kind)
	copy(out[9:], payload)
	binary.BigEndian.PutUint32(out[4:8], crc32.ChecksumIEEE(out[8:]))
	return out, nil
}

// decodeFrame decodes the bytes following a length prefix:
// [crc32:4][kind:1][payload...].
func decodeFrame(frame []byte) (*domain.Request, error) {
	if len(frame) < 5 {
		return nil, ErrCorruptedEntry
	}

	wantCRC := binary.BigEndian.Uint32(frame[:4])
	if crc32.ChecksumIEEE(frame[4:]) != wantCRC {
		return nil, ErrChecksumMismatch
	}

	var p wirePayload
	if err := json.Unmarshal(frame[5:], &p); err != nil {
		return nil, fmt.Errorf("queue: unmarshal payload: %w", err)
	}

	r := &domain.Request{
		ID:        p.ID,
		Kind:      domain.Kind(frame[4]),
		Timestamp: p.Timestamp,
		Message:   p.Message,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if p.Kind != "" {
		named, err := domain.ParseKind(p.Kind)
		if err != nil || named != r.Kind {
			return nil, fmt.Errorf("%w: kind %q does not match type byte %d", ErrCorruptedEntry, p.Kind, frame[4])
		}
	}
	return r, nil
}

// decodeAll splits data into frames. Entries that fail to decode are
// reported through bad and skipped. A damaged length prefix or a short
// tail ends decoding because frame boundaries can no longer be trusted;
// the number of bytes abandoned is returned with the error.
func decodeAll(data []byte, bad func(offset int, err error)) ([]*domain.Request, int, error) {
	var out []*domain.Request
	off := 0
	for off < len(data) {
		if len(data)-off < 4 {
			return out, len(data) - off, ErrTruncated
		}
		length := int(binary.BigEndian.Uint32(data[off : off+4]))
		if length < 5 || length > maxFrameSize {
			return out, len(data) - off, ErrCorruptedEntry
		}
		if len(data)-off-4 < length {
			return out, len(data) - off, ErrTruncated
		}

		r, err := decodeFrame(data[off+4 : off+4+length])
		if err != nil {
			bad(off, err)
		} else {
			out = append(out, r)
		}
		off += 4 + length
	}
	return out, 0, nil
}
