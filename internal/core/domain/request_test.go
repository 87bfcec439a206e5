package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"stop", KindStop, false},
		{"STOP", KindStop, false},
		{"increment-version", KindIncrementVersion, false},
		{"set_status", KindSetStatus, false},
		{" clear_status ", KindClearStatus, false},
		{"restart", KindUnspecified, true},
		{"", KindUnspecified, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if got := KindIncrementVersion.String(); got != "increment_version" {
		t.Errorf("String() = %q", got)
	}
	if got := Kind(99).String(); got != "kind(99)" {
		t.Errorf("String() = %q", got)
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr bool
	}{
		{"stop", NewStopRequest(), false},
		{"increment", NewIncrementVersionRequest(), false},
		{"set status", NewSetStatusRequest("Building..."), false},
		{"clear status", NewClearStatusRequest(), false},
		{"set status empty", NewSetStatusRequest(""), true},
		{"unknown kind", &Request{Kind: Kind(42)}, true},
		{"unspecified", &Request{}, true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedRequest) {
				t.Errorf("Validate() error = %v, want ErrMalformedRequest", err)
			}
		})
	}
}

func TestRequest_Stamp(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	r := NewIncrementVersionRequest()
	if err := r.Stamp(now); err != nil {
		t.Fatalf("Stamp: %v", err)
	}
	if r.Timestamp != now.UnixMilli() {
		t.Errorf("Timestamp = %d, want %d", r.Timestamp, now.UnixMilli())
	}
	if len(r.ID) != 26 {
		t.Errorf("ID = %q, want 26 chars", r.ID)
	}

	// Existing values are kept.
	id := r.ID
	if err := r.Stamp(now.Add(time.Hour)); err != nil {
		t.Fatalf("Stamp: %v", err)
	}
	if r.ID != id || r.Timestamp != now.UnixMilli() {
		t.Error("Stamp should not overwrite existing values")
	}
}

func TestGenerateRequestID_Monotonic(t *testing.T) {
	now := time.Now()
	prev := ""
	for i := 0; i < 100; i++ {
		id, err := GenerateRequestID(now)
		if err != nil {
			t.Fatalf("GenerateRequestID: %v", err)
		}
		if id <= prev {
			t.Fatalf("id %q not greater than %q", id, prev)
		}
		prev = id
	}
}
