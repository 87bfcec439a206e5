package domain

import "fmt"

// ServerState is the single durable record describing a running server.
// It is present only while a server claims to be running.
type ServerState struct {
	Port int `yaml:"port" json:"port"`
	PID  int `yaml:"pid" json:"pid"`
}

// Validate reports whether the record could describe a real server.
func (s *ServerState) Validate() error {
	if s == nil {
		return ErrMalformedState.WithDetails("state is nil")
	}
	if s.Port < 1 || s.Port > 65535 {
		return ErrMalformedState.WithDetails(fmt.Sprintf("port %d out of range", s.Port))
	}
	if s.PID < 1 {
		return ErrMalformedState.WithDetails(fmt.Sprintf("invalid pid %d", s.PID))
	}
	return nil
}

// URL returns the address browsers should use.
func (s *ServerState) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.Port)
}

// DisplayText renders the state for humans.
func (s *ServerState) DisplayText() string {
	return fmt.Sprintf("%s (PID = %d)", s.URL(), s.PID)
}
