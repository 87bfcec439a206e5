package handler

import "time"

// Response is the JSON envelope used by /health and error replies. The
// live-reload endpoints answer in plain text so the polling script stays
// trivial.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// HealthResponse is the data of GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Time        string `json:"time"`
	Build       string `json:"build,omitempty"`
	LiveVersion int64  `json:"live_version"`
	StatusSet   bool   `json:"status_set"`
}
