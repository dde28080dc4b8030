package domain

import "encoding/json"

// Envelope is the uniform wrapper around every backend response. Data is
// left raw so the caller can decode it into the expected shape after the
// success flag and error fields have been inspected.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}
