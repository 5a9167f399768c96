package dto

import "errors"

// Validation errors
var (
	ErrContentTooLong = errors.New("content exceeds maximum length (1MB)")
)

// MaxContentLength bounds the query and candidate block of one request.
const MaxContentLength = 1024 * 1024 // 1MB

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// StatusResponse is returned by the load-model and status endpoints
type StatusResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
	Loaded bool   `json:"loaded"`
}
