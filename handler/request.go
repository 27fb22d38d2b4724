package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Request is the platform-agnostic envelope for one engine operation.
// Adapters translate their native input (HTTP body, Lambda event) into
// this shape before handing it to the worker.
type Request struct {
	// ID is a unique identifier for the request, used for tracing
	ID string `json:"id"`

	// Source identifies the originating platform (http, lambda)
	Source string `json:"source"`

	// Type is the operation name, e.g. "audit.request" or "bounty.resolve"
	Type string `json:"type"`

	// Payload carries the operation parameters as raw JSON
	Payload json.RawMessage `json:"payload"`

	// Metadata carries transport context (headers, attributes)
	Metadata map[string]string `json:"metadata,omitempty"`

	// Timestamp when the request was created
	Timestamp time.Time `json:"timestamp"`
}

// Response is the platform-agnostic result envelope.
type Response struct {
	// ID correlates with the request ID
	ID string `json:"id"`

	// Success indicates whether the operation reached a positive decision
	Success bool `json:"success"`

	// Data holds the operation result when Success is true
	Data json.RawMessage `json:"data,omitempty"`

	// Error holds structured failure information when Success is false
	Error *ErrorResponse `json:"error,omitempty"`

	// Metadata carries additional response context
	Metadata map[string]string `json:"metadata,omitempty"`

	// ProcessedAt timestamp
	ProcessedAt time.Time `json:"processed_at"`

	// Duration of processing
	Duration time.Duration `json:"duration,omitempty"`
}

// ErrorResponse is the structured failure payload shared by all adapters.
type ErrorResponse struct {
	// Code is a machine-readable error code, e.g. "BOUNTY_NOT_OPEN"
	Code string `json:"code"`

	// Message is a human-readable description
	Message string `json:"message"`

	// Details provides additional context
	Details string `json:"details,omitempty"`

	// Retryable indicates whether the operation can be retried as-is
	Retryable bool `json:"retryable,omitempty"`
}

// NewRequest creates a request with a generated id and timestamp.
func NewRequest(requestType string, payload interface{}) (Request, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return Request{}, err
	}

	return Request{
		ID:        uuid.New().String(),
		Type:      requestType,
		Payload:   payloadBytes,
		Metadata:  make(map[string]string),
		Timestamp: time.Now().UTC(),
	}, nil
}

// Unmarshal decodes the request payload into v.
func (r *Request) Unmarshal(v interface{}) error {
	return json.Unmarshal(r.Payload, v)
}

// Marshal encodes v as the response data.
func (r *Response) Marshal(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.Data = data
	return nil
}

// NewSuccessResponse builds a success response carrying data.
func NewSuccessResponse(id string, data interface{}) (Response, error) {
	resp := Response{
		ID:          id,
		Success:     true,
		ProcessedAt: time.Now().UTC(),
		Metadata:    make(map[string]string),
	}

	if data != nil {
		if err := resp.Marshal(data); err != nil {
			return Response{}, err
		}
	}

	return resp, nil
}

// NewErrorResponse builds a failure response for an error code.
func NewErrorResponse(id string, code string, message string, details string) Response {
	return Response{
		ID:      id,
		Success: false,
		Error: &ErrorResponse{
			Code:      code,
			Message:   message,
			Details:   details,
			Retryable: isRetryableCode(code),
		},
		ProcessedAt: time.Now().UTC(),
	}
}

// SetMetadata adds or updates metadata on the request.
func (r *Request) SetMetadata(key, value string) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
}

// GetMetadata retrieves metadata from the request.
func (r *Request) GetMetadata(key string) (string, bool) {
	if r.Metadata == nil {
		return "", false
	}
	val, ok := r.Metadata[key]
	return val, ok
}
