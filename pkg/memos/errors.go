package memos

import (
	"errors"
	"fmt"
)

// CodePermissionDenied is the gRPC status code the Memos gateway puts in
// the error body when the caller lacks the required role.
const CodePermissionDenied = 7

// ErrEmptyUpdateMask is returned by partial-update calls that were handed no
// fields. No request is sent.
var ErrEmptyUpdateMask = errors.New("memos: update mask is empty")

/*
APIError is a failure reported by a Memos instance: either the structured
error body the gateway returned, or the raw HTTP status when the body could
not be read as JSON.
*/
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details []any  `json:"details"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("memos api error %d: %s", e.Code, e.Message)
}

// IsPermissionDenied reports whether the backend refused the call for lack
// of privileges.
func (e *APIError) IsPermissionDenied() bool {
	return e != nil && e.Code == CodePermissionDenied
}

// AsAPIError unwraps err into an *APIError when it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ConnectionError means no HTTP response was obtained at all.
type ConnectionError struct {
	Method string
	Path   string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("memos request %s %s failed: %v", e.Method, e.Path, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// DecodingError means a successful response did not fit the expected shape.
type DecodingError struct {
	Path string
	Err  error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("failed to decode memos response for %s: %v", e.Path, e.Err)
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}
