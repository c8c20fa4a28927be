package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed remote query. Retryable kinds go through
// the orchestrator's backoff loop before being recorded as a failure.
type ErrorKind string

const (
	ErrorKindThrottling          ErrorKind = "throttling"
	ErrorKindThrottlingExhausted ErrorKind = "throttling_exhausted"
	ErrorKindTimeout             ErrorKind = "timeout"
	ErrorKindAuthorization       ErrorKind = "authorization"
	ErrorKindNotFound            ErrorKind = "not_found"
	ErrorKindCanceled            ErrorKind = "canceled"
	ErrorKindRender              ErrorKind = "render"
	ErrorKindUnknown             ErrorKind = "unknown"
)

// Retryable reports whether a query failing with this kind may be retried.
func (k ErrorKind) Retryable() bool {
	return k == ErrorKindThrottling || k == ErrorKindTimeout
}

// RemoteError is a classified error from the remote metrics API (or from the
// orchestration around it, for timeout and cancellation).
type RemoteError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NewRemoteError creates a RemoteError with the given kind and message.
func NewRemoteError(kind ErrorKind, code, message string, err error) *RemoteError {
	return &RemoteError{Kind: kind, Code: code, Message: message, Err: err}
}

// AsRemoteError returns err as a RemoteError, wrapping anything unclassified
// with ErrorKindUnknown so callers always see a kind.
func AsRemoteError(err error) *RemoteError {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote
	}
	return &RemoteError{Kind: ErrorKindUnknown, Message: err.Error(), Err: err}
}
