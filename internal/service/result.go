package service

import "fmt"

// ErrorKind classifies adapter failures.
type ErrorKind string

const (
	ErrorKindRemoteCallFailed    ErrorKind = "remote_call_failed"
	ErrorKindResponseUnparseable ErrorKind = "response_unparseable"
)

// AdapterError is the failure variant of every adapter result.
type AdapterError struct {
	Kind ErrorKind
	Err  error
}

func newAdapterError(kind ErrorKind, err error) *AdapterError {
	return &AdapterError{Kind: kind, Err: err}
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// DebugInfo carries the prompt, raw response and/or error of one adapter call.
// It is returned to the caller and never stored.
type DebugInfo map[string]string

func (d DebugInfo) setError(err *AdapterError) {
	d["error"] = err.Err.Error()
	d["error_kind"] = string(err.Kind)
}
