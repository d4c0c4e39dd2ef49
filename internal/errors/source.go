package errors

import (
	stderrors "errors"
	"fmt"
)

// SourceKind classifies why a question set could not be loaded.
type SourceKind string

const (
	KindTransport SourceKind = "transport"
	KindClient    SourceKind = "client"
	KindServer    SourceKind = "server"
	KindInvalid   SourceKind = "invalid"
)

// SourceError is a failed load from the question source.
type SourceError struct {
	Kind   SourceKind
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *SourceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("question source %s error (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("question source %s error: %v", e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether a retry could plausibly succeed.
func (e *SourceError) IsTransient() bool {
	return e.Kind == KindTransport || e.Kind == KindServer
}

func NewTransportError(err error) *SourceError {
	return &SourceError{Kind: KindTransport, Err: err}
}

func NewInvalidResponseError(err error) *SourceError {
	return &SourceError{Kind: KindInvalid, Err: err}
}

// NewStatusError classifies a non-success HTTP status.
func NewStatusError(status int, body string) *SourceError {
	kind := KindServer
	if status >= 400 && status < 500 {
		kind = KindClient
	}
	return &SourceError{Kind: kind, Status: status, Err: fmt.Errorf("unexpected status %d: %s", status, body)}
}

// AsSourceError returns err as a *SourceError. Errors of any other type are
// classified as transport failures.
func AsSourceError(err error) *SourceError {
	var srcErr *SourceError
	if stderrors.As(err, &srcErr) {
		return srcErr
	}
	return NewTransportError(err)
}
