package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies scan failures for the web layer.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindBadRequest
	KindServiceUnavailable
	KindUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindUpstream:
		return "upstream_error"
	default:
		return "internal"
	}
}

// ScanError is returned by the scan pipeline. Message is safe to show to
// the caller as is.
type ScanError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ScanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ScanError) Unwrap() error { return e.Err }

func badRequest(msg string) *ScanError {
	return &ScanError{Kind: KindBadRequest, Message: msg}
}

func internalError(msg string, err error) *ScanError {
	return &ScanError{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of a *ScanError anywhere in err's chain, or
// KindInternal.
func KindOf(err error) ErrorKind {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
