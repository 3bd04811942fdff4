// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
)

// ErrorType represents the semantic category of a service-level error
type ErrorType int

const (
	ErrorTypeValidation  ErrorType = iota // Caller supplied an invalid request
	ErrorTypeNotFound                     // The conferencing server does not know the resource
	ErrorTypeInternal                     // Anything we could not classify
	ErrorTypeUnavailable                  // The conferencing server could not be reached
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// DomainError represents an error raised by the service layer before or after
// talking to the conferencing server.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error // underlying error for wrapping
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// GetErrorType returns the semantic type of an error. Protocol errors are
// folded into the closest service-level category.
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	var protoErr *ProtocolError
	if errors.As(err, &protoErr) {
		switch protoErr.Kind {
		case ErrorKindUnreachable, ErrorKindHTTP:
			return ErrorTypeUnavailable
		case ErrorKindAPIFailure:
			if protoErr.MessageKey == MessageKeyNotFound {
				return ErrorTypeNotFound
			}
		}
	}
	return ErrorTypeInternal
}

func NewValidationError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Err: errors.Join(err...)}
}

func NewNotFoundError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Message: message, Err: errors.Join(err...)}
}

func NewInternalError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeInternal, Message: message, Err: errors.Join(err...)}
}

func NewUnavailableError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnavailable, Message: message, Err: errors.Join(err...)}
}

// ErrorKind is the closed set of ways a conferencing server round trip can fail.
type ErrorKind int

const (
	// ErrorKindUnreachable covers DNS, connection, timeout and body read failures.
	ErrorKindUnreachable ErrorKind = iota + 1
	// ErrorKindHTTP is a non-2xx HTTP status. The body is never parsed.
	ErrorKindHTTP
	// ErrorKindInvalidResponse is a 2xx body that is not the expected XML document.
	ErrorKindInvalidResponse
	// ErrorKindAPIFailure is a well-formed response with returncode FAILED.
	ErrorKindAPIFailure
	// ErrorKindMisconfigured means the client was never able to issue a request.
	ErrorKindMisconfigured
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindUnreachable:
		return "unreachable"
	case ErrorKindHTTP:
		return "http_error"
	case ErrorKindInvalidResponse:
		return "invalid_response"
	case ErrorKindAPIFailure:
		return "api_failure"
	case ErrorKindMisconfigured:
		return "misconfigured"
	default:
		return "unknown"
	}
}

// Message keys reported by the server, plus the synthetic keys used for
// failures that never produced a server response.
const (
	MessageKeyNotFound          = "notFound"
	MessageKeyNoActionSpecified = "noActionSpecified"
	MessageKeyUnreachable       = "unreachable"
	MessageKeyHTTPError         = "httpError"
	MessageKeyInvalidResponse   = "invalidResponse"
	MessageKeyMisconfigured     = "configurationError"
)

// ProtocolError is returned by every conferencing client operation that fails.
type ProtocolError struct {
	Kind ErrorKind
	// Call is the API call name that failed, when known.
	Call string
	// Status is set for ErrorKindHTTP.
	Status int
	// MessageKey and Message are copied verbatim from the server for
	// ErrorKindAPIFailure.
	MessageKey string
	Message    string
	Err        error
}

func (e *ProtocolError) Error() string {
	var msg string
	switch e.Kind {
	case ErrorKindHTTP:
		msg = fmt.Sprintf("conferencing server returned HTTP %d", e.Status)
	case ErrorKindAPIFailure:
		msg = fmt.Sprintf("conferencing server reported failure (%s): %s", e.MessageKey, e.Message)
	default:
		msg = e.Kind.String()
		if e.Message != "" {
			msg += ": " + e.Message
		}
	}
	if e.Call != "" {
		msg = e.Call + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Key returns the server message key, or a synthetic key for failures that
// did not come from the server.
func (e *ProtocolError) Key() string {
	switch e.Kind {
	case ErrorKindAPIFailure:
		return e.MessageKey
	case ErrorKindUnreachable:
		return MessageKeyUnreachable
	case ErrorKindHTTP:
		return MessageKeyHTTPError
	case ErrorKindInvalidResponse:
		return MessageKeyInvalidResponse
	case ErrorKindMisconfigured:
		return MessageKeyMisconfigured
	}
	return ""
}

func NewUnreachableError(message string, err ...error) *ProtocolError {
	return &ProtocolError{Kind: ErrorKindUnreachable, Message: message, Err: errors.Join(err...)}
}

func NewHTTPError(status int) *ProtocolError {
	return &ProtocolError{Kind: ErrorKindHTTP, Status: status}
}

func NewInvalidResponseError(message string, err ...error) *ProtocolError {
	return &ProtocolError{Kind: ErrorKindInvalidResponse, Message: message, Err: errors.Join(err...)}
}

func NewAPIFailure(messageKey, message string) *ProtocolError {
	return &ProtocolError{Kind: ErrorKindAPIFailure, MessageKey: messageKey, Message: message}
}

func NewMisconfiguredError(message string, err ...error) *ProtocolError {
	return &ProtocolError{Kind: ErrorKindMisconfigured, Message: message, Err: errors.Join(err...)}
}

// KindOf returns the protocol error kind of err, or zero when err is not a
// protocol error.
func KindOf(err error) ErrorKind {
	var protoErr *ProtocolError
	if errors.As(err, &protoErr) {
		return protoErr.Kind
	}
	return 0
}

// MessageKeyOf returns the message key carried by err, or "".
func MessageKeyOf(err error) string {
	var protoErr *ProtocolError
	if errors.As(err, &protoErr) {
		return protoErr.Key()
	}
	return ""
}

// IsMessageKey reports whether err is a server-reported failure with the given key.
func IsMessageKey(err error, key string) bool {
	var protoErr *ProtocolError
	if errors.As(err, &protoErr) {
		return protoErr.Kind == ErrorKindAPIFailure && protoErr.MessageKey == key
	}
	return false
}

// IsRetryable reports whether a caller may reasonably retry the operation.
// The client itself never retries.
func IsRetryable(err error) bool {
	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		return false
	}
	switch protoErr.Kind {
	case ErrorKindUnreachable:
		return true
	case ErrorKindHTTP:
		return protoErr.Status >= 500 || protoErr.Status == 429
	}
	return false
}
