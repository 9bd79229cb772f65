package errors

import (
	"context"
	"errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// Kind is the caller-visible class of a failed catalog operation.
type Kind int

const (
	KindInternal Kind = iota
	KindStoreUnavailable
	KindMalformedQuery
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindStoreUnavailable:
		return "store_unavailable"
	case KindMalformedQuery:
		return "malformed_query"
	case KindTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Code is the stable identifier sent to API clients.
func (k Kind) Code() string {
	switch k {
	case KindStoreUnavailable:
		return "STORE_UNAVAILABLE"
	case KindMalformedQuery:
		return "MALFORMED_QUERY"
	case KindTimeout:
		return "TIMEOUT"
	default:
		return "INTERNAL_ERROR"
	}
}

// StoreError wraps a failure reported by a catalog backend.
type StoreError struct {
	Kind  Kind
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Op, e.Kind)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

func NewStoreError(kind Kind, op string, cause error) *StoreError {
	return &StoreError{
		Kind:  kind,
		Op:    op,
		Cause: cause,
	}
}

func IsStoreError(err error) (*StoreError, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// KindOf classifies any error returned by the catalog layers.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	if _, ok := IsValidationError(err); ok {
		return KindMalformedQuery
	}
	if se, ok := IsStoreError(err); ok {
		return se.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindInternal
}
