package domain

import (
	"context"
	"errors"
)

// Result is the outcome of a store or generation call. A failed Result still
// carries a usable Value (empty list, unchanged item) so the caller can keep
// rendering.
type Result[T any] struct {
	Value T
	Kind  ErrorKind
	Err   error
	// Notify is set on the first failure of an outage so the UI shows a
	// single non-blocking notice instead of one per call.
	Notify bool
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool { return r.Kind == KindNone || r.Kind == "" }

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Kind: KindNone}
}

// Fail wraps err with its ErrorKind and a fallback value.
func Fail[T any](fallback T, err error) Result[T] {
	return Result[T]{Value: fallback, Kind: KindOf(err), Err: err}
}

// KindOf maps an error chain onto an ErrorKind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrIdentityUnresolved):
		return KindIdentityUnresolved
	case errors.Is(err, ErrMisconfigured):
		return KindStoreMisconfigured
	default:
		return KindStoreUnavailable
	}
}

// GenerationKindOf maps an error from the generation service onto an ErrorKind.
func GenerationKindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrMisconfigured):
		return KindGenerationUnconfigured
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindGenerationTimeout
	default:
		return KindGenerationFailed
	}
}
