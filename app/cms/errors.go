package cms

import (
	"errors"
	"fmt"
)

// Kind classifies failures of the CMS integration layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfigMissing
	KindTransportFailure
	KindNotFound
	KindValidationFailed
)

func (k Kind) String() string {
	switch k {
	case KindConfigMissing:
		return "config_missing"
	case KindTransportFailure:
		return "transport_failure"
	case KindNotFound:
		return "not_found"
	case KindValidationFailed:
		return "validation_failed"
	default:
		return "unknown"
	}
}

// Error is the structured error of the CMS integration layer.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrConfigMissing    = &Error{Kind: KindConfigMissing}
	ErrTransportFailure = &Error{Kind: KindTransportFailure}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrValidationFailed = &Error{Kind: KindValidationFailed}
)

// ErrUnexpectedStatus wraps non-200 responses from the content API.
var ErrUnexpectedStatus = errors.New("unexpected status code")

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return e.Kind.String()
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Op == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches bare sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// NewError builds an *Error of the given kind.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// AsError converts err into an *Error, classifying unknown errors as transport failures.
func AsError(err error, op string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindTransportFailure, Op: op, Err: err}
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Result is the outcome of a CMS operation: either a value or a structured error.
type Result[T any] struct {
	Value T
	Err   *Error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps an error.
func Fail[T any](err *Error) Result[T] {
	return Result[T]{Err: err}
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Kind returns the failure kind, or KindUnknown on success.
func (r Result[T]) Kind() Kind {
	if r.Err == nil {
		return KindUnknown
	}
	return r.Err.Kind
}
