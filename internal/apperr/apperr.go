// Package apperr defines the error kinds the engine distinguishes when it
// degrades instead of failing.
//
// Errors carry a Kind and the operation that produced them:
//
//	err := apperr.Validation("adapter.AdaptWorkout", "exercise 2 has no name")
//	if errors.Is(err, apperr.ErrValidation) { ... }
//
// Kinds:
//   - DependencyUnavailable: a collaborator (preference store, identity) is missing or failing
//   - Validation: malformed workout, candidate or preference input
//   - NotFound: a lookup (substitution rule, stored preferences) had no match
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for fallback handling.
type Kind int

const (
	KindUnknown Kind = iota
	KindDependencyUnavailable
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindDependencyUnavailable:
		return "dependency unavailable"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is.
var (
	ErrDependencyUnavailable = &Error{Kind: KindDependencyUnavailable}
	ErrValidation            = &Error{Kind: KindValidation}
	ErrNotFound              = &Error{Kind: KindNotFound}
)

// Error is a classified error.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so sentinels compare by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// DependencyUnavailable wraps a failing or missing collaborator.
func DependencyUnavailable(op string, err error) error {
	return &Error{Kind: KindDependencyUnavailable, Op: op, Err: err}
}

// Validation reports malformed input.
func Validation(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a lookup without a match.
func NotFound(op, format string, args ...any) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Recovered converts a recovered panic value into an error.
func Recovered(op string, r any) error {
	if err, ok := r.(error); ok {
		return &Error{Op: op, Msg: "panic", Err: err}
	}
	return &Error{Op: op, Msg: fmt.Sprintf("panic: %v", r)}
}
