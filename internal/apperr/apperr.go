package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Error is the single error type crossing module boundaries. The HTTP layer
// and the CLI map Kind to their own presentation.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Authf(format string, args ...any) *Error {
	return &Error{Kind: KindAuth, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Remotef(format string, args ...any) *Error {
	return &Error{Kind: KindRemote, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause while keeping the kind and message.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind carried by err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
