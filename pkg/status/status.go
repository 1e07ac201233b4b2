// Package status defines the closed set of failure kinds reported by csvstat
// and the process exit code each of them maps to.
package status

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code identifies a failure kind. The numeric value is the process exit code.
type Code int

const (
	OK              Code = 0
	ArgumentError   Code = 2
	IOError         Code = 3
	FormatError     Code = 4
	ColumnNotFound  Code = 5
	AllocationError Code = 6
	InternalError   Code = 10
)

// String returns the canonical message for the code.
func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case ArgumentError:
		return "invalid arguments"
	case IOError:
		return "I/O error"
	case FormatError:
		return "invalid CSV format"
	case ColumnNotFound:
		return "column not found"
	case AllocationError:
		return "out of memory"
	case InternalError:
		return "internal error"
	default:
		return "unknown error"
	}
}

// Context names the stage a failure kind belongs to, used as a prefix when
// the failure is reported to the user.
func (c Code) Context() string {
	switch c {
	case OK:
		return ""
	case ArgumentError:
		return "cli"
	case IOError:
		return "io"
	case FormatError:
		return "format"
	case ColumnNotFound:
		return "header"
	case AllocationError:
		return "memory"
	default:
		return "internal"
	}
}

// Error is a failure of a given kind, optionally carrying the underlying
// cause (for IOError, the error returned by the stream).
type Error struct {
	Code Code
	Err  error
}

// New returns an *Error of kind code wrapping err. err may be nil.
func New(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

// Errorf returns an *Error of kind code whose cause is a formatted message.
func Errorf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Err: errors.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s (%v)", e.Code, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause makes *Error transparent to errors.Cause.
func (e *Error) Cause() error {
	return e.Err
}

// CodeOf returns the kind of err. A nil error is OK and an error outside the
// taxonomy is an InternalError.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return InternalError
}

// Is reports whether err is a failure of kind code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Report formats err the way the command line reports fatal failures:
// "<context>: <message> (<detail>)".
func Report(err error) string {
	code := CodeOf(err)
	var msg string
	var se *Error
	if errors.As(err, &se) {
		msg = se.Error()
	} else {
		msg = fmt.Sprintf("%s (%v)", code, err)
	}
	if ctx := code.Context(); ctx != "" {
		return ctx + ": " + msg
	}
	return msg
}
