// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
)

// ErrorCode defines supported error codes used across the pipeline
// Values are stable because they feed process exit codes; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for panics recovered inside the main loop
	ErrorCodePanic

	// ErrorCodeStartup is for conditions that abort before any work begins (missing dump, bad paths)
	ErrorCodeStartup

	// ErrorCodeMissingTool is for an empty decompressor or compressor candidate list on PATH
	ErrorCodeMissingTool

	// ErrorCodeConfig is for invalid options
	ErrorCodeConfig

	// ErrorCodeSubprocess is for an external codec that failed to start or exited non-zero
	ErrorCodeSubprocess

	// ErrorCodeBrokenPipe is for the compressor input closing before we were done writing
	ErrorCodeBrokenPipe

	// ErrorCodeRead is for I/O errors reading the decompressed stream
	ErrorCodeRead

	// ErrorCodeDecode is for JSON decode failures (per record, never fatal)
	ErrorCodeDecode

	// ErrorCodeCanceled is for runs stopped by a signal or context
	ErrorCodeCanceled
)

// String returns a short stable name for the code, used as a log field
func (c ErrorCode) String() string {
	switch c {
	case ErrorCodePanic:
		return "panic"
	case ErrorCodeStartup:
		return "startup"
	case ErrorCodeMissingTool:
		return "missing_tool"
	case ErrorCodeConfig:
		return "config"
	case ErrorCodeSubprocess:
		return "subprocess"
	case ErrorCodeBrokenPipe:
		return "broken_pipe"
	case ErrorCodeRead:
		return "read"
	case ErrorCodeDecode:
		return "decode"
	case ErrorCodeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ExitCodeOf turns an ErrorCode into a process exit status
// Startup-fatal conditions use 2 so wrappers can tell "never ran" from "ran and failed"
func ExitCodeOf(c ErrorCode) int {
	switch c {
	case ErrorCodeStartup, ErrorCodeMissingTool, ErrorCodeConfig:
		return 2
	case ErrorCodeCanceled:
		return 130
	default:
		return 1
	}
}

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// field is optional (for config validation); op is optional operation tag
// orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// ExitCode returns the mapped process exit status for any error; nil maps to 0
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return ExitCodeOf(CodeOf(err))
}

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// Startupf returns a startup-fatal error
func Startupf(format string, a ...any) error { return Newf(ErrorCodeStartup, format, a...) }

// MissingToolf returns a missing tool error
func MissingToolf(format string, a ...any) error { return Newf(ErrorCodeMissingTool, format, a...) }

// Configf returns a config error
func Configf(format string, a ...any) error { return Newf(ErrorCodeConfig, format, a...) }

// Subprocessf returns a subprocess error
func Subprocessf(format string, a ...any) error { return Newf(ErrorCodeSubprocess, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }
