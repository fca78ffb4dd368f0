package model

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier returned to tool callers.
type Code string

const (
	// CodeAccessDenied means the path lies outside every allowed root.
	CodeAccessDenied Code = "AccessDenied"
	// CodeNotFound means the path does not exist, or no root resolved it.
	CodeNotFound Code = "NotFound"
	// CodeNoRootsConfigured means the process was started without roots.
	CodeNoRootsConfigured Code = "NoRootsConfigured"
	// CodeParseError means a document could not be read or parsed.
	CodeParseError Code = "ParseError"
	// CodeInvalidArgument means the tool arguments violate the tool schema.
	CodeInvalidArgument Code = "InvalidArgument"
	// CodeInternal means an unexpected fault, such as a recovered panic.
	CodeInternal Code = "Internal"
)

// Sentinel errors for use with errors.Is. Any *Error with the same Code matches.
var (
	ErrAccessDenied      = &Error{Code: CodeAccessDenied, Message: "access denied"}
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "not found"}
	ErrNoRootsConfigured = &Error{Code: CodeNoRootsConfigured, Message: "no allowed roots configured"}
	ErrParseError        = &Error{Code: CodeParseError, Message: "parse error"}
	ErrInvalidArgument   = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrInternal          = &Error{Code: CodeInternal, Message: "internal error"}
)

// Error is a tool-visible failure with a stable code.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// NewError creates an Error with a formatted message.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error that wraps cause.
func WrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// CodeOf returns the code carried by err, or CodeInternal when err is not
// an *Error. A nil error has no code and yields the empty string.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
