// Package errs defines the coded errors that cross package boundaries.
//
// A host inspects the code to decide how to report a failure:
//
//	if err := doc.LoadFromFile(path); errs.Is(err, errs.CodeFileNotFound) {
//	    // tell the user, keep the current buffer
//	}
//
// Geometry clamping and dangling link indices in a loaded file are not errors
// and never surface here.
package errs

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	CodeFileNotFound    Code = "FILE_NOT_FOUND"
	CodeMalformedFile   Code = "MALFORMED_FILE"
	CodeIO              Code = "IO_ERROR"
	CodeNoPath          Code = "NO_PATH"
	CodeNothingToExport Code = "NOTHING_TO_EXPORT"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any error in err's chain is an *Error with code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
