// Package errors provides structured error types for accumap.
//
// Every failure in the pipeline is fatal and aborts the run, so the value of
// this package is in classification: a caller can tell a bad configuration
// from a corrupt input file from an empty dataset without parsing messages.
//
// # Error Codes
//
//   - INVALID_CONFIG: dataset/colour mismatch, too many datasets, unknown modes
//   - PARSE_ERROR: a record lacks a tag required to estimate its identity
//   - EMPTY_DATASET: no record survived filtering, nothing to plot
//   - IO_ERROR: an input could not be opened or the image could not be written
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "%d datasets but %d colors", n, m)
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // reject before reading anything
//	}
//
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors, raised before any record is read.
	ErrCodeConfig       Code = "INVALID_CONFIG"
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Input data errors
	ErrCodeParse Code = "PARSE_ERROR"
	ErrCodeData  Code = "EMPTY_DATASET"

	// File system errors
	ErrCodeIO           Code = "IO_ERROR"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// so an IO_ERROR wrapped inside a dataset error is still found.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed by
// the cause when there is one. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
