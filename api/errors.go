// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for virst.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	ErrAlreadyConnected = errors.New("tracker is already connected")
	ErrDegenerateRange  = errors.New("binding input range is degenerate")
	ErrUnimplemented    = errors.New("binding kind is not implemented")
	ErrUnbound          = errors.New("parameter has no binding")
	ErrNonFinite        = errors.New("binding produced a non-finite value")
	ErrAssetRead        = errors.New("could not read asset")
	ErrAssetFormat      = errors.New("could not parse asset data")
	ErrMalformedPacket  = errors.New("malformed tracking packet")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("resource not found")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeNotFound
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Is maps error codes onto the matching sentinel so callers can use errors.Is.
func (e *Error) Is(target error) bool {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return target == ErrInvalidArgument
	case ErrCodeNotFound:
		return target == ErrNotFound
	}
	return false
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
