// Package walleterr defines the error taxonomy shared by every walletcore
// package: a Go error with a stable Code and an Op breadcrumb standing in
// for a C ABI's location-tagged error struct.
package walleterr

import (
	"errors"
	"fmt"
)

// Code classifies a failure the way a caller needs to branch on it.
type Code int

const (
	// General is a catch-all for failures that don't fit a more specific code.
	General Code = iota
	InvalidArgument
	InvalidAddress
	BadEntropy
	TypeMismatch
	AlreadyExists
	NotSet
	TransactionNoSources
	TransactionNoDestinations
	TransactionTooManySources
	TransactionTooManyDestinations
	TransactionPayloadTooBig
	FeatureNotSupported
	OutOfRange
)

func (c Code) String() string {
	switch c {
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidAddress:
		return "InvalidAddress"
	case BadEntropy:
		return "BadEntropy"
	case TypeMismatch:
		return "TypeMismatch"
	case AlreadyExists:
		return "AlreadyExists"
	case NotSet:
		return "NotSet"
	case TransactionNoSources:
		return "TransactionNoSources"
	case TransactionNoDestinations:
		return "TransactionNoDestinations"
	case TransactionTooManySources:
		return "TransactionTooManySources"
	case TransactionTooManyDestinations:
		return "TransactionTooManyDestinations"
	case TransactionPayloadTooBig:
		return "TransactionPayloadTooBig"
	case FeatureNotSupported:
		return "FeatureNotSupported"
	case OutOfRange:
		return "OutOfRange"
	default:
		return "General"
	}
}

// Error is the error type returned throughout walletcore. Op names the
// operation that failed (e.g. "bigint.Parse", "Properties.Set") so a
// caller tracing a failure doesn't need a stack trace to find its origin.
type Error struct {
	Code    Code
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no wrapped cause.
func New(code Code, op, message string) *Error {
	return &Error{Code: code, Op: op, Message: message}
}

// Wrap builds an *Error around an existing error.
func Wrap(code Code, op, message string, err error) *Error {
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

// Is reports whether err carries the given Code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
