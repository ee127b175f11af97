// Package errs provides the typed errors shared by the generator packages.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind string

const (
	// KindConfig marks invalid parameters, detected before any sampling starts.
	KindConfig Kind = "config"
	// KindInternal marks a broken invariant inside the generator.
	KindInternal Kind = "internal"
	// KindIO marks a failure writing or reading external data.
	KindIO Kind = "io"
)

// Error is the error type returned by this module's packages.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "sampling.EvenSplit"
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		if e.Msg == "" {
			return fmt.Sprintf("%s: %v", e.Op, e.Err)
		}
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Configf creates a configuration error with formatting.
func Configf(op, format string, args ...interface{}) error {
	return &Error{
		Kind: KindConfig,
		Op:   op,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// WrapConfig wraps an error as a configuration error.
func WrapConfig(op, message string, err error) error {
	return &Error{
		Kind: KindConfig,
		Op:   op,
		Msg:  message,
		Err:  err,
	}
}

// Internalf creates an internal error with formatting.
func Internalf(op, format string, args ...interface{}) error {
	return &Error{
		Kind: KindInternal,
		Op:   op,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// WrapIO wraps an error as an I/O error.
func WrapIO(op, message string, err error) error {
	return &Error{
		Kind: KindIO,
		Op:   op,
		Msg:  message,
		Err:  err,
	}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool {
	return err != nil && KindOf(err) == KindConfig
}
