package booking

import (
	"errors"
	"fmt"
)

// Kind classifies a booking error so callers can branch on it.
type Kind string

const (
	KindNotFound   Kind = "notFound"
	KindBadRequest Kind = "badRequest"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
)

// Error is the typed error returned by booking operations.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewNotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewBadRequest(msg string) error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

func NewConflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NewForbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// KindOf extracts the Kind from an error, or "" when the error is not a
// booking Error.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// asBadRequest passes typed booking errors through untouched and wraps any
// unexpected internal error as BadRequest, preserving the underlying
// message for diagnostics.
func asBadRequest(err error) error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		return err
	}
	return &Error{Kind: KindBadRequest, Message: err.Error()}
}
