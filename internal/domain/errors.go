package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure so the transport can pick a status code.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidParameter
	KindUnauthorized
	KindNotFound
	KindAlreadyExists
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Reasons attached to unauthorized errors.
const (
	ReasonCredentialsRequired = "credentials_required"
	ReasonInvalidToken        = "invalid_token"
	ReasonInvalidCredentials  = "invalid_credentials"
)

// Error is the typed failure returned by services.
type Error struct {
	Kind    ErrorKind
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func InvalidParameter(msg string) *Error {
	return &Error{Kind: KindInvalidParameter, Message: msg}
}

func Unauthorized(reason, msg string) *Error {
	return &Error{Kind: KindUnauthorized, Reason: reason, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func AlreadyExists(msg string) *Error {
	return &Error{Kind: KindAlreadyExists, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the classification of err, KindInternal when err is not a *Error.
func KindOf(err error) ErrorKind {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind
	}
	return KindInternal
}
