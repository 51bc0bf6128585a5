package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies service-level failures.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// Error is the failure shape returned across service boundaries.
// Title is the stable, user-visible error name; Message carries detail.
type Error struct {
	Kind    Kind
	Status  int
	Title   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Title
	}
	return e.Title + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func Validation(title, message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Title: title, Message: message}
}

func NotFound(title, message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Title: title, Message: message}
}

func Unauthorized(title, message string) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusForbidden, Title: title, Message: message}
}

// Internal wraps an unexpected collaborator failure, passing its message through.
func Internal(title string, cause error) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Title: title, Message: msg, cause: cause}
}

// From extracts an *Error from err, converting unknown errors to internal ones.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("Internal error", err)
}
