// Package apperr defines the typed failures the account service raises
// and the boundary layer translates into HTTP responses. Every failure
// carries a stable machine-readable code string that is returned to
// clients verbatim.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus maps a failure kind to the status the boundary layer
// responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind Kind
	Code string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Code, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Code)
}

func (e *Error) Unwrap() error {
	return e.err
}

func New(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

func Wrap(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, err: err}
}

func BadRequest(code string) *Error {
	return New(KindBadRequest, code)
}

func Unauthorized(code string) *Error {
	return New(KindUnauthorized, code)
}

func NotFound(code string) *Error {
	return New(KindNotFound, code)
}

func Conflict(code string) *Error {
	return New(KindConflict, code)
}

// Internal wraps an unexpected collaborator failure. The code string
// deliberately stays generic so internals don't leak to clients.
func Internal(err error) *Error {
	return Wrap(KindInternal, "internal_server_error", err)
}

// From extracts the typed failure out of err, wrapping anything
// untyped as an internal error.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
