// Package apperror holds the error taxonomy shared by the API server and the
// composition client. Every error carries a Kind that maps onto an HTTP status.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindExternalService
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindExternalService:
		return "external_service"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// HTTPStatus returns the status code a central handler should answer with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error. Message is safe to show to a user; Err is the
// internal cause and is never serialized.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match any *Error of the same kind against the sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if t.Message == "" {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Kind sentinels, usable as errors.Is(err, apperror.ErrNotFound).
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrAuthentication  = &Error{Kind: KindAuthentication}
	ErrAuthorization   = &Error{Kind: KindAuthorization}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrExternalService = &Error{Kind: KindExternalService}
	ErrPersistence     = &Error{Kind: KindPersistence}
)

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func ExternalService(message string, err error) *Error {
	return &Error{Kind: KindExternalService, Message: message, Err: err}
}

// Persistence wraps a storage failure. The message is fixed so internals never leak.
func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Message: "internal server error", Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// UserMessage returns the user-facing message of err, or fallback when err
// is not classified.
func UserMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
