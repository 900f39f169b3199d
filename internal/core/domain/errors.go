package domain

import "net/http"

// Kind classifies a failure so the transport can pick a status code without
// inspecting messages.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindConflict           Kind = "conflict"
	KindNotFound           Kind = "not_found"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindUnauthorized       Kind = "unauthorized"
	KindInvalidToken       Kind = "invalid_token"
	KindExpired            Kind = "token_expired"
	KindTokenMismatch      Kind = "token_mismatch"
	KindTooManyAttempts    Kind = "too_many_attempts"
	KindInternal           Kind = "internal_error"
)

// StatusCode returns the HTTP status associated with the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidCredentials, KindUnauthorized, KindInvalidToken, KindExpired, KindTokenMismatch:
		return http.StatusUnauthorized
	case KindTooManyAttempts:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is the single error type returned by session operations.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError builds an Error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds an Error of the given kind that keeps cause for logging.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrConflict)
// holds regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// StatusCode is a shorthand for e.Kind.StatusCode().
func (e *Error) StatusCode() int { return e.Kind.StatusCode() }

var (
	ErrValidation         = NewError(KindValidation, "invalid input")
	ErrConflict           = NewError(KindConflict, "user with email or username already exists")
	ErrNotFound           = NewError(KindNotFound, "user does not exist")
	ErrInvalidCredentials = NewError(KindInvalidCredentials, "invalid user credentials")
	ErrUnauthorized       = NewError(KindUnauthorized, "unauthorized request")
	ErrInvalidToken       = NewError(KindInvalidToken, "invalid refresh token")
	ErrExpired            = NewError(KindExpired, "token has expired")
	ErrTokenMismatch      = NewError(KindTokenMismatch, "refresh token is expired or used")
	ErrTooManyAttempts    = NewError(KindTooManyAttempts, "too many failed login attempts, try again later")
	ErrInternal           = NewError(KindInternal, "internal server error")
)
