package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error coarsely; it decides the HTTP status a handler
// reports and nothing else.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalid
	KindUnauthorized
)

// Error carries a caller-facing reason string and a Kind. Internal detail
// (driver errors etc.) is wrapped but never shown to the caller.
type Error struct {
	Kind   Kind
	Reason string
	cause  error
}

func (e *Error) Error() string {
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NotFound reports a missing user/message/game/conversation.
func NotFound(reason string) error {
	return &Error{Kind: KindNotFound, Reason: reason}
}

// Conflict reports a duplicate or already-applied operation.
func Conflict(reason string) error {
	return &Error{Kind: KindConflict, Reason: reason}
}

// Invalid reports a self-targeting, out-of-turn or otherwise malformed operation.
func Invalid(reason string) error {
	return &Error{Kind: KindInvalid, Reason: reason}
}

// Unauthorized reports a missing or bad session credential.
func Unauthorized(reason string) error {
	return &Error{Kind: KindUnauthorized, Reason: reason}
}

// Internal wraps a persistence or infrastructure failure behind a generic reason.
func Internal(cause error) error {
	return &Error{Kind: KindInternal, Reason: "Internal server error", cause: cause}
}

// Internalf is Internal with a formatted cause, for call sites without an error value.
func Internalf(format string, args ...any) error {
	return Internal(fmt.Errorf(format, args...))
}

// KindOf extracts the Kind of err; unknown errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps an error to the HTTP status a handler should answer with.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalid:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Reason returns the caller-facing message for err.
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return "Internal server error"
}
