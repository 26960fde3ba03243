package apierr

import (
	"errors"
	"net/http"

	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/services/auth"
)

// Response bodies clients match on
const (
	MsgUserNotFound  = "User not found"
	MsgWrongPassword = "Wrong password"
	MsgUsernameTaken = "Username taken"
	MsgUnauthorized  = "Unauthorized"
	MsgNotAuthorized = "Not authorized"
	MsgUpdateFailed  = "Update failed"
	MsgInternalError = "Internal server error"
)

// httpError combines an HTTP status code with a plain-text message
type httpError struct {
	status  int
	message string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError writes err as a plain-text response
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(he.status)
	_, _ = w.Write([]byte(he.message))
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, MsgUserNotFound}
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusBadRequest, MsgUsernameTaken}
	case errors.Is(err, model.ErrUnauthorized):
		return &httpError{http.StatusForbidden, MsgUnauthorized}
	case errors.Is(err, auth.ErrWrongPassword):
		return &httpError{http.StatusUnauthorized, MsgWrongPassword}
	default:
		return &httpError{http.StatusInternalServerError, MsgInternalError}
	}
}

// New creates an error with an explicit status and body
func New(status int, message string) error {
	return &httpError{status, message}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, message}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, MsgInternalError}
}
