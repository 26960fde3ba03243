package handler

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/mcoot/taptext/internal/api/apierr"
	"github.com/mcoot/taptext/internal/api/request"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// decode binds and validates a request body, writing a 400 on failure
func decode(w http.ResponseWriter, r *http.Request, dst request.Validator) bool {
	if err := request.Decode(w, r, dst); err != nil {
		WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return false
	}
	return true
}

// pathVar returns the unescaped route variable, writing a 400 when it is malformed
func pathVar(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v, err := url.PathUnescape(mux.Vars(r)[name])
	if err != nil {
		WriteError(w, apierr.NewInvalidRequestError("invalid "+name))
		return "", false
	}
	return v, true
}
