package http

import (
	"net/http"

	"github.com/Kiran-230202/Otelier-Explorer/internal/apperr"
)

type ErrorResponse struct {
	Error string            `json:"error"`
	Kind  string            `json:"kind,omitempty"`
	Meta  map[string]string `json:"meta,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, msg string, meta map[string]string) {
	WriteJSON(w, status, ErrorResponse{Error: msg, Meta: meta})
}

func BadRequest(w http.ResponseWriter, msg string, meta map[string]string) {
	WriteError(w, http.StatusBadRequest, msg, meta)
}

func NotFound(w http.ResponseWriter, msg string, meta map[string]string) {
	WriteError(w, http.StatusNotFound, msg, meta)
}

func InternalError(w http.ResponseWriter, msg string, meta map[string]string) {
	WriteError(w, http.StatusInternalServerError, msg, meta)
}

// WriteAppError maps the error taxonomy onto HTTP statuses: validation 400,
// not-found 404, auth and remote failures 502 (they are upstream problems
// from this service's point of view), anything foreign 500.
func WriteAppError(w http.ResponseWriter, err error, meta map[string]string) {
	kind := apperr.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindAuth, apperr.KindRemote:
		status = http.StatusBadGateway
	}
	WriteJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind.String(), Meta: meta})
}
