package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string      `json:"error"`
	Code      apperr.Code `json:"code"`
	RequestID string      `json:"requestId,omitempty"`
}

// WriteJSONResponse writes v as JSON with the given status.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		loggerFrom(r.Context()).Error("encode response", "path", r.URL.Path, "err", err)
	}
}

// ErrorResponse writes err with the status its code maps to. Uncoded errors
// are reported as INTERNAL_ERROR without leaking their text.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	code := apperr.GetCode(err)
	msg := apperr.UserMessage(err)
	if code == "" {
		code = apperr.ErrCodeInternal
		msg = "internal error"
	}

	logger := loggerFrom(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
	} else {
		logger.Debug("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}

	WriteJSONResponse(w, r, status, errorBody{Error: msg, Code: code, RequestID: requestIDFrom(r.Context())})
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.New(apperr.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return apperr.New(apperr.ErrCodeInvalidInput, "request body is empty")
		default:
			return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid request body")
		}
	}
	return nil
}

// requireQuery returns the trimmed query parameter, validated as a
// free-text place name.
func requireQuery(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", apperr.New(apperr.ErrCodeInvalidInput, "missing %s parameter", name)
	}
	if err := apperr.ValidateDestination(v); err != nil {
		return "", err
	}
	return v, nil
}
