package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "hirepath/pkg/domain-errors"
)

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Error            string              `json:"error"`
	ErrorDescription string              `json:"error_description,omitempty"`
	Fields           dErrors.FieldErrors `json:"fields,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a status code and error envelope. Errors that
// are not domain errors, and internal errors, are written without a description
// so storage details never reach the client.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: string(dErrors.CodeInternal)})
		return
	}

	resp := ErrorResponse{Error: string(de.Code)}
	status := StatusForCode(de.Code)
	if status < http.StatusInternalServerError {
		resp.ErrorDescription = de.Message
		resp.Fields = de.Fields
	}
	WriteJSON(w, status, resp)
}

// StatusForCode maps a domain error code to an HTTP status.
func StatusForCode(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeBusinessRule, dErrors.CodeMalformedInput:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
