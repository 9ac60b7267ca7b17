package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "hirepath/pkg/domain-errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestWriteErrorHidesServerSideDetail(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"internal", dErrors.New(dErrors.CodeInternal, "db failed"), http.StatusInternalServerError, "internal_error"},
		{"unavailable", dErrors.New(dErrors.CodeUnavailable, "s3 circuit open"), http.StatusServiceUnavailable, "unavailable"},
		{"plain error", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.code, body["error"])
			assert.NotContains(t, body, "error_description")
			assert.NotContains(t, body, "fields")
		})
	}
}

func TestWriteErrorCarriesFields(t *testing.T) {
	fields := dErrors.FieldErrors{}
	fields.Add("officeLocation", "required", "Office location is required for non-remote positions")

	w := httptest.NewRecorder()
	WriteError(w, dErrors.WithFields(dErrors.CodeValidation, "submission is invalid", fields))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "validation_error", body.Error)
	assert.Equal(t, "submission is invalid", body.ErrorDescription)
	require.Len(t, body.Fields["officeLocation"], 1)
	assert.Equal(t, "required", body.Fields["officeLocation"][0].Type)
}

func TestStatusForCode(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeBadRequest:         http.StatusBadRequest,
		dErrors.CodeValidation:         http.StatusBadRequest,
		dErrors.CodeBusinessRule:       http.StatusBadRequest,
		dErrors.CodeMalformedInput:     http.StatusBadRequest,
		dErrors.CodeNotFound:           http.StatusNotFound,
		dErrors.CodeUnavailable:        http.StatusServiceUnavailable,
		dErrors.CodeInvariantViolation: http.StatusInternalServerError,
		dErrors.CodeInternal:           http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusForCode(code), string(code))
	}
}
