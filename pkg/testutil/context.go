package testutil

import (
	"net/http"
	"time"

	"hirepath/pkg/requestcontext"
)

// WithRequestID simulates the RequestID middleware for handlers tested in
// isolation.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithRequestTime pins the request-scoped clock.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
