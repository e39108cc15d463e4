package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/reelhub/reelhub/internal/ctxkeys"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID or generates a new one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithRequestID(r.Context(), requestID)))
	})
}
