package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID tags every request with an id that also lands on the recorded
// import runs. Inbound ids are honored only when they are well-formed UUIDs;
// anything else is replaced rather than propagated into run documents.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		ctx := WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
