package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionHeader carries the session identity. The server issues a fresh UUID
// when the header is absent or not a UUID and always echoes the effective
// session ID back, so clients without one can adopt it.
const SessionHeader = "X-Session-ID"

type sessionIDKey struct{}

// sessionIDFromContext extracts the session ID placed by SessionID.
func sessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}

// SessionID is a middleware that resolves the request's session identity.
func SessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if !isValidSessionID(id) {
			id = uuid.New().String()
		}

		w.Header().Set(SessionHeader, id)

		ctx := context.WithValue(r.Context(), sessionIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isValidSessionID accepts only server-issued UUIDs. Anything else is
// replaced with a fresh one so clients cannot claim arbitrary session keys.
func isValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
