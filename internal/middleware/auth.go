package middleware

import (
	"net/http"
	"strings"

	"github.com/reelhub/reelhub/internal/ctxkeys"
	"github.com/reelhub/reelhub/internal/response"
	"github.com/reelhub/reelhub/internal/service"
)

// SessionVerifier maps a session token to a user id.
type SessionVerifier interface {
	VerifySession(token string) (string, error)
	ClearSessionCookie(w http.ResponseWriter)
}

// AuthMiddleware resolves the session from a bearer token or the session cookie
// and stores the user id in the context. Requests with an invalid session
// continue anonymously; a stale cookie is cleared.
func AuthMiddleware(sessions SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.VerifySession(token)
			if err != nil {
				if fromCookie {
					sessions.ClearSessionCookie(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken prefers the Authorization header over the cookie.
func sessionToken(r *http.Request) (token string, fromCookie bool) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, value, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(value), false
		}
		return "", false
	}

	cookie, err := r.Cookie(service.SessionCookieName)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

// RequireAuth rejects anonymous requests with a 401 envelope.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.UserID(r.Context()) == "" {
			response.Error(w, r, service.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}
