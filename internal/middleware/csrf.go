package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/reelhub/reelhub/internal/ctxkeys"
	"github.com/reelhub/reelhub/internal/response"
	"github.com/reelhub/reelhub/internal/service"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenLen   = 32
)

// CSRFProtection guards writes that are authenticated by the session cookie.
// It must run after AuthMiddleware. Safe requests receive a csrf_token cookie that browser clients echo back in
// the X-CSRF-Token header. Requests carrying an Authorization header, or no
// valid session cookie, are not ambient-credentialed and pass through.
func CSRFProtection(isProduction bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				ensureCSRFCookie(w, r, isProduction)
				next.ServeHTTP(w, r)
				return
			}

			if r.Header.Get("Authorization") != "" {
				next.ServeHTTP(w, r)
				return
			}
			// only a cookie that resolved to a session is an ambient credential;
			// a stale one is handled like no cookie at all
			if _, err := r.Cookie(service.SessionCookieName); err != nil || ctxkeys.UserID(r.Context()) == "" {
				next.ServeHTTP(w, r)
				return
			}

			var expected string
			if cookie, err := r.Cookie(csrfCookieName); err == nil {
				expected = cookie.Value
			}

			if !validCSRFToken(expected, r.Header.Get(csrfHeader)) {
				slog.Warn("csrf validation failed",
					"path", r.URL.Path,
					"method", r.Method,
					"ip", remoteHost(r),
				)
				response.Fail(w, http.StatusForbidden, response.CodeCSRFFailed, "Invalid CSRF token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ensureCSRFCookie(w http.ResponseWriter, r *http.Request, isProduction bool) {
	cookie, err := r.Cookie(csrfCookieName)
	if err == nil && len(cookie.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenLen) {
		return
	}

	// readable by scripts so the client can copy it into the header
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    generateCSRFToken(),
		Path:     "/",
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
}

func generateCSRFToken() string {
	bytes := make([]byte, csrfTokenLen)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate csrf token: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}

// validCSRFToken performs constant-time comparison of tokens
func validCSRFToken(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
