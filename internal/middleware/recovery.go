package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/reelhub/reelhub/internal/ctxkeys"
	"github.com/reelhub/reelhub/internal/response"
)

// Recoverer turns a panic into a 500 envelope and logs the stack.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			slog.Error("panic recovered",
				"request_id", ctxkeys.RequestID(r.Context()),
				"panic", rvr,
				"stack", string(debug.Stack()),
			)

			response.Fail(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		}()

		next.ServeHTTP(w, r)
	})
}
