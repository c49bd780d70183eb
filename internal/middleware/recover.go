package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	sentryhttp "github.com/getsentry/sentry-go/http"
)

// Recover reports panics to Sentry and answers them with a JSON 500.
func Recover(next http.Handler) http.Handler {
	sentryHandler := sentryhttp.New(sentryhttp.Options{Repanic: true})
	wrapped := sentryHandler.Handle(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("panic recovered",
				"panic", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}()

		wrapped.ServeHTTP(w, r)
	})
}
